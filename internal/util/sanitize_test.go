package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeUsername(t *testing.T) {
	t.Parallel()

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		actual, err := SanitizeUsername("  alice.smith@corp ")
		require.NoError(t, err)
		require.Equal(t, "alice.smith@corp", actual)
	})

	t.Run("strips invisible characters", func(t *testing.T) {
		actual, err := SanitizeUsername("bo\u200Bb\uFEFF")
		require.NoError(t, err)
		require.Equal(t, "bob", actual)
	})

	t.Run("allows unicode letters", func(t *testing.T) {
		actual, err := SanitizeUsername("josé_99")
		require.NoError(t, err)
		require.Equal(t, "josé_99", actual)
	})

	t.Run("rejects empty usernames", func(t *testing.T) {
		_, err := SanitizeUsername("   ")
		require.Error(t, err)
	})

	t.Run("rejects null bytes", func(t *testing.T) {
		_, err := SanitizeUsername("ad\x00min")
		require.Error(t, err)
	})

	t.Run("rejects inner whitespace and punctuation", func(t *testing.T) {
		for _, name := range []string{"john doe", "root;drop", "a/b", "x<y>"} {
			_, err := SanitizeUsername(name)
			require.Error(t, err, name)
		}
	})

	t.Run("rejects names that are only invisible", func(t *testing.T) {
		_, err := SanitizeUsername("\u200B\u200D")
		require.Error(t, err)
	})
}
