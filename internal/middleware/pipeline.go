package middleware

import (
	"context"
	"net/http"
)

// Stage is one capability check. It returns the context the request should
// continue with, or a terminal error that ends the request.
type Stage func(r *http.Request) (context.Context, error)

// Pipeline runs stages in order before next. The first failing stage writes
// the response; later stages and next never run.
func Pipeline(stages ...Stage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, stage := range stages {
				ctx, err := stage(r)
				if err != nil {
					writeError(w, r, err)
					return
				}
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}
