package service

import "workforce-api/internal/model"

// BuildClaims snapshots the user's identity and role flags. Later role
// changes are not seen by tokens already issued from this snapshot.
func BuildClaims(user model.User) model.AuthClaims {
	roles := user.RoleFlags
	return model.AuthClaims{
		Subject:  user.Username,
		Username: user.Username,
		Roles:    &roles,
	}
}
