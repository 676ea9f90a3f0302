package model

import "time"

// RoleFlags is the authorization payload embedded in every token under "roles".
type RoleFlags struct {
	IsSuperuser bool `json:"is_superuser"`
	IsManager   bool `json:"is_manager"`
	IsSeller    bool `json:"is_seller"`
	IsCustomer  bool `json:"is_customer"`
}

func (r RoleFlags) Admin() bool {
	return r.IsSuperuser
}

func (r RoleFlags) Manager() bool {
	return r.IsManager || r.IsSuperuser
}

func (r RoleFlags) Staff() bool {
	return r.IsSeller || r.IsManager || r.IsSuperuser
}

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	RoleFlags
	IsActive   bool      `json:"is_active"`
	Deleted    bool      `json:"deleted"`
	Thumbnail  *string   `json:"thumbnail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

type Seller struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Deleted    bool      `json:"deleted"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
	User       *User     `json:"user,omitempty"`
}

// AuthClaims is the decoded, verified content of a token. Roles is a snapshot
// taken at issuance; a nil Roles means the token carried no usable roles map.
type AuthClaims struct {
	Subject   string     `json:"sub"`
	Username  string     `json:"username"`
	Roles     *RoleFlags `json:"roles"`
	Type      TokenType  `json:"type"`
	TokenID   string     `json:"jti"`
	IssuedAt  time.Time  `json:"iat"`
	ExpiresAt time.Time  `json:"exp"`
}
