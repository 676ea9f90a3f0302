package model

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ModifyTokenRequest struct {
	Revoke *bool `json:"revoke"`
}

type CreateUserRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	IsSuperuser bool   `json:"is_superuser"`
	IsManager   bool   `json:"is_manager"`
	IsSeller    bool   `json:"is_seller"`
	IsCustomer  *bool  `json:"is_customer"`
	IsActive    *bool  `json:"is_active"`
}

type CreateSellerRequest struct {
	UserID int64 `json:"user_id"`
}
