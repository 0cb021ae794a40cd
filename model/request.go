// file: model/request.go

package model

// RegisterRequest defines the payload for public self-registration. The role
// is always forced to "user" regardless of what the caller sends.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshRequest carries the opaque refresh token being exchanged.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CreateUserRequest is the admin payload for creating a user with an
// explicit role.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

// UpdateUserRequest supports partial updates: nil fields are left untouched.
// A non-nil Password is re-hashed before persisting.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin user"`
}

// SubscribeRequest is the newsletter signup payload.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}
