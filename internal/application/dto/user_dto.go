package dto

// UserInput is the payload for POST /users and PUT /users/:id. Password only travels on create.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password,omitempty"`
}

// ChangePasswordRequest is the payload for PUT /users/change-password.
type ChangePasswordRequest struct {
	Password string `json:"password"`
	UserID   string `json:"user_id"`
}
