package dto

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePassword struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
