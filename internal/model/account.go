package model

// Registration is the sign-up body.
type Registration struct {
	Email    string `json:"email" validate:"useremail"`
	Password string `json:"password" validate:"password"`
	Pseudo   string `json:"pseudo" validate:"min=2,max=8,alphanum,lowercase"`
}

// Credentials is the login body. Only the shape is checked; the password
// rules apply to new passwords, not to existing accounts.
type Credentials struct {
	Email    string `json:"email" validate:"useremail"`
	Password string `json:"password" validate:"required"`
}

type PasswordChange struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"password"`
}

type AvatarChange struct {
	AvatarURL string `json:"avatarUrl" validate:"http_url"`
}
