package dto

// SignUpDTO is used for incoming sign-up requests.
type SignUpDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
}

// SignInDTO is used for incoming sign-in requests.
type SignInDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponseDTO is returned after a successful sign-in.
type SessionResponseDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
}

// SignUpResponseDTO is returned after a successful sign-up. The account
// still needs email verification before it can sign in.
type SignUpResponseDTO struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
