package dto

import "time"

// GoogleTokenRequest carries a Google ID token from the native app flow.
type GoogleTokenRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// AuthResponse is returned on successful login, registration or token refresh.
type AuthResponse struct {
	AccessToken        string       `json:"accessToken"`
	AccessTokenExpiry  time.Time    `json:"accessTokenExpiry"`
	RefreshToken       string       `json:"refreshToken,omitempty"`
	RefreshTokenExpiry *time.Time   `json:"refreshTokenExpiry,omitempty"`
	User               UserResponse `json:"user"`
}
