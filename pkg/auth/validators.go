package auth

// TokenPayload is the login request body.
type TokenPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshPayload carries a refresh token for refresh and logout.
type RefreshPayload struct {
	Refresh string `json:"refresh" validate:"required"`
}

// AccessResponse is returned by the refresh endpoint.
type AccessResponse struct {
	Access string `json:"access"`
}
