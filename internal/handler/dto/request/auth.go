package request

type LoginRequest struct {
	// Ticket is the CAS one-time service ticket from the SSO redirect.
	Ticket string `json:"ticket" binding:"required"`
}

type RefreshRequest struct {
	// Optional: the refresh cookie is used when the body omits it.
	RefreshToken string `json:"refresh_token"`
}

type UpdateCredentialRequest struct {
	Credential string `json:"credential" binding:"required"`
}
