package request

type SweepRequest struct {
	// Secret is the shared secret the external cron presents; it is compared
	// against a bcrypt hash, never stored in clear.
	Secret string `json:"secret" binding:"required"`
}
