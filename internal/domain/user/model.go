package user

// Principal is the authenticated caller as verified by the account service.
type Principal struct {
	UserID string
	Email  string
}
