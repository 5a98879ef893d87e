package app

// ValidationError rejects an upload before any network call is made. It is
// user-correctable: pick a different file and retry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
