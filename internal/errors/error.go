package errors

// ErrorUnauthorized is the error for unauthorized requests.
type ErrorUnauthorized struct{}

func (eu *ErrorUnauthorized) Error() string {
	return "not authorized"
}

// ErrorUnknown is returned to clients in place of internal server errors.
type ErrorUnknown struct{}

func (eu *ErrorUnknown) Error() string {
	return "internal server error"
}
