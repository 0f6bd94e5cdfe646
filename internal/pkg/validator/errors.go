package validator

// Errors makes a collected violation list usable as an error value, so
// services can return it and handlers can errors.As it back out.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return "validation failed: " + e[0].Field + " " + e[0].Message
}
