package types

// SuccessEnvelope wraps every 2xx payload. Clients always find the body
// under "data", whether it is a parcel, a list or a tracking page.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape. Details carries field-level validation
// messages and partial-failure steps; it is omitted for internal codes.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every non-2xx payload.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewSuccess builds the success envelope for a payload.
func NewSuccess(data any) SuccessEnvelope {
	return SuccessEnvelope{Data: data}
}

// NewError builds the error envelope.
func NewError(code, message string, details any) ErrorEnvelope {
	return ErrorEnvelope{Error: APIError{
		Code:    code,
		Message: message,
		Details: details,
	}}
}
