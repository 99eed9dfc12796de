package response

// APIResponse is the envelope returned by every HTTP API.
// Use OKT / ErrorT helpers to construct instances.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OKT returns a successful response with data.
func OKT[T any](data T) *APIResponse[T] {
	return &APIResponse[T]{Success: true, Data: data}
}

// OKMsgT returns a successful response with data and a human readable message.
func OKMsgT[T any](data T, message string) *APIResponse[T] {
	return &APIResponse[T]{Success: true, Data: data, Message: message}
}

// ErrorT returns an error response. message is shown to users, err carries
// the machine-facing cause.
func ErrorT(message string, err error) *APIResponse[any] {
	r := &APIResponse[any]{Success: false, Message: message}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
