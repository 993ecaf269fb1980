package response

// Response is the envelope every endpoint answers with: {success, data}.
// Failure payloads carry the user-facing message under data.message.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorData is the data payload of a failure response
type ErrorData struct {
	Message string `json:"message"`
}

// Success wraps data in a success envelope
func Success(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// Error wraps a user-facing message in a failure envelope
func Error(message string) Response {
	return Response{
		Success: false,
		Data:    ErrorData{Message: message},
	}
}
