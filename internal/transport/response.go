package transport

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope every JSON reply is wrapped in.
type Response struct {
	Status  string `json:"status"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Success(payload any) Response {
	return Response{Status: StatusSuccess, Payload: payload}
}

func Failure(msg string) Response {
	return Response{Status: StatusError, Error: msg}
}
