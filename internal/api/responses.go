package api

const (
	CodeClassNotFound      = "class_not_found"
	CodeNoSlotsAvailable   = "no_slots_available"
	CodeBookingNotRecorded = "booking_not_recorded"
	CodeUnavailable        = "unavailable"
	CodeValidation         = "validation_failed"
	CodeRateLimited        = "rate_limited"
)

type ErrorResponse struct {
	Error   string            `json:"error" example:"Class not found"`
	Code    string            `json:"code" example:"class_not_found"`
	Details []ValidationError `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

func Unavailable() ErrorResponse {
	return ErrorResponse{Error: "Service temporarily unavailable, please retry", Code: CodeUnavailable}
}
