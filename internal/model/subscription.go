package model

// SubscribeRequest represents a subscription form submission.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required"`
}

// MessageResponse is the body of endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}
