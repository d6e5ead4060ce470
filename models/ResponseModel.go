package models

// ErrorResponse is the standard error body returned by the API.
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid request"`
	Details string `json:"details,omitempty" example:"quantity must be positive"`
	Field   string `json:"field,omitempty" example:"required_by"`
}

// MessageResponse is the standard success body for mutations with no payload.
type MessageResponse struct {
	Message string `json:"message" example:"Requisition submitted successfully"`
	ID      uint   `json:"id,omitempty" example:"12"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	SessionID    string `json:"session_id"`
	User         User   `json:"user"`
}

// PendingResponsesResponse lists quotation responses awaiting review.
type PendingResponsesResponse struct {
	Count     int                 `json:"count"`
	Responses []QuotationResponse `json:"responses"`
}
