package dto

type MarkAsReadRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}
