package meeting

// CreateMeetingRequest represents the request to create a meeting
type CreateMeetingRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	AgentID string `json:"agent_id" validate:"required"`
}

// UpdateMeetingRequest represents the request to update a meeting
type UpdateMeetingRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	AgentID *string `json:"agent_id,omitempty" validate:"omitempty,min=1"`
}

// ListMeetingsRequest represents query parameters for listing meetings
type ListMeetingsRequest struct {
	Search   string  `query:"search"`
	Status   *string `query:"status" validate:"omitempty,meetingstatus"`
	AgentID  *string `query:"agent_id"`
	Page     int     `query:"page" validate:"omitempty,min=1"`
	PageSize int     `query:"page_size" validate:"omitempty,min=1,max=100"`
}
