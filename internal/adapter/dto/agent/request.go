package agent

// CreateAgentRequest represents the request to create an agent
type CreateAgentRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=255"`
	Instructions string `json:"instructions" validate:"required,min=1"`
}

// UpdateAgentRequest represents the request to update an agent
type UpdateAgentRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Instructions *string `json:"instructions,omitempty" validate:"omitempty,min=1"`
}

// ListAgentsRequest represents query parameters for listing agents
type ListAgentsRequest struct {
	Search   string `query:"search"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}
