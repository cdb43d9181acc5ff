package dto

// CreateCommunityRequest 创建社区请求
type CreateCommunityRequest struct {
	CommunityText string  `json:"community_text" binding:"required,max=64"`
	Address       string  `json:"address" binding:"max=255"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
}

// UpdateCommunityRequest 修改社区请求
type UpdateCommunityRequest struct {
	CommunityText string  `json:"community_text" binding:"required,max=64"`
	Address       *string `json:"address,omitempty" binding:"omitempty,max=255"`
}

// CreateProblemTypeRequest 创建问题类型请求
type CreateProblemTypeRequest struct {
	TypeText string `json:"type_text" binding:"required,max=64"`
}
