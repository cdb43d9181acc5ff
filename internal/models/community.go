package models

import "time"

// Community 社区模型
type Community struct {
	CommunityID   string    `gorm:"primaryKey;size:32" json:"community_id"`
	CommunityText string    `gorm:"size:64;not null" json:"community_text"`
	Address       string    `gorm:"size:255" json:"address,omitempty"`
	Latitude      float64   `gorm:"default:0" json:"latitude"`
	Longitude     float64   `gorm:"default:0" json:"longitude"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Community) TableName() string {
	return "communities"
}

// ProblemType 问题类型
type ProblemType struct {
	TypeID    string    `gorm:"primaryKey;size:32" json:"type_id"`
	TypeText  string    `gorm:"size:64;not null" json:"type_text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (ProblemType) TableName() string {
	return "problem_types"
}
