package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ProblemStatus 问题状态
type ProblemStatus int

const (
	StatusUnresolved ProblemStatus = 0 // 未整改
	StatusResolved   ProblemStatus = 1 // 已整改
)

// Valid 是否为已知状态
func (s ProblemStatus) Valid() bool {
	return s == StatusUnresolved || s == StatusResolved
}

// Text 状态文本
func (s ProblemStatus) Text() string {
	switch s {
	case StatusUnresolved:
		return "未整改"
	case StatusResolved:
		return "已整改"
	default:
		return "未知"
	}
}

// Severity 严重程度
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Text 严重程度文本
func (s Severity) Text() string {
	switch s {
	case SeverityLow:
		return "轻微"
	case SeverityMedium:
		return "中等"
	case SeverityHigh:
		return "严重"
	default:
		return "未知"
	}
}

var (
	ErrInvalidStatus = errors.New("无效的问题状态")
	ErrStatusRevert  = errors.New("问题已整改，不能回退")
	ErrAlreadyFixed  = errors.New("问题已整改，不能重复提交")
	ErrNoFixPhotos   = errors.New("请至少上传一张整改照片")
)

// Problem 环境问题上报记录
type Problem struct {
	ProblemID          string        `gorm:"primaryKey;size:32" json:"problem_id"`
	UserID             string        `gorm:"size:32;not null;index" json:"user_id"`
	CommunityID        string        `gorm:"size:32;not null;index" json:"community_id"`
	TypeID             string        `gorm:"size:32;index" json:"type_id"`
	Severity           Severity      `gorm:"size:10" json:"severity,omitempty"`
	Title              string        `gorm:"size:128;not null" json:"title"`
	Description        string        `gorm:"type:text" json:"description,omitempty"`
	Location           string        `gorm:"size:255" json:"location"`
	Latitude           float64       `json:"latitude,omitempty"`
	Longitude          float64       `json:"longitude,omitempty"`
	ImagePaths         StringList    `gorm:"type:text" json:"image_paths"`
	ResolvedImagePaths StringList    `gorm:"type:text" json:"resolved_image_paths,omitempty"`
	FixDescription     string        `gorm:"type:text" json:"fix_description,omitempty"`
	Status             ProblemStatus `gorm:"default:0;index" json:"status"`
	ResolvedBy         string        `gorm:"size:32" json:"resolved_by,omitempty"`
	ResolvedAt         *time.Time    `json:"resolved_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// TableName 指定表名
func (Problem) TableName() string {
	return "problems"
}

// ApplyStatus 更新问题状态
// 状态只能从未整改变为已整改; 重复设置相同状态不改变任何内容
func (p *Problem) ApplyStatus(status ProblemStatus, by string, at time.Time) (bool, error) {
	if !status.Valid() {
		return false, ErrInvalidStatus
	}
	if p.Status == status {
		return false, nil
	}
	if p.Status == StatusResolved {
		return false, ErrStatusRevert
	}

	resolvedAt := at
	p.Status = StatusResolved
	p.ResolvedBy = by
	p.ResolvedAt = &resolvedAt
	p.UpdatedAt = at
	return true, nil
}

// Resolve 提交整改照片并标记为已整改
func (p *Problem) Resolve(by string, at time.Time, photos []string, description string) error {
	if p.Status == StatusResolved {
		return ErrAlreadyFixed
	}
	if len(photos) == 0 {
		return ErrNoFixPhotos
	}

	p.ResolvedImagePaths = append(StringList(nil), photos...)
	p.FixDescription = description
	_, err := p.ApplyStatus(StatusResolved, by, at)
	return err
}

// StringList 以JSON文本存储的字符串列表
type StringList []string

// Scan 实现sql.Scanner接口
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("无法解析StringList: %T", value)
	}
	if len(bytes) == 0 {
		*l = nil
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Value 实现driver.Valuer接口
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
