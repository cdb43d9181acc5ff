package dto

import (
	"strings"
	"time"

	"eco-report/internal/models"
)

// 照片数量限制
const (
	MinPhotos = 1
	MaxPhotos = 9
)

// ProblemQuery 问题列表查询条件
type ProblemQuery struct {
	CommunityID string                `form:"community_id" json:"community_id,omitempty"`
	Status      *models.ProblemStatus `form:"status" json:"status,omitempty"`
	TypeID      string                `form:"type_id" json:"type_id,omitempty"`
	UserID      string                `form:"user_id" json:"user_id,omitempty"`
	Keyword     string                `form:"keyword" json:"keyword,omitempty"`
	Page        int                   `form:"page" json:"page,omitempty"`
	PageSize    int                   `form:"page_size" json:"page_size,omitempty"`
}

// StatusFilter 构造状态过滤条件
func StatusFilter(s models.ProblemStatus) *models.ProblemStatus {
	return &s
}

// CreateProblemRequest 上报问题请求
type CreateProblemRequest struct {
	CommunityID string          `json:"community_id" binding:"required,max=32"`
	TypeID      string          `json:"type_id" binding:"required,max=32"`
	Title       string          `json:"title" binding:"required,max=128"`
	Description string          `json:"description"`
	Location    string          `json:"location" binding:"required,max=255"`
	Severity    models.Severity `json:"severity,omitempty" binding:"omitempty,oneof=low medium high"`
	Latitude    float64         `json:"latitude,omitempty"`
	Longitude   float64         `json:"longitude,omitempty"`
	ImagePaths  []string        `json:"image_paths" binding:"required,min=1,max=9"`
}

// UpdateStatusRequest 修改状态请求
type UpdateStatusRequest struct {
	Status *models.ProblemStatus `json:"status" binding:"required"`
}

// FixProblemRequest 提交整改请求
type FixProblemRequest struct {
	ResolvedImagePaths []string `json:"resolved_image_paths" binding:"required,min=1,max=9"`
	FixDescription     string   `json:"fix_description"`
}

// ProblemStats 问题统计
type ProblemStats struct {
	Total         int64   `json:"total"`
	Unresolved    int64   `json:"unresolved"`
	Resolved      int64   `json:"resolved"`
	FixRate       float64 `json:"fix_rate"` // 百分比, 保留一位小数
	TodayTotal    int64   `json:"today_total"`
	TodayResolved int64   `json:"today_resolved"`
}

// ComputeFixRate 计算整改率
func (s *ProblemStats) ComputeFixRate() {
	if s.Total == 0 {
		s.FixRate = 0
		return
	}
	rate := float64(s.Resolved) * 1000 / float64(s.Total)
	s.FixRate = float64(int64(rate+0.5)) / 10
}

// UploadResult 单张上传结果
type UploadResult struct {
	URL string `json:"url"`
}

// BatchUploadResult 批量上传结果, 与输入顺序一致
type BatchUploadResult struct {
	URLs []string `json:"urls"`
}

// Check 规范化并检查上报内容, 返回失败提示, 通过时为空
func (r *CreateProblemRequest) Check() string {
	r.CommunityID = strings.TrimSpace(r.CommunityID)
	r.TypeID = strings.TrimSpace(r.TypeID)
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)

	if r.CommunityID == "" || r.TypeID == "" || r.Title == "" || r.Location == "" {
		return MsgProblemInvalid
	}
	switch r.Severity {
	case "", models.SeverityLow, models.SeverityMedium, models.SeverityHigh:
	default:
		return MsgProblemInvalid
	}
	return checkPhotos(r.ImagePaths)
}

// Check 检查整改照片数量
func (r *FixProblemRequest) Check() string {
	return checkPhotos(r.ResolvedImagePaths)
}

func checkPhotos(photos []string) string {
	if len(photos) < MinPhotos {
		return MsgPhotoRequired
	}
	if len(photos) > MaxPhotos {
		return MsgPhotoTooMany
	}
	return ""
}

// Matches 记录是否满足查询条件(不含分页)
func (q ProblemQuery) Matches(p *models.Problem) bool {
	if q.CommunityID != "" && p.CommunityID != q.CommunityID {
		return false
	}
	if q.Status != nil && p.Status != *q.Status {
		return false
	}
	if q.TypeID != "" && p.TypeID != q.TypeID {
		return false
	}
	if q.UserID != "" && p.UserID != q.UserID {
		return false
	}
	if q.Keyword != "" &&
		!strings.Contains(p.Title, q.Keyword) &&
		!strings.Contains(p.Location, q.Keyword) &&
		!strings.Contains(p.Description, q.Keyword) {
		return false
	}
	return true
}

// StartOfDay 当天零点
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
