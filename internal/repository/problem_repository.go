package repository

import (
	"time"

	"eco-report/internal/dto"
	"eco-report/internal/models"

	"gorm.io/gorm"
)

// ProblemRepository 问题数据访问层
type ProblemRepository struct {
	db *gorm.DB
}

// NewProblemRepository 创建问题Repository
func NewProblemRepository(db *gorm.DB) *ProblemRepository {
	return &ProblemRepository{db: db}
}

// Create 创建问题
func (r *ProblemRepository) Create(problem *models.Problem) error {
	return r.db.Create(problem).Error
}

// GetByID 根据ID获取问题
func (r *ProblemRepository) GetByID(id string) (*models.Problem, error) {
	var problem models.Problem
	err := r.db.Where("problem_id = ?", id).First(&problem).Error
	if err != nil {
		return nil, err
	}
	return &problem, nil
}

// Update 更新问题
func (r *ProblemRepository) Update(problem *models.Problem) error {
	return r.db.Save(problem).Error
}

// List 按条件分页查询, 按创建时间倒序; limit 小于等于0时不分页
func (r *ProblemRepository) List(q dto.ProblemQuery, offset, limit int) ([]models.Problem, int64, error) {
	var problems []models.Problem
	var total int64

	if err := r.db.Model(&models.Problem{}).Scopes(filter(q)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.Scopes(filter(q)).Order("created_at DESC").Order("problem_id DESC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	err := query.Find(&problems).Error
	return problems, total, err
}

// Stats 统计满足条件的问题数量, today 为当天零点
func (r *ProblemRepository) Stats(q dto.ProblemQuery, today time.Time) (dto.ProblemStats, error) {
	var stats dto.ProblemStats
	base := func() *gorm.DB {
		return r.db.Model(&models.Problem{}).Scopes(filter(q))
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := base().Where("status = ?", models.StatusResolved).Count(&stats.Resolved).Error; err != nil {
		return stats, err
	}
	if err := base().Where("created_at >= ?", today).Count(&stats.TodayTotal).Error; err != nil {
		return stats, err
	}
	if err := base().Where("resolved_at >= ?", today).Count(&stats.TodayResolved).Error; err != nil {
		return stats, err
	}
	stats.Unresolved = stats.Total - stats.Resolved
	stats.ComputeFixRate()
	return stats, nil
}

// filter 查询条件, 与 dto.ProblemQuery.Matches 一致
func filter(q dto.ProblemQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.CommunityID != "" {
			db = db.Where("community_id = ?", q.CommunityID)
		}
		if q.Status != nil {
			db = db.Where("status = ?", *q.Status)
		}
		if q.TypeID != "" {
			db = db.Where("type_id = ?", q.TypeID)
		}
		if q.UserID != "" {
			db = db.Where("user_id = ?", q.UserID)
		}
		if q.Keyword != "" {
			like := "%" + q.Keyword + "%"
			db = db.Where("title LIKE ? OR location LIKE ? OR description LIKE ?", like, like, like)
		}
		return db
	}
}
