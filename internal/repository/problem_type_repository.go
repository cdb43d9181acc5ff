package repository

import (
	"eco-report/internal/models"

	"gorm.io/gorm"
)

// ProblemTypeRepository 问题类型数据访问层
type ProblemTypeRepository struct {
	db *gorm.DB
}

// NewProblemTypeRepository 创建问题类型Repository
func NewProblemTypeRepository(db *gorm.DB) *ProblemTypeRepository {
	return &ProblemTypeRepository{db: db}
}

// Create 创建问题类型
func (r *ProblemTypeRepository) Create(pt *models.ProblemType) error {
	return r.db.Create(pt).Error
}

// GetByID 根据ID获取问题类型
func (r *ProblemTypeRepository) GetByID(id string) (*models.ProblemType, error) {
	var pt models.ProblemType
	err := r.db.Where("type_id = ?", id).First(&pt).Error
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

// List 获取全部问题类型
func (r *ProblemTypeRepository) List() ([]models.ProblemType, error) {
	var types []models.ProblemType
	err := r.db.Order("created_at ASC").Order("type_id ASC").Find(&types).Error
	return types, err
}

// ExistsByText 名称是否已存在
func (r *ProblemTypeRepository) ExistsByText(text string) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProblemType{}).Where("type_text = ?", text).Count(&count).Error
	return count > 0, err
}

// Delete 删除问题类型, 返回是否存在
func (r *ProblemTypeRepository) Delete(id string) (bool, error) {
	result := r.db.Where("type_id = ?", id).Delete(&models.ProblemType{})
	return result.RowsAffected > 0, result.Error
}
