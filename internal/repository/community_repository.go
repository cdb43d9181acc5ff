package repository

import (
	"eco-report/internal/models"

	"gorm.io/gorm"
)

// CommunityRepository 社区数据访问层
type CommunityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository 创建社区Repository
func NewCommunityRepository(db *gorm.DB) *CommunityRepository {
	return &CommunityRepository{db: db}
}

// Create 创建社区
func (r *CommunityRepository) Create(community *models.Community) error {
	return r.db.Create(community).Error
}

// GetByID 根据ID获取社区
func (r *CommunityRepository) GetByID(id string) (*models.Community, error) {
	var community models.Community
	err := r.db.Where("community_id = ?", id).First(&community).Error
	if err != nil {
		return nil, err
	}
	return &community, nil
}

// List 获取全部社区, 按创建时间排序
func (r *CommunityRepository) List() ([]models.Community, error) {
	var communities []models.Community
	err := r.db.Order("created_at ASC").Order("community_id ASC").Find(&communities).Error
	return communities, err
}

// ExistsByText 名称是否已被其他社区使用
func (r *CommunityRepository) ExistsByText(text, exceptID string) (bool, error) {
	var count int64
	query := r.db.Model(&models.Community{}).Where("community_text = ?", text)
	if exceptID != "" {
		query = query.Where("community_id <> ?", exceptID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Update 更新社区
func (r *CommunityRepository) Update(community *models.Community) error {
	return r.db.Save(community).Error
}

// Delete 删除社区, 返回是否存在
func (r *CommunityRepository) Delete(id string) (bool, error) {
	result := r.db.Where("community_id = ?", id).Delete(&models.Community{})
	return result.RowsAffected > 0, result.Error
}
