package service

import (
	"errors"
	"fmt"
	"strings"

	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/repository"

	"gorm.io/gorm"
)

// CommunityService 社区与问题类型服务
type CommunityService struct {
	communityRepo *repository.CommunityRepository
	typeRepo      *repository.ProblemTypeRepository
}

// NewCommunityService 创建社区服务
func NewCommunityService(communityRepo *repository.CommunityRepository, typeRepo *repository.ProblemTypeRepository) *CommunityService {
	return &CommunityService{
		communityRepo: communityRepo,
		typeRepo:      typeRepo,
	}
}

// ListCommunities 社区列表
func (s *CommunityService) ListCommunities() ([]models.Community, error) {
	list, err := s.communityRepo.List()
	if err != nil {
		return nil, fmt.Errorf("查询社区失败: %w", err)
	}
	if list == nil {
		list = []models.Community{}
	}
	return list, nil
}

// GetCommunity 社区详情
func (s *CommunityService) GetCommunity(id string) (*models.Community, error) {
	c, err := s.communityRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrNotFound, dto.MsgCommunityNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("查询社区失败: %w", err)
	}
	return c, nil
}

// CreateCommunity 创建社区, 名称不能重复
func (s *CommunityService) CreateCommunity(req *dto.CreateCommunityRequest) (*models.Community, error) {
	text := strings.TrimSpace(req.CommunityText)
	if text == "" {
		return nil, newError(ErrBadRequest, dto.MsgCommunityRequired)
	}
	if err := s.checkUniqueText(text, ""); err != nil {
		return nil, err
	}

	c := &models.Community{
		CommunityID:   models.NewID(),
		CommunityText: text,
		Address:       req.Address,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	}
	if err := s.communityRepo.Create(c); err != nil {
		return nil, fmt.Errorf("创建社区失败: %w", err)
	}
	return c, nil
}

// UpdateCommunity 修改社区
func (s *CommunityService) UpdateCommunity(id string, req *dto.UpdateCommunityRequest) (*models.Community, error) {
	text := strings.TrimSpace(req.CommunityText)
	if text == "" {
		return nil, newError(ErrBadRequest, dto.MsgCommunityRequired)
	}

	c, err := s.GetCommunity(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkUniqueText(text, id); err != nil {
		return nil, err
	}

	c.CommunityText = text
	if req.Address != nil {
		c.Address = *req.Address
	}
	if err := s.communityRepo.Update(c); err != nil {
		return nil, fmt.Errorf("更新社区失败: %w", err)
	}
	return c, nil
}

func (s *CommunityService) checkUniqueText(text, exceptID string) error {
	exists, err := s.communityRepo.ExistsByText(text, exceptID)
	if err != nil {
		return fmt.Errorf("检查社区名称失败: %w", err)
	}
	if exists {
		return newError(ErrConflict, dto.MsgCommunityExists)
	}
	return nil
}

// DeleteCommunity 删除社区
func (s *CommunityService) DeleteCommunity(id string) error {
	found, err := s.communityRepo.Delete(id)
	if err != nil {
		return fmt.Errorf("删除社区失败: %w", err)
	}
	if !found {
		return newError(ErrNotFound, dto.MsgCommunityNotFound)
	}
	return nil
}

// ListTypes 问题类型列表
func (s *CommunityService) ListTypes() ([]models.ProblemType, error) {
	list, err := s.typeRepo.List()
	if err != nil {
		return nil, fmt.Errorf("查询问题类型失败: %w", err)
	}
	if list == nil {
		list = []models.ProblemType{}
	}
	return list, nil
}

// CreateType 创建问题类型
func (s *CommunityService) CreateType(req *dto.CreateProblemTypeRequest) (*models.ProblemType, error) {
	text := strings.TrimSpace(req.TypeText)
	if text == "" {
		return nil, newError(ErrBadRequest, dto.MsgTypeRequired)
	}

	exists, err := s.typeRepo.ExistsByText(text)
	if err != nil {
		return nil, fmt.Errorf("检查问题类型失败: %w", err)
	}
	if exists {
		return nil, newError(ErrConflict, dto.MsgTypeExists)
	}

	pt := &models.ProblemType{TypeID: models.NewID(), TypeText: text}
	if err := s.typeRepo.Create(pt); err != nil {
		return nil, fmt.Errorf("创建问题类型失败: %w", err)
	}
	return pt, nil
}

// DeleteType 删除问题类型
func (s *CommunityService) DeleteType(id string) error {
	found, err := s.typeRepo.Delete(id)
	if err != nil {
		return fmt.Errorf("删除问题类型失败: %w", err)
	}
	if !found {
		return newError(ErrNotFound, dto.MsgTypeNotFound)
	}
	return nil
}
