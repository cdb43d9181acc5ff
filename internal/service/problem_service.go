package service

import (
	"errors"
	"fmt"
	"time"

	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/permission"
	"eco-report/internal/repository"

	"gorm.io/gorm"
)

// ProblemService 问题上报服务
type ProblemService struct {
	problemRepo   *repository.ProblemRepository
	communityRepo *repository.CommunityRepository
	typeRepo      *repository.ProblemTypeRepository
	now           func() time.Time
}

// NewProblemService 创建问题服务
func NewProblemService(
	problemRepo *repository.ProblemRepository,
	communityRepo *repository.CommunityRepository,
	typeRepo *repository.ProblemTypeRepository,
) *ProblemService {
	return &ProblemService{
		problemRepo:   problemRepo,
		communityRepo: communityRepo,
		typeRepo:      typeRepo,
		now:           time.Now,
	}
}

// PageResult 分页结果
type PageResult struct {
	Items      []models.Problem
	Pagination dto.Pagination
}

// List 问题列表, 普通用户固定为自己的社区
func (s *ProblemService) List(caller *models.User, q dto.ProblemQuery) (*PageResult, error) {
	q.CommunityID = permission.ScopeCommunity(caller, q.CommunityID)
	page, pageSize := dto.NormalizePage(q.Page, q.PageSize)

	items, total, err := s.problemRepo.List(q, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("查询问题失败: %w", err)
	}
	if items == nil {
		items = []models.Problem{}
	}
	return &PageResult{Items: items, Pagination: dto.NewPagination(page, pageSize, total)}, nil
}

// Get 问题详情
func (s *ProblemService) Get(caller *models.User, id string) (*models.Problem, error) {
	p, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !permission.CanViewCommunity(caller, p.CommunityID) {
		return nil, newError(ErrForbidden, dto.MsgProblemForbidden)
	}
	return p, nil
}

func (s *ProblemService) load(id string) (*models.Problem, error) {
	p, err := s.problemRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrNotFound, dto.MsgProblemNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("查询问题失败: %w", err)
	}
	return p, nil
}

// Create 上报问题
func (s *ProblemService) Create(caller *models.User, req *dto.CreateProblemRequest) (*models.Problem, error) {
	if msg := req.Check(); msg != "" {
		return nil, newError(ErrBadRequest, msg)
	}
	if !permission.CanViewCommunity(caller, req.CommunityID) {
		return nil, newError(ErrForbidden, dto.MsgForbidden)
	}
	if _, err := s.communityRepo.GetByID(req.CommunityID); err != nil {
		return nil, missing(err, dto.MsgCommunityNotFound)
	}
	if _, err := s.typeRepo.GetByID(req.TypeID); err != nil {
		return nil, missing(err, dto.MsgTypeNotFound)
	}

	now := s.now()
	p := &models.Problem{
		ProblemID:   models.NewID(),
		UserID:      caller.UserID,
		CommunityID: req.CommunityID,
		TypeID:      req.TypeID,
		Severity:    req.Severity,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ImagePaths:  append(models.StringList(nil), req.ImagePaths...),
		Status:      models.StatusUnresolved,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.problemRepo.Create(p); err != nil {
		return nil, fmt.Errorf("创建问题失败: %w", err)
	}
	return p, nil
}

// missing 关联记录不存在时返回参数错误
func missing(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(ErrBadRequest, message)
	}
	return fmt.Errorf("查询关联记录失败: %w", err)
}

// UpdateStatus 修改问题状态, 重复设置为已整改时不写库
func (s *ProblemService) UpdateStatus(caller *models.User, id string, status models.ProblemStatus) (*models.Problem, error) {
	p, err := s.load(id)
	if err != nil {
		return nil, err
	}

	changed, err := p.ApplyStatus(status, caller.UserID, s.now())
	if err != nil {
		return nil, transitionError(err)
	}
	if changed {
		if err := s.problemRepo.Update(p); err != nil {
			return nil, fmt.Errorf("更新问题状态失败: %w", err)
		}
	}
	return p, nil
}

// Fix 提交整改照片
func (s *ProblemService) Fix(caller *models.User, id string, req *dto.FixProblemRequest) (*models.Problem, error) {
	if msg := req.Check(); msg != "" {
		return nil, newError(ErrBadRequest, msg)
	}

	p, err := s.Get(caller, id)
	if err != nil {
		return nil, err
	}
	if err := p.Resolve(caller.UserID, s.now(), req.ResolvedImagePaths, req.FixDescription); err != nil {
		return nil, transitionError(err)
	}
	if err := s.problemRepo.Update(p); err != nil {
		return nil, fmt.Errorf("提交整改失败: %w", err)
	}
	return p, nil
}

// Stats 问题统计, 普通用户固定为自己的社区
func (s *ProblemService) Stats(caller *models.User, communityID string) (*dto.ProblemStats, error) {
	q := dto.ProblemQuery{CommunityID: permission.ScopeCommunity(caller, communityID)}
	stats, err := s.problemRepo.Stats(q, dto.StartOfDay(s.now()))
	if err != nil {
		return nil, fmt.Errorf("统计问题失败: %w", err)
	}
	return &stats, nil
}

// Export 导出满足条件的全部问题
func (s *ProblemService) Export(caller *models.User, q dto.ProblemQuery) ([]models.Problem, error) {
	q.CommunityID = permission.ScopeCommunity(caller, q.CommunityID)
	items, _, err := s.problemRepo.List(q, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("查询问题失败: %w", err)
	}
	return items, nil
}
