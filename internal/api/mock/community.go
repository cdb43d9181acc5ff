package mock

import (
	"context"
	"strings"

	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/permission"
)

// CommunityService 社区接口
type CommunityService struct {
	b *Backend
}

// List 社区列表
func (s *CommunityService) List(ctx context.Context) (dto.Response[[]models.Community], error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Response[[]models.Community]{}, err
	}
	if s.b.caller() == nil {
		return fail[[]models.Community](dto.CodeUnauthorized, dto.MsgNotLoggedIn)
	}

	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	return dto.Success(append([]models.Community{}, s.b.communities...)), nil
}

// Get 社区详情
func (s *CommunityService) Get(ctx context.Context, id string) (dto.Response[models.Community], error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Response[models.Community]{}, err
	}
	if s.b.caller() == nil {
		return fail[models.Community](dto.CodeUnauthorized, dto.MsgNotLoggedIn)
	}

	s.b.mu.RLock()
	defer s.b.mu.RUnlock()

	i := s.b.communityIndex(id)
	if i < 0 {
		return fail[models.Community](dto.CodeNotFound, dto.MsgCommunityNotFound)
	}
	return dto.Success(s.b.communities[i]), nil
}

// Create 创建社区
func (s *CommunityService) Create(ctx context.Context, req dto.CreateCommunityRequest) (dto.Response[models.Community], error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Response[models.Community]{}, err
	}
	if resp, denied := s.b.guard(permission.CatalogManage); denied {
		return fail[models.Community](resp.Code, resp.Message)
	}
	text := strings.TrimSpace(req.CommunityText)
	if text == "" {
		return fail[models.Community](dto.CodeBadRequest, dto.MsgCommunityRequired)
	}

	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	if s.b.communityByText(text, "") >= 0 {
		return fail[models.Community](dto.CodeConflict, dto.MsgCommunityExists)
	}
	now := s.b.now()
	c := models.Community{
		CommunityID:   models.NewID(),
		CommunityText: text,
		Address:       req.Address,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.b.communities = append(s.b.communities, c)

	return dto.SuccessWithMessage(dto.MsgCreated, c), nil
}

// Update 修改社区名称
func (s *CommunityService) Update(ctx context.Context, id string, req dto.UpdateCommunityRequest) (dto.Response[models.Community], error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Response[models.Community]{}, err
	}
	if resp, denied := s.b.guard(permission.CatalogManage); denied {
		return fail[models.Community](resp.Code, resp.Message)
	}
	text := strings.TrimSpace(req.CommunityText)
	if text == "" {
		return fail[models.Community](dto.CodeBadRequest, dto.MsgCommunityRequired)
	}

	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	i := s.b.communityIndex(id)
	if i < 0 {
		return fail[models.Community](dto.CodeNotFound, dto.MsgCommunityNotFound)
	}
	if s.b.communityByText(text, id) >= 0 {
		return fail[models.Community](dto.CodeConflict, dto.MsgCommunityExists)
	}

	c := &s.b.communities[i]
	c.CommunityText = text
	if req.Address != nil {
		c.Address = *req.Address
	}
	c.UpdatedAt = s.b.now()

	return dto.SuccessWithMessage(dto.MsgUpdated, *c), nil
}

// Delete 删除社区
func (s *CommunityService) Delete(ctx context.Context, id string) (dto.Ack, error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Ack{}, err
	}
	if resp, denied := s.b.guard(permission.CatalogManage); denied {
		return fail[struct{}](resp.Code, resp.Message)
	}

	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	i := s.b.communityIndex(id)
	if i < 0 {
		return fail[struct{}](dto.CodeNotFound, dto.MsgCommunityNotFound)
	}
	s.b.communities = append(s.b.communities[:i], s.b.communities[i+1:]...)

	return dto.SuccessWithMessage(dto.MsgDeleted, struct{}{}), nil
}

func (b *Backend) communityIndex(id string) int {
	for i := range b.communities {
		if b.communities[i].CommunityID == id {
			return i
		}
	}
	return -1
}

// communityByText 按名称查找, 排除 exceptID
func (b *Backend) communityByText(text, exceptID string) int {
	for i := range b.communities {
		if b.communities[i].CommunityText == text && b.communities[i].CommunityID != exceptID {
			return i
		}
	}
	return -1
}

// guard 检查登录和接口权限
func (b *Backend) guard(required []permission.Permission) (dto.Ack, bool) {
	caller := b.caller()
	if caller == nil {
		return dto.Fail[struct{}](dto.CodeUnauthorized, dto.MsgNotLoggedIn), true
	}
	if !b.table.Allowed(caller, required) {
		b.log("guard").WithField("role", caller.Role).Warn("模拟后端拒绝操作")
		return dto.Fail[struct{}](dto.CodeForbidden, dto.MsgForbidden), true
	}
	return dto.Ack{}, false
}
