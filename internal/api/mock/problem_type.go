package mock

import (
	"context"
	"strings"

	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/permission"
)

// ProblemTypeService 问题类型接口
type ProblemTypeService struct {
	b *Backend
}

// List 问题类型列表
func (s *ProblemTypeService) List(ctx context.Context) (dto.Response[[]models.ProblemType], error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Response[[]models.ProblemType]{}, err
	}
	if s.b.caller() == nil {
		return fail[[]models.ProblemType](dto.CodeUnauthorized, dto.MsgNotLoggedIn)
	}

	s.b.mu.RLock()
	defer s.b.mu.RUnlock()
	return dto.Success(append([]models.ProblemType{}, s.b.types...)), nil
}

// Create 创建问题类型
func (s *ProblemTypeService) Create(ctx context.Context, req dto.CreateProblemTypeRequest) (dto.Response[models.ProblemType], error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Response[models.ProblemType]{}, err
	}
	if resp, denied := s.b.guard(permission.CatalogManage); denied {
		return fail[models.ProblemType](resp.Code, resp.Message)
	}
	text := strings.TrimSpace(req.TypeText)
	if text == "" {
		return fail[models.ProblemType](dto.CodeBadRequest, dto.MsgTypeRequired)
	}

	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	for _, pt := range s.b.types {
		if pt.TypeText == text {
			return fail[models.ProblemType](dto.CodeConflict, dto.MsgTypeExists)
		}
	}
	now := s.b.now()
	pt := models.ProblemType{TypeID: models.NewID(), TypeText: text, CreatedAt: now, UpdatedAt: now}
	s.b.types = append(s.b.types, pt)

	return dto.SuccessWithMessage(dto.MsgCreated, pt), nil
}

// Delete 删除问题类型
func (s *ProblemTypeService) Delete(ctx context.Context, id string) (dto.Ack, error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Ack{}, err
	}
	if resp, denied := s.b.guard(permission.CatalogManage); denied {
		return fail[struct{}](resp.Code, resp.Message)
	}

	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	i := s.b.typeIndex(id)
	if i < 0 {
		return fail[struct{}](dto.CodeNotFound, dto.MsgTypeNotFound)
	}
	s.b.types = append(s.b.types[:i], s.b.types[i+1:]...)

	return dto.SuccessWithMessage(dto.MsgDeleted, struct{}{}), nil
}

func (b *Backend) typeIndex(id string) int {
	for i := range b.types {
		if b.types[i].TypeID == id {
			return i
		}
	}
	return -1
}
