package mock

import (
	"context"
	"errors"
	"sort"

	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/permission"
)

// ProblemService 问题上报接口
type ProblemService struct {
	b *Backend
}

// List 问题列表, 按创建时间倒序; 普通用户固定为自己的社区
func (s *ProblemService) List(ctx context.Context, q dto.ProblemQuery) (dto.PageResponse[models.Problem], error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.PageResponse[models.Problem]{}, err
	}
	caller := s.b.caller()
	if caller == nil {
		return dto.PageFail[models.Problem](dto.CodeUnauthorized, dto.MsgNotLoggedIn), nil
	}
	q.CommunityID = permission.ScopeCommunity(caller, q.CommunityID)
	page, pageSize := dto.NormalizePage(q.Page, q.PageSize)

	s.b.mu.RLock()
	matched := make([]models.Problem, 0, len(s.b.problems))
	for i := range s.b.problems {
		if q.Matches(&s.b.problems[i]) {
			matched = append(matched, cloneProblem(s.b.problems[i]))
		}
	}
	s.b.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ProblemID > matched[j].ProblemID
	})

	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	return dto.PageSuccess(matched[start:end], dto.NewPagination(page, pageSize, total)), nil
}

// Get 问题详情
func (s *ProblemService) Get(ctx context.Context, id string) (dto.Response[models.Problem], error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Response[models.Problem]{}, err
	}
	caller := s.b.caller()
	if caller == nil {
		return fail[models.Problem](dto.CodeUnauthorized, dto.MsgNotLoggedIn)
	}

	s.b.mu.RLock()
	defer s.b.mu.RUnlock()

	i := s.b.problemIndex(id)
	if i < 0 {
		return fail[models.Problem](dto.CodeNotFound, dto.MsgProblemNotFound)
	}
	if !permission.CanViewCommunity(caller, s.b.problems[i].CommunityID) {
		return fail[models.Problem](dto.CodeForbidden, dto.MsgProblemForbidden)
	}
	return dto.Success(cloneProblem(s.b.problems[i])), nil
}

// Create 上报问题
func (s *ProblemService) Create(ctx context.Context, req dto.CreateProblemRequest) (dto.Response[models.Problem], error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Response[models.Problem]{}, err
	}
	caller := s.b.caller()
	if caller == nil {
		return fail[models.Problem](dto.CodeUnauthorized, dto.MsgNotLoggedIn)
	}
	if msg := req.Check(); msg != "" {
		return fail[models.Problem](dto.CodeBadRequest, msg)
	}
	if !permission.CanViewCommunity(caller, req.CommunityID) {
		return fail[models.Problem](dto.CodeForbidden, dto.MsgForbidden)
	}

	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	if s.b.communityIndex(req.CommunityID) < 0 {
		return fail[models.Problem](dto.CodeBadRequest, dto.MsgCommunityNotFound)
	}
	if s.b.typeIndex(req.TypeID) < 0 {
		return fail[models.Problem](dto.CodeBadRequest, dto.MsgTypeNotFound)
	}

	now := s.b.now()
	p := models.Problem{
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
	s.b.problems = append(s.b.problems, p)
	s.b.log("problem_create").WithField("problem_id", p.ProblemID).Debug("模拟创建问题")

	return dto.SuccessWithMessage(dto.MsgCreated, cloneProblem(p)), nil
}

// UpdateStatus 修改问题状态, 重复设置为已整改不改变记录
func (s *ProblemService) UpdateStatus(ctx context.Context, id string, status models.ProblemStatus) (dto.Response[models.Problem], error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Response[models.Problem]{}, err
	}
	if resp, denied := s.b.guard(permission.StatusUpdate); denied {
		return fail[models.Problem](resp.Code, resp.Message)
	}
	caller := s.b.caller()

	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	i := s.b.problemIndex(id)
	if i < 0 {
		return fail[models.Problem](dto.CodeNotFound, dto.MsgProblemNotFound)
	}
	if _, err := s.b.problems[i].ApplyStatus(status, caller.UserID, s.b.now()); err != nil {
		return fail[models.Problem](statusCode(err))
	}
	return dto.SuccessWithMessage(dto.MsgUpdated, cloneProblem(s.b.problems[i])), nil
}

// Fix 提交整改照片
func (s *ProblemService) Fix(ctx context.Context, id string, req dto.FixProblemRequest) (dto.Response[models.Problem], error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Response[models.Problem]{}, err
	}
	if resp, denied := s.b.guard(permission.FixUpload); denied {
		return fail[models.Problem](resp.Code, resp.Message)
	}
	caller := s.b.caller()
	if msg := req.Check(); msg != "" {
		return fail[models.Problem](dto.CodeBadRequest, msg)
	}

	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	i := s.b.problemIndex(id)
	if i < 0 {
		return fail[models.Problem](dto.CodeNotFound, dto.MsgProblemNotFound)
	}
	p := &s.b.problems[i]
	if !permission.CanViewCommunity(caller, p.CommunityID) {
		return fail[models.Problem](dto.CodeForbidden, dto.MsgProblemForbidden)
	}
	if err := p.Resolve(caller.UserID, s.b.now(), req.ResolvedImagePaths, req.FixDescription); err != nil {
		return fail[models.Problem](statusCode(err))
	}
	return dto.SuccessWithMessage(dto.MsgUpdated, cloneProblem(*p)), nil
}

// Stats 问题统计, 普通用户固定为自己的社区
func (s *ProblemService) Stats(ctx context.Context, communityID string) (dto.Response[dto.ProblemStats], error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Response[dto.ProblemStats]{}, err
	}
	caller := s.b.caller()
	if caller == nil {
		return fail[dto.ProblemStats](dto.CodeUnauthorized, dto.MsgNotLoggedIn)
	}
	q := dto.ProblemQuery{CommunityID: permission.ScopeCommunity(caller, communityID)}
	today := dto.StartOfDay(s.b.now())

	s.b.mu.RLock()
	defer s.b.mu.RUnlock()

	var stats dto.ProblemStats
	for i := range s.b.problems {
		p := &s.b.problems[i]
		if !q.Matches(p) {
			continue
		}
		stats.Total++
		if p.Status == models.StatusResolved {
			stats.Resolved++
		} else {
			stats.Unresolved++
		}
		if !p.CreatedAt.Before(today) {
			stats.TodayTotal++
		}
		if p.ResolvedAt != nil && !p.ResolvedAt.Before(today) {
			stats.TodayResolved++
		}
	}
	stats.ComputeFixRate()

	return dto.Success(stats), nil
}

func (b *Backend) problemIndex(id string) int {
	for i := range b.problems {
		if b.problems[i].ProblemID == id {
			return i
		}
	}
	return -1
}

// statusCode 状态流转错误对应的响应码
func statusCode(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInvalidStatus):
		return dto.CodeBadRequest, dto.MsgStatusInvalid
	case errors.Is(err, models.ErrStatusRevert):
		return dto.CodeConflict, dto.MsgStatusRevert
	case errors.Is(err, models.ErrAlreadyFixed):
		return dto.CodeConflict, dto.MsgAlreadyFixed
	case errors.Is(err, models.ErrNoFixPhotos):
		return dto.CodeBadRequest, dto.MsgPhotoRequired
	default:
		return dto.CodeInternal, err.Error()
	}
}
