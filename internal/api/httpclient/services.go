package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"eco-report/internal/api/batch"
	"eco-report/internal/dto"
	"eco-report/internal/models"
)

// UserService 用户接口
type UserService struct{ c *Client }

// SendSMS 发送验证码
func (s *UserService) SendSMS(ctx context.Context, phone string) (dto.Ack, error) {
	return call[dto.Ack](ctx, s.c, http.MethodPost, "/user/send-sms", dto.SendSMSRequest{Phone: phone}, nil)
}

// LoginByPhone 手机号验证码登录
func (s *UserService) LoginByPhone(ctx context.Context, phone, code string) (dto.Response[dto.LoginResult], error) {
	return call[dto.Response[dto.LoginResult]](ctx, s.c, http.MethodPost, "/user/login", dto.PhoneLoginRequest{Phone: phone, Code: code}, nil)
}

// LoginByWechat 微信登录
func (s *UserService) LoginByWechat(ctx context.Context, req dto.WechatLoginRequest) (dto.Response[dto.LoginResult], error) {
	return call[dto.Response[dto.LoginResult]](ctx, s.c, http.MethodPost, "/user/wechat-login", req, nil)
}

// Info 当前用户信息
func (s *UserService) Info(ctx context.Context) (dto.Response[models.User], error) {
	return call[dto.Response[models.User]](ctx, s.c, http.MethodGet, "/user/info", nil, nil)
}

// Update 修改当前用户信息
func (s *UserService) Update(ctx context.Context, req dto.UpdateUserRequest) (dto.Response[models.User], error) {
	return call[dto.Response[models.User]](ctx, s.c, http.MethodPut, "/user/update", req, nil)
}

// CommunityService 社区接口
type CommunityService struct{ c *Client }

// List 社区列表
func (s *CommunityService) List(ctx context.Context) (dto.Response[[]models.Community], error) {
	return call[dto.Response[[]models.Community]](ctx, s.c, http.MethodGet, "/communities", nil, nil)
}

// Get 社区详情
func (s *CommunityService) Get(ctx context.Context, id string) (dto.Response[models.Community], error) {
	return call[dto.Response[models.Community]](ctx, s.c, http.MethodGet, "/communities/"+url.PathEscape(id), nil, nil)
}

// Create 创建社区
func (s *CommunityService) Create(ctx context.Context, req dto.CreateCommunityRequest) (dto.Response[models.Community], error) {
	return call[dto.Response[models.Community]](ctx, s.c, http.MethodPost, "/communities", req, nil)
}

// Update 修改社区
func (s *CommunityService) Update(ctx context.Context, id string, req dto.UpdateCommunityRequest) (dto.Response[models.Community], error) {
	return call[dto.Response[models.Community]](ctx, s.c, http.MethodPut, "/communities/"+url.PathEscape(id), req, nil)
}

// Delete 删除社区
func (s *CommunityService) Delete(ctx context.Context, id string) (dto.Ack, error) {
	return call[dto.Ack](ctx, s.c, http.MethodDelete, "/communities/"+url.PathEscape(id), nil, nil)
}

// ProblemTypeService 问题类型接口
type ProblemTypeService struct{ c *Client }

// List 问题类型列表
func (s *ProblemTypeService) List(ctx context.Context) (dto.Response[[]models.ProblemType], error) {
	return call[dto.Response[[]models.ProblemType]](ctx, s.c, http.MethodGet, "/problem-types", nil, nil)
}

// Create 创建问题类型
func (s *ProblemTypeService) Create(ctx context.Context, req dto.CreateProblemTypeRequest) (dto.Response[models.ProblemType], error) {
	return call[dto.Response[models.ProblemType]](ctx, s.c, http.MethodPost, "/problem-types", req, nil)
}

// Delete 删除问题类型
func (s *ProblemTypeService) Delete(ctx context.Context, id string) (dto.Ack, error) {
	return call[dto.Ack](ctx, s.c, http.MethodDelete, "/problem-types/"+url.PathEscape(id), nil, nil)
}

// ProblemService 问题接口
type ProblemService struct{ c *Client }

// List 问题列表
func (s *ProblemService) List(ctx context.Context, q dto.ProblemQuery) (dto.PageResponse[models.Problem], error) {
	return call[dto.PageResponse[models.Problem]](ctx, s.c, http.MethodGet, "/problems", nil, problemQuery(q))
}

// Get 问题详情
func (s *ProblemService) Get(ctx context.Context, id string) (dto.Response[models.Problem], error) {
	return call[dto.Response[models.Problem]](ctx, s.c, http.MethodGet, "/problems/"+url.PathEscape(id), nil, nil)
}

// Create 上报问题
func (s *ProblemService) Create(ctx context.Context, req dto.CreateProblemRequest) (dto.Response[models.Problem], error) {
	return call[dto.Response[models.Problem]](ctx, s.c, http.MethodPost, "/problems", req, nil)
}

// UpdateStatus 修改问题状态
func (s *ProblemService) UpdateStatus(ctx context.Context, id string, status models.ProblemStatus) (dto.Response[models.Problem], error) {
	body := dto.UpdateStatusRequest{Status: &status}
	return call[dto.Response[models.Problem]](ctx, s.c, http.MethodPut, "/problems/"+url.PathEscape(id)+"/status", body, nil)
}

// Fix 提交整改
func (s *ProblemService) Fix(ctx context.Context, id string, req dto.FixProblemRequest) (dto.Response[models.Problem], error) {
	return call[dto.Response[models.Problem]](ctx, s.c, http.MethodPut, "/problems/"+url.PathEscape(id)+"/fix", req, nil)
}

// Stats 问题统计
func (s *ProblemService) Stats(ctx context.Context, communityID string) (dto.Response[dto.ProblemStats], error) {
	query := url.Values{}
	if communityID != "" {
		query.Set("community_id", communityID)
	}
	return call[dto.Response[dto.ProblemStats]](ctx, s.c, http.MethodGet, "/problems/stats", nil, query)
}

func problemQuery(q dto.ProblemQuery) url.Values {
	v := url.Values{}
	if q.CommunityID != "" {
		v.Set("community_id", q.CommunityID)
	}
	if q.Status != nil {
		v.Set("status", strconv.Itoa(int(*q.Status)))
	}
	if q.TypeID != "" {
		v.Set("type_id", q.TypeID)
	}
	if q.UserID != "" {
		v.Set("user_id", q.UserID)
	}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}

// UploadService 上传接口
type UploadService struct{ c *Client }

// Upload 以 multipart 上传一张图片, 表单字段为 file
func (s *UploadService) Upload(ctx context.Context, path string) (dto.Response[dto.UploadResult], error) {
	if path == "" {
		return dto.Fail[dto.UploadResult](dto.CodeBadRequest, dto.MsgFilePathRequired), nil
	}

	resp, err := s.c.rc.R().
		SetContext(ctx).
		SetFile("file", path).
		Post("/upload/image")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return dto.Response[dto.UploadResult]{}, ctxErr
		}
		s.c.logger.WithError(err).WithField("path", path).Error("上传失败")
		return dto.Response[dto.UploadResult]{}, fmt.Errorf("%w: 上传 %s: %v", ErrTransport, path, err)
	}
	return decode[dto.Response[dto.UploadResult]](s.c, resp, http.MethodPost, "/upload/image")
}

// UploadMany 并发上传多张图片, 地址顺序与输入一致
func (s *UploadService) UploadMany(ctx context.Context, paths []string) (dto.Response[dto.BatchUploadResult], error) {
	return batch.Upload(ctx, paths, s.c.uploadLimit, s.Upload)
}
