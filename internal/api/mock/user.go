package mock

import (
	"context"
	"strings"

	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/seed"
)

// DefaultWechatNickname 微信用户默认昵称
const DefaultWechatNickname = dto.DefaultWechatNickname

// UserService 用户相关接口
type UserService struct {
	b *Backend
}

// SendSMS 发送验证码
func (s *UserService) SendSMS(ctx context.Context, phone string) (dto.Ack, error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Ack{}, err
	}
	if !dto.ValidPhone(phone) {
		return fail[struct{}](dto.CodeBadRequest, dto.MsgInvalidPhone)
	}

	s.b.log("send_sms").WithField("phone", phone).Debug("模拟发送验证码")
	return dto.SuccessWithMessage(dto.MsgCodeSent, struct{}{}), nil
}

// LoginByPhone 手机号验证码登录, 未登记的手机号使用第一个种子用户
func (s *UserService) LoginByPhone(ctx context.Context, phone, code string) (dto.Response[dto.LoginResult], error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Response[dto.LoginResult]{}, err
	}
	if !dto.ValidPhone(phone) {
		return fail[dto.LoginResult](dto.CodeBadRequest, dto.MsgInvalidPhone)
	}
	if code != VerifyCode {
		return fail[dto.LoginResult](dto.CodeBadRequest, dto.MsgInvalidCode)
	}

	s.b.mu.RLock()
	defer s.b.mu.RUnlock()

	if len(s.b.users) == 0 {
		return fail[dto.LoginResult](dto.CodeNotFound, dto.MsgUserNotFound)
	}
	user := s.b.users[0]
	for _, u := range s.b.users {
		if u.Phone == phone {
			user = u
			break
		}
	}

	return dto.SuccessWithMessage(dto.MsgLoginSuccess, dto.LoginResult{
		Token: "mock_token_" + models.NewID(),
		User:  user,
	}), nil
}

// LoginByWechat 微信登录, 首次登录创建普通用户
func (s *UserService) LoginByWechat(ctx context.Context, req dto.WechatLoginRequest) (dto.Response[dto.LoginResult], error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Response[dto.LoginResult]{}, err
	}
	if strings.TrimSpace(req.Code) == "" {
		return fail[dto.LoginResult](dto.CodeBadRequest, dto.MsgWechatCodeRequired)
	}

	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	openID := "mock_openid_" + req.Code
	for _, u := range s.b.users {
		if u.OpenID == openID {
			return dto.SuccessWithMessage(dto.MsgLoginSuccess, dto.LoginResult{Token: "mock_token_" + models.NewID(), User: u}), nil
		}
	}

	nickname := req.Nickname
	if nickname == "" {
		nickname = DefaultWechatNickname
	}
	now := s.b.now()
	user := models.User{
		UserID:      models.NewID(),
		Nickname:    nickname,
		Avatar:      req.Avatar,
		Role:        models.RoleUser,
		CommunityID: seed.DefaultCommunity,
		OpenID:      openID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.b.users = append(s.b.users, user)

	return dto.SuccessWithMessage(dto.MsgLoginSuccess, dto.LoginResult{Token: "mock_token_" + models.NewID(), User: user}), nil
}

// Info 当前用户信息
func (s *UserService) Info(ctx context.Context) (dto.Response[models.User], error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Response[models.User]{}, err
	}
	caller := s.b.caller()
	if caller == nil {
		return fail[models.User](dto.CodeUnauthorized, dto.MsgNotLoggedIn)
	}

	s.b.mu.RLock()
	defer s.b.mu.RUnlock()

	i := s.b.userIndex(caller.UserID)
	if i < 0 {
		return fail[models.User](dto.CodeNotFound, dto.MsgUserNotFound)
	}
	return dto.Success(s.b.users[i]), nil
}

// Update 修改当前用户信息
func (s *UserService) Update(ctx context.Context, req dto.UpdateUserRequest) (dto.Response[models.User], error) {
	if err := s.b.wait(ctx); err != nil {
		return dto.Response[models.User]{}, err
	}
	caller := s.b.caller()
	if caller == nil {
		return fail[models.User](dto.CodeUnauthorized, dto.MsgNotLoggedIn)
	}
	if req.Phone != nil && !dto.ValidPhone(*req.Phone) {
		return fail[models.User](dto.CodeBadRequest, dto.MsgInvalidPhone)
	}

	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	i := s.b.userIndex(caller.UserID)
	if i < 0 {
		return fail[models.User](dto.CodeNotFound, dto.MsgUserNotFound)
	}
	req.Apply(&s.b.users[i])
	s.b.users[i].UpdatedAt = s.b.now()

	return dto.SuccessWithMessage(dto.MsgUpdated, s.b.users[i]), nil
}

func (b *Backend) userIndex(id string) int {
	for i := range b.users {
		if b.users[i].UserID == id {
			return i
		}
	}
	return -1
}
