package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eco-report/internal/config"
	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/repository"
	"eco-report/internal/seed"
	"eco-report/internal/utils"
	"eco-report/pkg/redis_limiter"
	"eco-report/pkg/wechat"

	"github.com/go-redis/redis/v8"
	gonanoid "github.com/matoous/go-nanoid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	smsCodePrefix  = "sms:code:"
	smsLimitPrefix = "sms:limit:"
	codeDigits     = "0123456789"
	codeLength     = 6
)

// AuthService 认证服务
type AuthService struct {
	userRepo    *repository.UserRepository
	jwtManager  *utils.JWTManager
	redisClient *redis.Client
	limiter     *redis_limiter.RedisLimiter
	wechat      *wechat.Client
	cfg         *config.Config
	logger      *logrus.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(
	userRepo *repository.UserRepository,
	jwtManager *utils.JWTManager,
	redisClient *redis.Client,
	wechatClient *wechat.Client,
	cfg *config.Config,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtManager:  jwtManager,
		redisClient: redisClient,
		limiter:     redis_limiter.NewRedisLimiter(redisClient, cfg.SMS.SendLimit, smsLimitPrefix, cfg.SMS.GetSendWindow(), logger),
		wechat:      wechatClient,
		cfg:         cfg,
		logger:      logger,
	}
}

// SendSMS 生成验证码, 缓存中只保存哈希
func (s *AuthService) SendSMS(ctx context.Context, phone string) error {
	if !dto.ValidPhone(phone) {
		return newError(ErrBadRequest, dto.MsgInvalidPhone)
	}

	allowed, err := s.limiter.Allow(ctx, phone)
	if err != nil {
		return fmt.Errorf("检查发送频率失败: %w", err)
	}
	if !allowed {
		return newError(ErrTooManyRequests, dto.MsgTooManyRequests)
	}

	code, err := s.newCode()
	if err != nil {
		return err
	}
	hash, err := utils.HashCode(code)
	if err != nil {
		return fmt.Errorf("验证码哈希失败: %w", err)
	}
	if err := s.redisClient.Set(ctx, smsCodePrefix+phone, hash, s.cfg.SMS.GetCodeTTL()).Err(); err != nil {
		return fmt.Errorf("保存验证码失败: %w", err)
	}

	// 不接短信通道, 开发模式下验证码写入日志
	if !s.cfg.Server.ProductionMode {
		s.logger.WithFields(logrus.Fields{"phone": phone, "code": code}).Info("验证码已生成")
	}
	return nil
}

func (s *AuthService) newCode() (string, error) {
	if s.devCode() != "" {
		return s.devCode(), nil
	}
	code, err := gonanoid.Generate(codeDigits, codeLength)
	if err != nil {
		return "", fmt.Errorf("生成验证码失败: %w", err)
	}
	return code, nil
}

// devCode 非生产模式下配置的万能验证码
func (s *AuthService) devCode() string {
	if s.cfg.Server.ProductionMode {
		return ""
	}
	return s.cfg.SMS.DevCode
}

// LoginByPhone 手机号验证码登录, 新手机号自动注册为普通用户
func (s *AuthService) LoginByPhone(ctx context.Context, phone, code string) (*dto.LoginResult, error) {
	if !dto.ValidPhone(phone) {
		return nil, newError(ErrBadRequest, dto.MsgInvalidPhone)
	}
	if err := s.verifyCode(ctx, phone, code); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByPhone(phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &models.User{
			UserID:      models.NewID(),
			Phone:       phone,
			Nickname:    "用户" + phone[len(phone)-4:],
			Role:        models.RoleUser,
			CommunityID: seed.DefaultCommunity,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, fmt.Errorf("创建用户失败: %w", err)
		}
		s.logger.WithField("user_id", user.UserID).Info("手机号注册新用户")
	} else if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	return s.issue(user)
}

func (s *AuthService) verifyCode(ctx context.Context, phone, code string) error {
	if dev := s.devCode(); dev != "" && code == dev {
		return nil
	}

	key := smsCodePrefix + phone
	hash, err := s.redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return newError(ErrBadRequest, dto.MsgInvalidCode)
	}
	if err != nil {
		return fmt.Errorf("读取验证码失败: %w", err)
	}
	if err := utils.CheckCode(code, hash); err != nil {
		return newError(ErrBadRequest, dto.MsgInvalidCode)
	}

	// 验证码只能使用一次
	if err := s.redisClient.Del(ctx, key).Err(); err != nil {
		s.logger.WithError(err).Warn("删除验证码失败")
	}
	return nil
}

// LoginByWechat 微信登录, 首次登录创建普通用户
func (s *AuthService) LoginByWechat(ctx context.Context, req *dto.WechatLoginRequest) (*dto.LoginResult, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, newError(ErrBadRequest, dto.MsgWechatCodeRequired)
	}

	openID, unionID, err := s.exchange(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByOpenID(openID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		nickname := req.Nickname
		if nickname == "" {
			nickname = dto.DefaultWechatNickname
		}
		user = &models.User{
			UserID:      models.NewID(),
			Nickname:    nickname,
			Avatar:      req.Avatar,
			Role:        models.RoleUser,
			CommunityID: seed.DefaultCommunity,
			OpenID:      openID,
			UnionID:     unionID,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, fmt.Errorf("创建用户失败: %w", err)
		}
		s.logger.WithField("user_id", user.UserID).Info("微信注册新用户")
	} else if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	return s.issue(user)
}

// exchange 用登录凭证换取openid, 未配置小程序时仅在开发模式下生成固定openid
func (s *AuthService) exchange(ctx context.Context, code string) (string, string, error) {
	if s.wechat == nil || !s.wechat.Configured() {
		if s.cfg.Server.ProductionMode {
			return "", "", errors.New("未配置微信小程序")
		}
		return "mock_openid_" + code, "", nil
	}

	session, err := s.wechat.Code2Session(ctx, code)
	if errors.Is(err, wechat.ErrInvalidCode) {
		return "", "", newError(ErrBadRequest, dto.MsgWechatLoginFailed)
	}
	if err != nil {
		return "", "", fmt.Errorf("微信登录失败: %w", err)
	}
	return session.OpenID, session.UnionID, nil
}

func (s *AuthService) issue(user *models.User) (*dto.LoginResult, error) {
	token, err := s.jwtManager.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("生成Token失败: %w", err)
	}
	return &dto.LoginResult{Token: token, User: *user}, nil
}

// GetUser 获取用户信息
func (s *AuthService) GetUser(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrNotFound, dto.MsgUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return user, nil
}

// UpdateUser 修改个人信息
func (s *AuthService) UpdateUser(userID string, req *dto.UpdateUserRequest) (*models.User, error) {
	if req.Phone != nil && !dto.ValidPhone(*req.Phone) {
		return nil, newError(ErrBadRequest, dto.MsgInvalidPhone)
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	req.Apply(user)
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("更新用户失败: %w", err)
	}
	return user, nil
}
