package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"eco-report/internal/models"

	"github.com/sirupsen/logrus"
)

// 会话键
const (
	KeyToken             = "token"
	KeyUserInfo          = "userInfo"
	KeySelectedCommunity = "selectedCommunity"
)

// Service 会话服务, 唯一负责读写会话键
// 读取或解码失败一律记录日志并按不存在处理
type Service struct {
	store  Store
	logger *logrus.Logger
}

// NewService 创建会话服务
func NewService(store Store, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{store: store, logger: logger}
}

// Token 当前令牌, 不存在时返回空串
func (s *Service) Token() string {
	v, err := s.store.Get(KeyToken)
	if err != nil {
		s.logReadError(KeyToken, err)
		return ""
	}
	return v
}

// SetToken 保存令牌
func (s *Service) SetToken(token string) error {
	return s.store.Set(KeyToken, token)
}

// User 当前用户, 不存在或无法解析时返回 nil
func (s *Service) User() *models.User {
	var u models.User
	if !s.getJSON(KeyUserInfo, &u) {
		return nil
	}
	return &u
}

// SetUser 保存用户信息
func (s *Service) SetUser(u *models.User) error {
	return s.setJSON(KeyUserInfo, u)
}

// SelectedCommunity 管理员当前选择的社区
func (s *Service) SelectedCommunity() *models.Community {
	var c models.Community
	if !s.getJSON(KeySelectedCommunity, &c) {
		return nil
	}
	return &c
}

// SetSelectedCommunity 保存选择的社区
func (s *Service) SetSelectedCommunity(c *models.Community) error {
	return s.setJSON(KeySelectedCommunity, c)
}

// Save 登录成功后一次写入令牌和用户
func (s *Service) Save(token string, u *models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("序列化用户信息失败: %w", err)
	}
	return s.store.SetAll(map[string]string{
		KeyToken:    token,
		KeyUserInfo: string(raw),
	})
}

// Clear 一次删除令牌、用户和社区选择
func (s *Service) Clear() error {
	if err := s.store.Delete(KeyToken, KeyUserInfo, KeySelectedCommunity); err != nil {
		s.logger.WithError(err).Error("清除会话失败")
		return err
	}
	return nil
}

func (s *Service) getJSON(key string, v interface{}) bool {
	raw, err := s.store.Get(key)
	if err != nil {
		s.logReadError(key, err)
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("会话数据无法解析")
		return false
	}
	return true
}

func (s *Service) setJSON(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("序列化会话数据失败: %w", err)
	}
	return s.store.Set(key, string(raw))
}

func (s *Service) logReadError(key string, err error) {
	if errors.Is(err, ErrNotFound) {
		return
	}
	s.logger.WithError(err).WithField("key", key).Warn("读取会话失败")
}
