// Package mock 内存中的模拟后端
package mock

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"eco-report/internal/dto"
	"eco-report/internal/models"
	"eco-report/internal/permission"
	"eco-report/internal/seed"
	"eco-report/internal/session"

	"github.com/sirupsen/logrus"
)

// VerifyCode 模拟后端接受的验证码
const VerifyCode = "123456"

// Option 模拟后端选项
type Option func(*Backend)

// WithDelay 设置模拟网络延迟
func WithDelay(d time.Duration) Option {
	return func(b *Backend) { b.delay = d }
}

// WithClock 设置时钟
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// WithLogger 设置日志
func WithLogger(logger *logrus.Logger) Option {
	return func(b *Backend) { b.logger = logger }
}

// WithTable 设置权限表
func WithTable(table *permission.Table) Option {
	return func(b *Backend) { b.table = table }
}

// WithUploadConcurrency 设置批量上传并发数
func WithUploadConcurrency(n int) Option {
	return func(b *Backend) { b.uploadLimit = n }
}

// Backend 模拟后端, 数据来自种子集合
type Backend struct {
	mu          sync.RWMutex
	users       []models.User
	communities []models.Community
	types       []models.ProblemType
	problems    []models.Problem

	sess        *session.Service
	table       *permission.Table
	logger      *logrus.Logger
	delay       time.Duration
	now         func() time.Time
	uploadLimit int
}

// New 创建模拟后端, 调用者身份从会话读取
func New(sess *session.Service, opts ...Option) *Backend {
	b := &Backend{
		sess:        sess,
		table:       permission.Default(),
		logger:      logrus.StandardLogger(),
		delay:       500 * time.Millisecond,
		now:         time.Now,
		uploadLimit: dto.MaxPhotos,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.Reset()
	return b
}

// Reset 恢复种子数据
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.users = seed.Users()
	b.communities = seed.Communities()
	b.types = seed.ProblemTypes()
	b.problems = seed.Problems()
}

// User 用户接口
func (b *Backend) User() *UserService { return &UserService{b: b} }

// Community 社区接口
func (b *Backend) Community() *CommunityService { return &CommunityService{b: b} }

// ProblemType 问题类型接口
func (b *Backend) ProblemType() *ProblemTypeService { return &ProblemTypeService{b: b} }

// Problem 问题接口
func (b *Backend) Problem() *ProblemService { return &ProblemService{b: b} }

// Upload 上传接口
func (b *Backend) Upload() *UploadService { return &UploadService{b: b} }

// wait 模拟一次网络往返
func (b *Backend) wait(ctx context.Context) error {
	return sleep(ctx, b.delay)
}

// waitJitter 延迟在 0.5 到 1.5 倍之间随机, 并发请求完成顺序不固定
func (b *Backend) waitJitter(ctx context.Context) error {
	if b.delay <= 0 {
		return ctx.Err()
	}
	d := b.delay/2 + time.Duration(rand.Int64N(int64(b.delay)+1))
	return sleep(ctx, d)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// caller 当前调用者, 令牌和用户信息都存在才有效
func (b *Backend) caller() *models.User {
	if b.sess == nil || b.sess.Token() == "" {
		return nil
	}
	return b.sess.User()
}

func (b *Backend) log(op string) *logrus.Entry {
	return b.logger.WithFields(logrus.Fields{"backend": "mock", "op": op})
}

func fail[T any](code int, message string) (dto.Response[T], error) {
	return dto.Fail[T](code, message), nil
}

func cloneProblem(p models.Problem) models.Problem {
	p.ImagePaths = append(models.StringList(nil), p.ImagePaths...)
	if p.ResolvedImagePaths != nil {
		p.ResolvedImagePaths = append(models.StringList(nil), p.ResolvedImagePaths...)
	}
	if p.ResolvedAt != nil {
		at := *p.ResolvedAt
		p.ResolvedAt = &at
	}
	return p
}
