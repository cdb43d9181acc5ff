// Package auth 访问控制
package auth

import (
	"eco-report/internal/models"
	"eco-report/internal/permission"
	"eco-report/internal/session"

	"github.com/sirupsen/logrus"
)

// 页面守卫提示
const (
	MsgLoginRequired = "请先登录"
	MsgNoPermission  = "无权限访问此页面"
)

// Manager 访问控制管理器
type Manager struct {
	sess   *session.Service
	table  *permission.Table
	nav    Navigator
	logger *logrus.Logger
}

// NewManager 创建访问控制管理器
func NewManager(sess *session.Service, table *permission.Table, nav Navigator, logger *logrus.Logger) *Manager {
	if table == nil {
		table = permission.Default()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if nav == nil {
		nav = LogNavigator{Logger: logger}
	}
	return &Manager{sess: sess, table: table, nav: nav, logger: logger}
}

// Session 底层会话服务
func (m *Manager) Session() *session.Service {
	return m.sess
}

// Table 权限表
func (m *Manager) Table() *permission.Table {
	return m.table
}

// CurrentUser 当前用户
func (m *Manager) CurrentUser() *models.User {
	return m.sess.User()
}

// IsLoggedIn 令牌和用户信息都存在才算登录
func (m *Manager) IsLoggedIn() bool {
	return m.sess.Token() != "" && m.sess.User() != nil
}

// UserRole 当前角色, 未登录返回空
func (m *Manager) UserRole() models.Role {
	if !m.IsLoggedIn() {
		return ""
	}
	return m.sess.User().Role
}

// HasPermission 是否拥有权限
func (m *Manager) HasPermission(p permission.Permission) bool {
	role := m.UserRole()
	if role == "" {
		return false
	}
	return m.table.Has(role, p)
}

// HasAnyPermission 拥有任意一个权限
func (m *Manager) HasAnyPermission(ps ...permission.Permission) bool {
	role := m.UserRole()
	if role == "" {
		return false
	}
	return m.table.HasAny(role, ps...)
}

// HasAllPermissions 拥有全部权限
func (m *Manager) HasAllPermissions(ps ...permission.Permission) bool {
	role := m.UserRole()
	if role == "" {
		return false
	}
	for _, p := range ps {
		if !m.table.Has(role, p) {
			return false
		}
	}
	return true
}

// CanAccessPage 页面无权限要求时只需登录, 否则满足任意一个权限即可
func (m *Manager) CanAccessPage(page string) bool {
	required := m.table.PagePermissions(page)
	if len(required) == 0 {
		return m.IsLoggedIn()
	}
	return m.HasAnyPermission(required...)
}

// CheckPagePermission 页面入口守卫
func (m *Manager) CheckPagePermission(page string) bool {
	if !m.IsLoggedIn() {
		m.nav.ShowToast(MsgLoginRequired)
		m.nav.RedirectTo(permission.PageLogin)
		return false
	}

	if !m.CanAccessPage(page) {
		m.logger.WithFields(logrus.Fields{
			"page": page,
			"role": m.UserRole(),
		}).Warn("页面访问被拒绝")
		m.nav.ShowToast(MsgNoPermission)
		m.nav.SwitchTab(permission.PageIndex)
		return false
	}

	return true
}

// IsAdmin 是否管理员
func (m *Manager) IsAdmin() bool {
	return m.UserRole() == models.RoleAdmin
}

// IsUser 是否普通用户
func (m *Manager) IsUser() bool {
	return m.UserRole() == models.RoleUser
}

// Logout 退出登录
func (m *Manager) Logout() error {
	if err := m.sess.Clear(); err != nil {
		return err
	}
	m.logger.Info("已退出登录")
	return nil
}

// DefaultPageForRole 登录后的落地页
func (m *Manager) DefaultPageForRole() string {
	switch m.UserRole() {
	case models.RoleAdmin:
		return permission.PageAdminHome
	case models.RoleUser:
		return permission.PageUserHome
	default:
		return permission.PageIndex
	}
}

// Navigator 导航能力
func (m *Manager) Navigator() Navigator {
	return m.nav
}
