// Package permission 角色权限与页面权限表
package permission

import (
	"sort"
	"sync"

	"eco-report/internal/models"
)

// Permission 权限标识
type Permission string

// 管理员权限
const (
	AdminViewAll         Permission = "admin:view_all"
	AdminUploadProblem   Permission = "admin:upload_problem"
	AdminManageProblem   Permission = "admin:manage_problem"
	AdminSelectCommunity Permission = "admin:select_community"
	AdminMonitor         Permission = "admin:monitor"
)

// 普通用户权限
const (
	UserViewOwn           Permission = "user:view_own"
	UserUploadFix         Permission = "user:upload_fix"
	UserViewProblemList   Permission = "user:view_problem_list"
	UserViewProblemDetail Permission = "user:view_problem_detail"
)

// 页面标识
const (
	PageIndex           = "/pages/index/index"
	PageLogin           = "/pages/login/login"
	PageAdminHome       = "/pages/admin/admin"
	PageCommunitySelect = "/pages/admin/community-select/community-select"
	PageProblemUpload   = "/pages/admin/problem-upload/problem-upload"
	PageProblemMonitor  = "/pages/admin/problem-monitor/problem-monitor"
	PageUserHome        = "/pages/user/user"
	PageProblemList     = "/pages/user/problem-list/problem-list"
	PageProblemDetail   = "/pages/user/problem-detail/problem-detail"
	PageUploadFix       = "/pages/user/upload-fix/upload-fix"
)

// Table 不可变的权限表
type Table struct {
	roles map[models.Role][]Permission
	pages map[string][]Permission
}

// NewTable 根据给定映射创建权限表, 输入在内部复制
func NewTable(roles map[models.Role][]Permission, pages map[string][]Permission) *Table {
	t := &Table{
		roles: make(map[models.Role][]Permission, len(roles)),
		pages: make(map[string][]Permission, len(pages)),
	}
	for role, perms := range roles {
		t.roles[role] = clone(perms)
	}
	for page, perms := range pages {
		t.pages[page] = clone(perms)
	}
	return t
}

var (
	defaultTable *Table
	defaultOnce  sync.Once
)

// Default 返回内置权限表
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = NewTable(
			map[models.Role][]Permission{
				models.RoleAdmin: {
					AdminViewAll,
					AdminUploadProblem,
					AdminManageProblem,
					AdminSelectCommunity,
					AdminMonitor,
				},
				models.RoleUser: {
					UserViewOwn,
					UserUploadFix,
					UserViewProblemList,
					UserViewProblemDetail,
				},
			},
			map[string][]Permission{
				PageAdminHome:       {AdminViewAll},
				PageCommunitySelect: {AdminSelectCommunity},
				PageProblemUpload:   {AdminUploadProblem},
				PageProblemMonitor:  {AdminMonitor},
				PageUserHome:        {UserViewOwn},
				PageProblemList:     {UserViewProblemList},
				PageProblemDetail:   {UserViewProblemDetail},
				PageUploadFix:       {UserUploadFix},
				PageIndex:           {},
				PageLogin:           {},
			},
		)
	})
	return defaultTable
}

// RolePermissions 角色拥有的权限, 未知角色返回空
func (t *Table) RolePermissions(role models.Role) []Permission {
	return clone(t.roles[role])
}

// PagePermissions 页面所需的权限, 空表示任意已登录用户可访问
func (t *Table) PagePermissions(page string) []Permission {
	return clone(t.pages[page])
}

// Has 判断角色是否拥有某个权限
func (t *Table) Has(role models.Role, p Permission) bool {
	for _, granted := range t.roles[role] {
		if granted == p {
			return true
		}
	}
	return false
}

// HasAny 角色拥有其中任意一个权限
func (t *Table) HasAny(role models.Role, ps ...Permission) bool {
	for _, p := range ps {
		if t.Has(role, p) {
			return true
		}
	}
	return false
}

// Permissions 所有已知权限, 按字典序
func (t *Table) Permissions() []Permission {
	seen := make(map[Permission]struct{})
	for _, perms := range t.roles {
		for _, p := range perms {
			seen[p] = struct{}{}
		}
	}
	out := make([]Permission, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Pages 所有登记的页面, 按字典序
func (t *Table) Pages() []string {
	out := make([]string, 0, len(t.pages))
	for page := range t.pages {
		out = append(out, page)
	}
	sort.Strings(out)
	return out
}

// Roles 所有登记的角色
func (t *Table) Roles() []models.Role {
	out := make([]models.Role, 0, len(t.roles))
	for role := range t.roles {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func clone(perms []Permission) []Permission {
	if perms == nil {
		return nil
	}
	return append([]Permission{}, perms...)
}
