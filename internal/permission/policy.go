package permission

import "eco-report/internal/models"

// 接口所需权限, 满足任意一个即可
var (
	CatalogManage = []Permission{AdminViewAll}
	StatusUpdate  = []Permission{AdminManageProblem}
	FixUpload     = []Permission{UserUploadFix, AdminManageProblem}
	Export        = []Permission{AdminMonitor}
)

// Allowed 用户是否满足任意一个权限
func (t *Table) Allowed(u *models.User, ps []Permission) bool {
	if u == nil {
		return false
	}
	return t.HasAny(u.Role, ps...)
}

// ScopeCommunity 普通用户只能查询自己的社区, 管理员按请求的社区查询
func ScopeCommunity(u *models.User, requested string) string {
	if u != nil && u.Role == models.RoleUser {
		return u.CommunityID
	}
	return requested
}

// CanViewCommunity 用户能否查看某社区的数据
func CanViewCommunity(u *models.User, communityID string) bool {
	if u == nil {
		return false
	}
	if u.Role == models.RoleAdmin {
		return true
	}
	return u.CommunityID != "" && u.CommunityID == communityID
}
