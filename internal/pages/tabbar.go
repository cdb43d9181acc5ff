package pages

import (
	"eco-report/internal/models"
	"eco-report/internal/permission"
)

// Tab 底部导航项
type Tab struct {
	Page string `json:"page"`
	Text string `json:"text"`
}

// Tabs 按角色生成底部导航, 管理入口只对管理员显示
func Tabs(role models.Role) []Tab {
	home := Tab{Page: permission.PageIndex, Text: "首页"}
	mine := Tab{Page: permission.PageUserHome, Text: "我的"}
	if role == models.RoleAdmin {
		return []Tab{home, {Page: permission.PageAdminHome, Text: "管理"}, mine}
	}
	return []Tab{home, mine}
}

// SelectedTab 当前页面对应的导航下标, 不在导航中时为 0
func SelectedTab(tabs []Tab, page string) int {
	for i, t := range tabs {
		if t.Page == page {
			return i
		}
	}
	return 0
}
