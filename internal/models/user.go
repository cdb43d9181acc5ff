package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Role 用户角色
type Role string

const (
	RoleAdmin Role = "admin" // 管理员
	RoleUser  Role = "user"  // 普通用户
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// UnmarshalJSON 兼容旧版本的数字角色 (1=管理员, 0=普通用户)
func (r *Role) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*r = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*r = Role(v)
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("无效的角色: %s", s)
	}
	switch n {
	case 1:
		*r = RoleAdmin
	case 0:
		*r = RoleUser
	default:
		return fmt.Errorf("无效的角色: %d", n)
	}
	return nil
}

// User 用户模型
type User struct {
	UserID      string    `gorm:"primaryKey;size:32" json:"user_id"`
	Phone       string    `gorm:"size:20;index" json:"phone"`
	Nickname    string    `gorm:"size:64" json:"nickname"`
	Role        Role      `gorm:"size:10;not null;default:user" json:"role"`
	CommunityID string    `gorm:"size:32;index" json:"community_id,omitempty"`
	Avatar      string    `gorm:"size:255" json:"avatar,omitempty"`
	OpenID      string    `gorm:"size:64;index" json:"openid,omitempty"`
	UnionID     string    `gorm:"size:64" json:"unionid,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
