// Package seed 内置的初始数据
package seed

import (
	"fmt"
	"time"

	"eco-report/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 常用的种子编号
const (
	AdminUserID       = "90be1722bde24ca0a4d7082ef8e84b2b"
	ResidentUserID    = "0871d2edb97b4c05acf37fe564a4d568"
	OtherUserID       = "b6d934358f3f4f9690db820162a10a4b"
	SunshineCommunity = "b7a6a549737044838361693fd65013db"
	WutongCommunity   = "53466a24e08448128f3e87078784bc9c"
	DefaultCommunity  = SunshineCommunity
)

var cst = time.FixedZone("CST", 8*3600)

func at(clock string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", clock, cst)
	if err != nil {
		panic(err)
	}
	return t
}

// Users 种子用户, 第一个为管理员
func Users() []models.User {
	created := at("2025-09-29 17:40:00")
	return []models.User{
		{
			UserID:      AdminUserID,
			Phone:       "15294945765",
			Nickname:    "费鹏",
			Role:        models.RoleAdmin,
			CommunityID: SunshineCommunity,
			OpenID:      "wx_12b3aeed4c694fc7",
			CreatedAt:   created,
			UpdatedAt:   created,
		},
		{
			UserID:      ResidentUserID,
			Phone:       "13142947612",
			Nickname:    "施玉兰",
			Role:        models.RoleUser,
			CommunityID: SunshineCommunity,
			CreatedAt:   created,
			UpdatedAt:   created,
		},
		{
			UserID:      OtherUserID,
			Phone:       "15922968956",
			Nickname:    "李畅",
			Role:        models.RoleUser,
			CommunityID: WutongCommunity,
			CreatedAt:   created,
			UpdatedAt:   created,
		},
	}
}

// Communities 种子社区
func Communities() []models.Community {
	created := at("2025-09-29 17:30:00")
	list := []models.Community{
		{CommunityID: SunshineCommunity, CommunityText: "阳光小区"},
		{CommunityID: "01aecc93992940f888a86926932f8b06", CommunityText: "星辰公寓"},
		{CommunityID: "095aa7baa90a4d489d5da271e5fb7bc7", CommunityText: "金色港湾"},
		{CommunityID: "19524b1f05864625bbad347adb9f2eef", CommunityText: "幸福家园"},
		{CommunityID: WutongCommunity, CommunityText: "梧桐苑"},
	}
	// 创建时间依次递增, 按创建时间排序即为此顺序
	for i := range list {
		list[i].CreatedAt = created.Add(time.Duration(i) * time.Second)
		list[i].UpdatedAt = list[i].CreatedAt
	}
	return list
}

// ProblemTypes 种子问题类型
func ProblemTypes() []models.ProblemType {
	created := at("2025-09-29 17:30:00")
	list := []models.ProblemType{
		{TypeID: "eba803f7de074eca8da3ee01d61b1850", TypeText: "环境卫生"},
		{TypeID: "de2118708c5e44409124014f86fb6d3a", TypeText: "公共设施"},
		{TypeID: "8262ae3896854e118853fc184d3f7e17", TypeText: "消防安全"},
		{TypeID: "777308d8be184f05be939b1823157646", TypeText: "违章搭建"},
		{TypeID: "19927d6f3436440cb55ad34c53705ddd", TypeText: "绿化养护"},
		{TypeID: "27049215c12c4d7592eedfc4d0d3835c", TypeText: "交通秩序"},
		{TypeID: "272930f90dd14988a9add0a80a03e695", TypeText: "噪音扰民"},
		{TypeID: "73b88f3dfca24f9db9d31a93cf61c204", TypeText: "其他问题"},
	}
	// 创建时间依次递增, 按创建时间排序即为此顺序
	for i := range list {
		list[i].CreatedAt = created.Add(time.Duration(i) * time.Second)
		list[i].UpdatedAt = list[i].CreatedAt
	}
	return list
}

// Problems 种子问题记录
func Problems() []models.Problem {
	resolvedAt := at("2025-09-29 17:50:15")
	list := []models.Problem{
		{
			ProblemID:   "25bdba8b635e42da9f3cd902af169b9b",
			UserID:      ResidentUserID,
			CommunityID: SunshineCommunity,
			TypeID:      "777308d8be184f05be939b1823157646",
			Title:       "电梯故障",
			Location:    "中心花园",
			ImagePaths:  models.StringList{"uploads/b0da2a3e406c.jpg"},
			Status:      models.StatusUnresolved,
			CreatedAt:   at("2025-09-29 17:49:29"),
		},
		{
			ProblemID:   "4b1f8ebdc5c84a9f9ec505db06bdff87",
			UserID:      ResidentUserID,
			CommunityID: SunshineCommunity,
			TypeID:      "8262ae3896854e118853fc184d3f7e17",
			Title:       "电动车违规充电",
			Location:    "物业办公室旁",
			ImagePaths:  models.StringList{"uploads/6fafbc5c02eb.jpg"},
			Status:      models.StatusUnresolved,
			CreatedAt:   at("2025-09-29 17:47:26"),
		},
		{
			ProblemID:   "5d5f69609cb34ac982c13862ed366afe",
			UserID:      ResidentUserID,
			CommunityID: SunshineCommunity,
			TypeID:      "777308d8be184f05be939b1823157646",
			Title:       "路灯不亮",
			Location:    "1号楼1单元",
			ImagePaths:  models.StringList{"uploads/a861b2cb6ace.jpg"},
			Status:      models.StatusUnresolved,
			CreatedAt:   at("2025-09-29 17:48:10"),
		},
		{
			ProblemID:          "cf649bf6240a463b99945157a5e20fe4",
			UserID:             AdminUserID,
			CommunityID:        SunshineCommunity,
			TypeID:             "de2118708c5e44409124014f86fb6d3a",
			Title:              "电动车违规充电",
			Location:           "2号楼B座",
			ImagePaths:         models.StringList{"uploads/c7dcb22f940b.jpg"},
			ResolvedImagePaths: models.StringList{"uploads/2bf613b3dfe8.jpg"},
			Status:             models.StatusResolved,
			ResolvedBy:         "3389cfb1303d41dda1fadb632b9977e1",
			ResolvedAt:         &resolvedAt,
			CreatedAt:          at("2025-09-29 17:48:20"),
		},
		{
			ProblemID:   "2b495a7e741e41b0baa50aa0d8e61c3f",
			UserID:      "b33867aad7ec490ea323bc66011ebdcd",
			CommunityID: "b5ed6c2b4e1d42638c4a57084a12f240",
			TypeID:      "8262ae3896854e118853fc184d3f7e17",
			Title:       "积水严重",
			Location:    "垃圾站周边",
			ImagePaths:  models.StringList{"uploads/622c14dd4896.jpg"},
			Status:      models.StatusUnresolved,
			CreatedAt:   at("2025-09-29 17:49:59"),
		},
	}
	for i := range list {
		list[i].UpdatedAt = list[i].CreatedAt
		if list[i].ResolvedAt != nil {
			list[i].UpdatedAt = *list[i].ResolvedAt
		}
	}
	return list
}

// Apply 把种子数据写入数据库, 已存在的记录保持不变
func Apply(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// 每次插入都需要新的语句, 否则上一次的 Statement 会被复用
		ignore := func() *gorm.DB {
			return tx.Clauses(clause.OnConflict{DoNothing: true}).Session(&gorm.Session{})
		}

		users := Users()
		if err := ignore().Create(&users).Error; err != nil {
			return fmt.Errorf("写入种子用户失败: %w", err)
		}
		communities := Communities()
		if err := ignore().Create(&communities).Error; err != nil {
			return fmt.Errorf("写入种子社区失败: %w", err)
		}
		types := ProblemTypes()
		if err := ignore().Create(&types).Error; err != nil {
			return fmt.Errorf("写入种子问题类型失败: %w", err)
		}
		problems := Problems()
		if err := ignore().Create(&problems).Error; err != nil {
			return fmt.Errorf("写入种子问题失败: %w", err)
		}
		return nil
	})
}
