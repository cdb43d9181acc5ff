package dto

// 通用提示, 模拟后端与服务端共用
const (
	MsgNotLoggedIn        = "请先登录"
	MsgForbidden          = "无权限操作"
	MsgInvalidPhone       = "手机号格式不正确"
	MsgInvalidCode        = "验证码错误"
	MsgCodeSent           = "验证码已发送"
	MsgLoginSuccess       = "登录成功"
	MsgUserNotFound       = "用户不存在"
	MsgCommunityNotFound  = "社区不存在"
	MsgCommunityRequired  = "社区名称不能为空"
	MsgCommunityExists    = "社区名称已存在"
	MsgTypeNotFound       = "问题类型不存在"
	MsgTypeRequired       = "问题类型名称不能为空"
	MsgTypeExists         = "问题类型已存在"
	MsgProblemNotFound    = "问题不存在"
	MsgProblemForbidden   = "无权查看该问题"
	MsgProblemInvalid     = "请完整填写问题信息"
	MsgPhotoRequired      = "请至少上传一张照片"
	MsgPhotoTooMany       = "最多上传9张照片"
	MsgStatusInvalid      = "无效的问题状态"
	MsgStatusRevert       = "问题已整改，不能回退"
	MsgAlreadyFixed       = "问题已整改，不能重复提交"
	MsgFilePathRequired   = "文件路径不能为空"
	MsgDeleted            = "删除成功"
	MsgUpdated            = "更新成功"
	MsgCreated            = "创建成功"
	MsgWechatCodeRequired = "微信登录凭证不能为空"
	MsgTooManyRequests    = "请求过于频繁，请稍后再试"
	MsgWechatLoginFailed  = "微信登录失败，请重试"
	MsgTokenInvalid       = "登录已失效，请重新登录"
	MsgAdminRequired      = "需要管理员权限"
	MsgFileRequired       = "请选择要上传的文件"
	MsgFileTooLarge       = "文件过大"
	MsgFileType           = "仅支持jpg、png、gif、webp格式的图片"
	MsgExportFormat       = "不支持的导出格式"
)

// DefaultWechatNickname 微信用户默认昵称
const DefaultWechatNickname = "微信用户"
