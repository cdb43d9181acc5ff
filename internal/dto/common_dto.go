package dto

// 响应码
const (
	CodeSuccess      = 200
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeConflict     = 409
	CodeTooMany      = 429
	CodeInternal     = 500
)

// MsgSuccess 成功消息
const MsgSuccess = "成功"

// Response 统一响应格式
type Response[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// OK 是否成功
func (r Response[T]) OK() bool {
	return r.Code == CodeSuccess
}

// Success 成功响应
func Success[T any](data T) Response[T] {
	return Response[T]{Code: CodeSuccess, Message: MsgSuccess, Data: data}
}

// SuccessWithMessage 成功响应(带消息)
func SuccessWithMessage[T any](message string, data T) Response[T] {
	return Response[T]{Code: CodeSuccess, Message: message, Data: data}
}

// Fail 失败响应
func Fail[T any](code int, message string) Response[T] {
	return Response[T]{Code: code, Message: message}
}

// Ack 无数据的确认响应
type Ack = Response[struct{}]

// Pagination 分页信息
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination 计算分页信息
func NewPagination(page, pageSize int, total int64) Pagination {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: pages}
}

// PageResponse 分页响应
type PageResponse[T any] struct {
	Code       int         `json:"code"`
	Message    string      `json:"message"`
	Data       []T         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// OK 是否成功
func (r PageResponse[T]) OK() bool {
	return r.Code == CodeSuccess
}

// PageSuccess 分页成功响应
func PageSuccess[T any](items []T, p Pagination) PageResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PageResponse[T]{Code: CodeSuccess, Message: MsgSuccess, Data: items, Pagination: &p}
}

// PageFail 分页失败响应
func PageFail[T any](code int, message string) PageResponse[T] {
	return PageResponse[T]{Code: code, Message: message}
}

// 分页默认值
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// NormalizePage 修正分页参数
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
