package handler

import (
	"fmt"
	"net/http"

	"eco-report/internal/dto"
	"eco-report/internal/middleware"
	"eco-report/internal/service"
	"eco-report/internal/utils"

	"github.com/gin-gonic/gin"
)

// ProblemHandler 问题上报处理器
type ProblemHandler struct {
	problemService *service.ProblemService
	exportService  *service.ExportService
}

// NewProblemHandler 创建问题处理器
func NewProblemHandler(problemService *service.ProblemService, exportService *service.ExportService) *ProblemHandler {
	return &ProblemHandler{
		problemService: problemService,
		exportService:  exportService,
	}
}

var exportContentTypes = map[string]string{
	service.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	service.FormatCSV:  "text/csv; charset=utf-8",
}

// List 问题列表
// @Summary 获取问题列表
// @Tags 问题
// @Produce json
// @Security BearerAuth
// @Param community_id query string false "社区ID"
// @Param status query int false "状态 0未整改 1已整改"
// @Param type_id query string false "问题类型ID"
// @Param keyword query string false "关键字"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} utils.PaginationResponse
// @Router /api/problems [get]
func (h *ProblemHandler) List(c *gin.Context) {
	var q dto.ProblemQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, MsgBadRequest)
		return
	}

	page, err := h.problemService.List(middleware.CurrentUser(c), q)
	if err != nil {
		fail(c, err)
		return
	}

	utils.PaginatedResponse(c, page.Items, page.Pagination)
}

// Get 问题详情
// @Summary 获取问题详情
// @Tags 问题
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题ID"
// @Success 200 {object} utils.Response{data=models.Problem}
// @Router /api/problems/{id} [get]
func (h *ProblemHandler) Get(c *gin.Context) {
	p, err := h.problemService.Get(middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessResponse(c, p)
}

// Create 上报问题
// @Summary 上报问题
// @Tags 问题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProblemRequest true "问题信息"
// @Success 200 {object} utils.Response{data=models.Problem}
// @Router /api/problems [post]
func (h *ProblemHandler) Create(c *gin.Context) {
	var req dto.CreateProblemRequest
	if !bindJSON(c, &req, nil) {
		return
	}

	p, err := h.problemService.Create(middleware.CurrentUser(c), &req)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, dto.MsgCreated, p)
}

// UpdateStatus 修改问题状态
// @Summary 修改问题状态
// @Tags 问题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题ID"
// @Param request body dto.UpdateStatusRequest true "状态"
// @Success 200 {object} utils.Response{data=models.Problem}
// @Router /api/problems/{id}/status [put]
func (h *ProblemHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req, map[string]string{"Status": dto.MsgStatusInvalid}) {
		return
	}

	p, err := h.problemService.UpdateStatus(middleware.CurrentUser(c), c.Param("id"), *req.Status)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, dto.MsgUpdated, p)
}

// Fix 提交整改
// @Summary 提交整改照片
// @Tags 问题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "问题ID"
// @Param request body dto.FixProblemRequest true "整改信息"
// @Success 200 {object} utils.Response{data=models.Problem}
// @Router /api/problems/{id}/fix [put]
func (h *ProblemHandler) Fix(c *gin.Context) {
	var req dto.FixProblemRequest
	if !bindJSON(c, &req, nil) {
		return
	}

	p, err := h.problemService.Fix(middleware.CurrentUser(c), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, dto.MsgUpdated, p)
}

// Stats 问题统计
// @Summary 获取问题统计
// @Tags 问题
// @Produce json
// @Security BearerAuth
// @Param community_id query string false "社区ID"
// @Success 200 {object} utils.Response{data=dto.ProblemStats}
// @Router /api/problems/stats [get]
func (h *ProblemHandler) Stats(c *gin.Context) {
	stats, err := h.problemService.Stats(middleware.CurrentUser(c), c.Query("community_id"))
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// Export 导出问题列表
// @Summary 导出问题列表
// @Tags 管理
// @Produce application/octet-stream
// @Security BearerAuth
// @Param format query string false "导出格式 xlsx 或 csv" default(xlsx)
// @Success 200 {file} file
// @Router /api/admin/problems/export [get]
func (h *ProblemHandler) Export(c *gin.Context) {
	var q dto.ProblemQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.BadRequest(c, MsgBadRequest)
		return
	}
	format := c.DefaultQuery("format", service.FormatXLSX)

	data, filename, err := h.exportService.Export(middleware.CurrentUser(c), q, format)
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, exportContentTypes[format], data)
}
