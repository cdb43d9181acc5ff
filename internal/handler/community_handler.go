package handler

import (
	"eco-report/internal/dto"
	"eco-report/internal/service"
	"eco-report/internal/utils"

	"github.com/gin-gonic/gin"
)

// CommunityHandler 社区与问题类型处理器
type CommunityHandler struct {
	communityService *service.CommunityService
}

// NewCommunityHandler 创建社区处理器
func NewCommunityHandler(communityService *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{
		communityService: communityService,
	}
}

var (
	communityMessages = map[string]string{"CommunityText.required": dto.MsgCommunityRequired}
	typeMessages      = map[string]string{"TypeText.required": dto.MsgTypeRequired}
)

// ListCommunities 社区列表
// @Summary 获取社区列表
// @Tags 社区
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response{data=[]models.Community}
// @Router /api/communities [get]
func (h *CommunityHandler) ListCommunities(c *gin.Context) {
	list, err := h.communityService.ListCommunities()
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessResponse(c, list)
}

// GetCommunity 社区详情
// @Summary 获取社区详情
// @Tags 社区
// @Produce json
// @Security BearerAuth
// @Param id path string true "社区ID"
// @Success 200 {object} utils.Response{data=models.Community}
// @Router /api/communities/{id} [get]
func (h *CommunityHandler) GetCommunity(c *gin.Context) {
	community, err := h.communityService.GetCommunity(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessResponse(c, community)
}

// CreateCommunity 创建社区
// @Summary 创建社区
// @Tags 社区
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCommunityRequest true "社区信息"
// @Success 200 {object} utils.Response{data=models.Community}
// @Router /api/communities [post]
func (h *CommunityHandler) CreateCommunity(c *gin.Context) {
	var req dto.CreateCommunityRequest
	if !bindJSON(c, &req, communityMessages) {
		return
	}

	community, err := h.communityService.CreateCommunity(&req)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, dto.MsgCreated, community)
}

// UpdateCommunity 修改社区
// @Summary 修改社区
// @Tags 社区
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "社区ID"
// @Param request body dto.UpdateCommunityRequest true "社区信息"
// @Success 200 {object} utils.Response{data=models.Community}
// @Router /api/communities/{id} [put]
func (h *CommunityHandler) UpdateCommunity(c *gin.Context) {
	var req dto.UpdateCommunityRequest
	if !bindJSON(c, &req, communityMessages) {
		return
	}

	community, err := h.communityService.UpdateCommunity(c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, dto.MsgUpdated, community)
}

// DeleteCommunity 删除社区
// @Summary 删除社区
// @Tags 社区
// @Produce json
// @Security BearerAuth
// @Param id path string true "社区ID"
// @Success 200 {object} utils.Response
// @Router /api/communities/{id} [delete]
func (h *CommunityHandler) DeleteCommunity(c *gin.Context) {
	if err := h.communityService.DeleteCommunity(c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, dto.MsgDeleted, nil)
}

// ListTypes 问题类型列表
// @Summary 获取问题类型列表
// @Tags 问题类型
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response{data=[]models.ProblemType}
// @Router /api/problem-types [get]
func (h *CommunityHandler) ListTypes(c *gin.Context) {
	list, err := h.communityService.ListTypes()
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessResponse(c, list)
}

// CreateType 创建问题类型
// @Summary 创建问题类型
// @Tags 问题类型
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProblemTypeRequest true "类型名称"
// @Success 200 {object} utils.Response{data=models.ProblemType}
// @Router /api/problem-types [post]
func (h *CommunityHandler) CreateType(c *gin.Context) {
	var req dto.CreateProblemTypeRequest
	if !bindJSON(c, &req, typeMessages) {
		return
	}

	pt, err := h.communityService.CreateType(&req)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, dto.MsgCreated, pt)
}

// DeleteType 删除问题类型
// @Summary 删除问题类型
// @Tags 问题类型
// @Produce json
// @Security BearerAuth
// @Param id path string true "类型ID"
// @Success 200 {object} utils.Response
// @Router /api/problem-types/{id} [delete]
func (h *CommunityHandler) DeleteType(c *gin.Context) {
	if err := h.communityService.DeleteType(c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, dto.MsgDeleted, nil)
}
