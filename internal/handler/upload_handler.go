package handler

import (
	"eco-report/internal/dto"
	"eco-report/internal/service"
	"eco-report/internal/utils"

	"github.com/gin-gonic/gin"
)

// UploadHandler 上传处理器
type UploadHandler struct {
	uploadService *service.UploadService
}

// NewUploadHandler 创建上传处理器
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// UploadImage 上传图片
// @Summary 上传图片
// @Tags 上传
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "图片文件"
// @Success 200 {object} utils.Response{data=dto.UploadResult}
// @Router /api/upload/image [post]
func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.BadRequest(c, dto.MsgFileRequired)
		return
	}

	result, err := h.uploadService.SaveImage(file)
	if err != nil {
		fail(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}
