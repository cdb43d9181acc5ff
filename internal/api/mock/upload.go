package mock

import (
	"context"
	"path/filepath"
	"strings"

	"eco-report/internal/api/batch"
	"eco-report/internal/dto"
	"eco-report/internal/models"
)

// UploadService 上传接口
type UploadService struct {
	b *Backend
}

// Upload 模拟上传一张图片, 地址中保留原文件名
func (s *UploadService) Upload(ctx context.Context, path string) (dto.Response[dto.UploadResult], error) {
	if err := s.b.waitJitter(ctx); err != nil {
		return dto.Response[dto.UploadResult]{}, err
	}
	if s.b.caller() == nil {
		return fail[dto.UploadResult](dto.CodeUnauthorized, dto.MsgNotLoggedIn)
	}
	if strings.TrimSpace(path) == "" {
		return fail[dto.UploadResult](dto.CodeBadRequest, dto.MsgFilePathRequired)
	}

	url := "uploads/mock_" + models.NewID()[:12] + "_" + filepath.Base(path)
	return dto.Success(dto.UploadResult{URL: url}), nil
}

// UploadMany 并发上传多张图片, 地址顺序与输入一致
func (s *UploadService) UploadMany(ctx context.Context, paths []string) (dto.Response[dto.BatchUploadResult], error) {
	return batch.Upload(ctx, paths, s.b.uploadLimit, s.Upload)
}
