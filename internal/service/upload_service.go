package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"eco-report/internal/config"
	"eco-report/internal/dto"
	"eco-report/internal/utils"

	"github.com/sirupsen/logrus"
)

// UploadService 图片上传服务
type UploadService struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewUploadService 创建上传服务
func NewUploadService(cfg *config.Config, logger *logrus.Logger) *UploadService {
	return &UploadService{cfg: cfg, logger: logger}
}

// SaveImage 保存图片, 按内容判断类型并生成随机文件名
func (s *UploadService) SaveImage(file *multipart.FileHeader) (*dto.UploadResult, error) {
	if file == nil {
		return nil, newError(ErrBadRequest, dto.MsgFileRequired)
	}
	if max := s.cfg.Upload.GetMaxSize(); max > 0 && file.Size > max {
		return nil, newError(ErrBadRequest, dto.MsgFileTooLarge)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("读取上传文件失败: %w", err)
	}
	ext, ok := utils.DetectImageExt(head[:n])
	if !ok {
		return nil, newError(ErrBadRequest, dto.MsgFileType)
	}

	name, err := utils.NewUploadName(ext)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.cfg.Upload.Dir, 0755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}

	dstPath := filepath.Join(s.cfg.Upload.Dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("创建文件失败: %w", err)
	}
	defer dst.Close()

	if _, err := dst.Write(head[:n]); err != nil {
		return nil, fmt.Errorf("写入文件失败: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return nil, fmt.Errorf("写入文件失败: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"file": file.Filename,
		"name": name,
		"size": file.Size,
	}).Info("图片上传成功")

	return &dto.UploadResult{URL: utils.UploadURL(s.cfg.Server.PublicURL, name)}, nil
}
