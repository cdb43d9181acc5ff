package utils

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	gonanoid "github.com/matoous/go-nanoid"
)

const uploadAlphabet = "0123456789abcdef"

// 允许上传的图片类型
var imageExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DetectImageExt 根据文件内容判断图片类型, 返回扩展名
func DetectImageExt(head []byte) (string, bool) {
	contentType := http.DetectContentType(head)
	ext, ok := imageExts[contentType]
	return ext, ok
}

// NewUploadName 生成上传文件名
func NewUploadName(ext string) (string, error) {
	id, err := gonanoid.Generate(uploadAlphabet, 12)
	if err != nil {
		return "", fmt.Errorf("生成文件名失败: %w", err)
	}
	return id + ext, nil
}

// UploadURL 拼接上传文件的访问路径
func UploadURL(publicURL, name string) string {
	rel := path.Join("uploads", name)
	if publicURL == "" {
		return rel
	}
	return strings.TrimRight(publicURL, "/") + "/" + rel
}
