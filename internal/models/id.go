package models

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 生成32位十六进制编号
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
