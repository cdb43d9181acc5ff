package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashCode 哈希验证码, 缓存中不保存明文
func HashCode(code string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckCode 校验验证码
func CheckCode(code, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
}
