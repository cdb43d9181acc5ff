package dto

import "regexp"

var phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

// ValidPhone 是否为大陆手机号
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
