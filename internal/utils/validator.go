package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"eco-report/internal/dto"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// InitValidator 初始化验证器, 同时向 gin 的绑定验证器注册自定义规则
func InitValidator() {
	validateOnce.Do(func() {
		validate = validator.New()
		registerRules(validate)

		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerRules(v)
		}
	})
}

func registerRules(v *validator.Validate) {
	// 注册自定义验证函数
	_ = v.RegisterValidation("phone", validatePhone)
}

// GetValidator 获取验证器实例
func GetValidator() *validator.Validate {
	InitValidator()
	return validate
}

// validatePhone 验证手机号
func validatePhone(fl validator.FieldLevel) bool {
	return dto.ValidPhone(fl.Field().String())
}

// ValidateStruct 验证结构体
func ValidateStruct(s interface{}) error {
	v := GetValidator()
	if err := v.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// FirstFieldError 第一个验证失败的字段和规则
func FirstFieldError(err error) (field, tag string, ok bool) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "", "", false
	}
	return validationErrors[0].Field(), validationErrors[0].Tag(), true
}

// FormatBindError 把绑定错误转为提示
func FormatBindError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return formatValidationError(err).Error()
	}
	return "请求参数错误"
}

// formatValidationError 格式化验证错误
func formatValidationError(err error) error {
	var messages []string

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			field := e.Field()
			tag := e.Tag()
			param := e.Param()

			var message string
			switch tag {
			case "required":
				message = fmt.Sprintf("%s是必填字段", field)
			case "min":
				message = fmt.Sprintf("%s数量不能小于%s", field, param)
			case "max":
				message = fmt.Sprintf("%s长度不能大于%s", field, param)
			case "len":
				message = fmt.Sprintf("%s长度必须为%s", field, param)
			case "phone":
				message = dto.MsgInvalidPhone
			case "oneof":
				message = fmt.Sprintf("%s必须是[%s]之一", field, param)
			default:
				message = fmt.Sprintf("%s验证失败: %s", field, tag)
			}

			messages = append(messages, message)
		}
	}

	if len(messages) > 0 {
		return errors.New(strings.Join(messages, "; "))
	}

	return err
}

// GetStructFieldName 获取结构体JSON字段名
func GetStructFieldName(s interface{}, field string) string {
	t := reflect.TypeOf(s)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	f, ok := t.FieldByName(field)
	if !ok {
		return field
	}

	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field
	}

	return strings.Split(tag, ",")[0]
}
