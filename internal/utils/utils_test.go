package utils

import (
	"bytes"
	"testing"
	"time"

	"eco-report/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "HS256", time.Hour)
	token, err := m.GenerateToken(&models.User{UserID: "u1", Role: models.RoleUser, CommunityID: "c1"})
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, "c1", claims.User().CommunityID)
}

func TestJWTRejectsOtherKey(t *testing.T) {
	token, err := NewJWTManager("a", "HS256", time.Hour).GenerateToken(&models.User{UserID: "u1"})
	require.NoError(t, err)

	_, err = NewJWTManager("b", "HS256", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	m := NewJWTManager("secret", "HS256", -time.Minute)
	token, err := m.GenerateToken(&models.User{UserID: "u1"})
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestCodeHash(t *testing.T) {
	hash, err := HashCode("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)
	assert.NoError(t, CheckCode("123456", hash))
	assert.Error(t, CheckCode("654321", hash))
}

func TestPhoneRule(t *testing.T) {
	type form struct {
		Phone string `validate:"required,phone"`
	}
	assert.NoError(t, ValidateStruct(form{Phone: "13800000000"}))
	assert.Error(t, ValidateStruct(form{Phone: "12800000000"}))
	assert.Error(t, ValidateStruct(form{Phone: "1380000000"}))

	field, tag, ok := FirstFieldError(GetValidator().Struct(form{Phone: "x"}))
	require.True(t, ok)
	assert.Equal(t, "Phone", field)
	assert.Equal(t, "phone", tag)
}

func TestDetectImageExt(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000000000")
	ext, ok := DetectImageExt(png)
	assert.True(t, ok)
	assert.Equal(t, ".png", ext)

	_, ok = DetectImageExt([]byte("hello world"))
	assert.False(t, ok)
}

func TestNewUploadName(t *testing.T) {
	a, err := NewUploadName(".jpg")
	require.NoError(t, err)
	b, err := NewUploadName(".jpg")
	require.NoError(t, err)

	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "uploads/"+a, UploadURL("", a))
	assert.Equal(t, "http://x/uploads/"+a, UploadURL("http://x/", a))
}

func TestConvertRowsToXLSX(t *testing.T) {
	data, err := ConvertRowsToXLSX("问题列表", []string{"标题", "状态"}, [][]interface{}{{"电梯故障", "未整改"}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("问题列表")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"标题", "状态"}, {"电梯故障", "未整改"}}, rows)
}

func TestConvertRowsToCSV(t *testing.T) {
	data, err := ConvertRowsToCSV([]string{"a", "b"}, [][]interface{}{{1, "x"}})
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFa,b\n1,x\n", string(data))
}
