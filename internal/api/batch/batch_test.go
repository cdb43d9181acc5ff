package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"eco-report/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadPreservesOrder(t *testing.T) {
	delays := map[string]time.Duration{"a": 30 * time.Millisecond, "b": 1 * time.Millisecond, "c": 15 * time.Millisecond}

	resp, err := Upload(context.Background(), []string{"a", "b", "c"}, 0, func(ctx context.Context, path string) (dto.Response[dto.UploadResult], error) {
		time.Sleep(delays[path])
		return dto.Success(dto.UploadResult{URL: "url-" + path}), nil
	})

	require.NoError(t, err)
	require.True(t, resp.OK())
	assert.Equal(t, []string{"url-a", "url-b", "url-c"}, resp.Data.URLs)
}

func TestUploadAllOrNothing(t *testing.T) {
	for name, fail := range map[string]func() (dto.Response[dto.UploadResult], error){
		"error":    func() (dto.Response[dto.UploadResult], error) { return dto.Response[dto.UploadResult]{}, errors.New("boom") },
		"envelope": func() (dto.Response[dto.UploadResult], error) { return dto.Fail[dto.UploadResult](dto.CodeBadRequest, "bad"), nil },
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := Upload(context.Background(), []string{"a", "b"}, 2, func(ctx context.Context, path string) (dto.Response[dto.UploadResult], error) {
				if path == "b" {
					return fail()
				}
				return dto.Success(dto.UploadResult{URL: path}), nil
			})

			require.NoError(t, err)
			assert.Equal(t, dto.CodeInternal, resp.Code)
			assert.Equal(t, MsgBatchFailed, resp.Message)
			assert.Nil(t, resp.Data.URLs)
		})
	}
}

func TestUploadRespectsLimit(t *testing.T) {
	var running, peak int32
	_, err := All(context.Background(), []string{"1", "2", "3", "4", "5", "6"}, 2, func(ctx context.Context, path string) (dto.Response[dto.UploadResult], error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return dto.Success(dto.UploadResult{URL: path}), nil
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestUploadEmpty(t *testing.T) {
	resp, err := Upload(context.Background(), nil, 3, nil)
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Empty(t, resp.Data.URLs)
}

func TestUploadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Upload(ctx, []string{"a"}, 1, func(ctx context.Context, path string) (dto.Response[dto.UploadResult], error) {
		return dto.Response[dto.UploadResult]{}, ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
}
