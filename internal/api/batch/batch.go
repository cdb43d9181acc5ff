// Package batch 并发批量上传
package batch

import (
	"context"
	"fmt"

	"eco-report/internal/dto"

	"golang.org/x/sync/errgroup"
)

// MsgBatchFailed 批量上传失败提示
const MsgBatchFailed = "批量上传失败"

// UploadFunc 上传单个文件
type UploadFunc func(ctx context.Context, path string) (dto.Response[dto.UploadResult], error)

// Upload 并发上传全部文件, 结果与输入顺序一致
// 任意一个失败则整批失败; 父 ctx 被取消时返回 ctx 错误
func Upload(ctx context.Context, paths []string, limit int, upload UploadFunc) (dto.Response[dto.BatchUploadResult], error) {
	urls, err := All(ctx, paths, limit, upload)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return dto.Response[dto.BatchUploadResult]{}, ctxErr
		}
		return dto.Fail[dto.BatchUploadResult](dto.CodeInternal, MsgBatchFailed), nil
	}
	return dto.Success(dto.BatchUploadResult{URLs: urls}), nil
}

// All 并发执行上传并按下标收集地址
func All(ctx context.Context, paths []string, limit int, upload UploadFunc) ([]string, error) {
	urls := make([]string, len(paths))
	if len(paths) == 0 {
		return urls, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, path := range paths {
		g.Go(func() error {
			resp, err := upload(gctx, path)
			if err != nil {
				return fmt.Errorf("上传 %s 失败: %w", path, err)
			}
			if !resp.OK() {
				return fmt.Errorf("上传 %s 失败: %s", path, resp.Message)
			}
			urls[i] = resp.Data.URL
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
