// Package storage は店舗画像の保存先を提供します。
package storage

import (
	"context"
	"io"
)

// ImageStore は画像オブジェクトの保存・削除・公開URLの組み立てを行います。
type ImageStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
