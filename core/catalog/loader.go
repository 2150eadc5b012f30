package catalog

import (
	"context"

	"soundcatalog/model"
)

// Loader 远程目录加载能力。Fetch 会阻塞直到返回结果或 ctx 结束，
// Provider 总是在独立的 goroutine 中调用它。
type Loader interface {
	Fetch(ctx context.Context, query string) ([]model.RawRecord, error)
}

// LoaderFunc 把普通函数适配为 Loader
type LoaderFunc func(ctx context.Context, query string) ([]model.RawRecord, error)

func (f LoaderFunc) Fetch(ctx context.Context, query string) ([]model.RawRecord, error) {
	return f(ctx, query)
}

// ReadyFunc 目录就绪回调，每次未被同步满足的请求恰好调用一次
type ReadyFunc func(success bool)
