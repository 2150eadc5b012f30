package catalog

import (
	"errors"
	"fmt"
)

// ErrEmptyBatch 加载器返回了空批次，按加载失败处理
var ErrEmptyBatch = errors.New("catalog: empty or unparseable batch")

// ErrClosed Provider 已关闭
var ErrClosed = errors.New("catalog: provider closed")

// MalformedRecordError 单条记录的数值字段无法解析，已替换为默认值
type MalformedRecordError struct {
	Field string
	Value string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed field %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// FetchError 加载器调用失败（网络、状态码、超时或空批次）
type FetchError struct {
	Query string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch catalog (query %q): %v", e.Query, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
