// Package apperrors 错误分类
// 各层统一用这些类型包装失败，调用方通过 errors.As 分支处理
package apperrors

import "fmt"

// ValidationError 入参校验失败（未产生任何副作用）
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on field %q: %s", e.Field, e.Reason)
}

// ConfigurationError 缺少必需配置（快速失败，无部分副作用）
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Key)
}

// TransportError 消息发布/消费失败（核心不做内部重试，交给传输层的重投递策略）
type TransportError struct {
	Destination string
	Err         error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure on destination %q: %v", e.Destination, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DataAccessError 持久化读写失败（向上传播，不做本地恢复）
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access failure during %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// StorageError 对象存储失败（在任何 announce 之前终止整个报表周期）
type StorageError struct {
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("object storage failure for key %q: %v", e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
