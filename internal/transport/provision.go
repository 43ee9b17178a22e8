package transport

import (
	"context"
	"strings"

	"github.com/go-redis/redis/v8"
)

// EnsureResult 消费者组创建结果
// 用显式结果取代"组已存在算作成功"的异常分支，调用方自己决定怎么处理
type EnsureResult int

const (
	EnsureFailed EnsureResult = iota
	EnsureCreated
	EnsureAlreadyExists
)

func (r EnsureResult) String() string {
	switch r {
	case EnsureCreated:
		return "created"
	case EnsureAlreadyExists:
		return "already_exists"
	default:
		return "failed"
	}
}

// EnsureGroup 幂等创建消费者组（Stream 不存在时连带创建）
func EnsureGroup(ctx context.Context, client *redis.Client, stream, group string) (EnsureResult, error) {
	err := client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err == nil {
		return EnsureCreated, nil
	}
	if strings.Contains(err.Error(), "BUSYGROUP") {
		return EnsureAlreadyExists, nil
	}
	return EnsureFailed, err
}
