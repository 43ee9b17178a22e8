// Package envelope 传输信封解码
// 上游生产者可能直接投递事件 JSON，也可能经过通知服务转发、把真正的
// 事件作为 JSON 字符串放在顶层 Message 字段里；消费方两种都要能读。
package envelope

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result 解码结果形态
type Result int

const (
	// Skipped 载荷不是 JSON（空串或探活类消息），按无事件跳过，不算错误
	Skipped Result = iota
	// Direct 载荷本身就是目标事件
	Direct
	// Wrapped 载荷是通知信封，事件在 Message 字段内
	Wrapped
)

// 信封探测形态：Message 必须存在且非 null 才按信封处理
type providerEnvelope struct {
	Message *string `json:"Message"`
}

// Decode 把原始载荷解码到 v
// 先尝试信封形态（Message 字段存在且非 null），失败再按直接事件解；
// 载荷不以 { 或 [ 开头时视为非事件直接跳过，其余解析失败是硬错误，
// 由调用方决定不确认该消息。
func Decode(payload string, v any) (Result, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return Skipped, nil
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return Skipped, nil
	}

	raw := []byte(trimmed)

	var env providerEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != nil {
		if err := json.Unmarshal([]byte(*env.Message), v); err != nil {
			return Wrapped, fmt.Errorf("failed to decode enveloped event: %w", err)
		}
		return Wrapped, nil
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return Direct, fmt.Errorf("failed to decode event payload: %w", err)
	}
	return Direct, nil
}
