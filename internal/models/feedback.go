package models

import "time"

// Urgency 反馈紧急度（在创建时由评分派生，之后不再单独变更）
type Urgency string

const (
	UrgencyCritical Urgency = "CRITICAL"
	UrgencyNormal   Urgency = "NORMAL"
)

// FeedbackRecord 用户反馈记录
// 约束：Status 始终是创建时评分的纯函数；记录不会被硬删除
type FeedbackRecord struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Rating      int        `json:"rating"`
	Status      Urgency    `json:"status"`
	CreatedAt   *time.Time `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}
