package models

import "time"

// FeedbackEvent 反馈事件（入库事件和严重告警事件共用同一线格式）
// 字段名即线上 JSON 字段名，消费方忽略未知字段
type FeedbackEvent struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Rating      int        `json:"rating"`
	Status      Urgency    `json:"status"`
	CreatedAt   *time.Time `json:"createdAt"`
}

// NewFeedbackEvent 从已持久化的记录构建事件快照
func NewFeedbackEvent(record *FeedbackRecord) *FeedbackEvent {
	return &FeedbackEvent{
		ID:          record.ID,
		Description: record.Description,
		Rating:      record.Rating,
		Status:      record.Status,
		CreatedAt:   record.CreatedAt,
	}
}

// ReportReadyEvent 周报生成完成事件
type ReportReadyEvent struct {
	EventType      string  `json:"eventType"`
	Message        string  `json:"message"`
	ReportLink     string  `json:"reportLink"`
	BucketName     string  `json:"bucketName"`
	S3Key          string  `json:"s3Key"`
	TotalFeedbacks int64   `json:"totalFeedbacks"`
	AverageScore   float64 `json:"averageScore"`
	GeneratedAt    string  `json:"generatedAt"`
}
