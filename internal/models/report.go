package models

// Bucket 报表紧急度分桶（仅在聚合/渲染阶段存在，与两值 Urgency 相互独立）
type Bucket string

const (
	BucketHigh   Bucket = "HIGH"
	BucketMedium Bucket = "MEDIUM"
	BucketLow    Bucket = "LOW"
)

// DetailRow 报表明细行（按查询返回顺序排列）
type DetailRow struct {
	Description string
	Bucket      Bucket
	CreatedAt   string // 格式 2006-01-02T15:04:05Z，无时间戳时为空串
}

// ReportMetrics 聚合指标
type ReportMetrics struct {
	TotalCount    int64
	AverageRating float64        // 已按四舍五入保留两位小数
	CountByDay    map[string]int // key 为 ISO 日期（2006-01-02）
	CountByBucket map[Bucket]int
	Details       []DetailRow
}
