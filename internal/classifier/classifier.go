// Package classifier 紧急度分类规则
// 两条规则都是纯函数，记录创建和报表聚合统一从这里派生，不得各自复制阈值
package classifier

import "feedback-pipeline/internal/models"

// Classify 评分 → 紧急度
// 规则：无评分 → NORMAL；评分 < 5 → CRITICAL；评分 >= 5 → NORMAL
func Classify(rating *int) models.Urgency {
	if rating == nil {
		return models.UrgencyNormal
	}
	if *rating < 5 {
		return models.UrgencyCritical
	}
	return models.UrgencyNormal
}

// BucketFor 紧急度 + 评分 → 报表分桶
// 规则：CRITICAL 或评分 <= 2 → HIGH；评分 <= 4 → MEDIUM；其余 → LOW
// 注意：CRITICAL 记录即使评分 > 2 也会被归入 HIGH（按存储的紧急度标记优先）
func BucketFor(status models.Urgency, rating int) models.Bucket {
	if status == models.UrgencyCritical || rating <= 2 {
		return models.BucketHigh
	}
	if rating <= 4 {
		return models.BucketMedium
	}
	return models.BucketLow
}
