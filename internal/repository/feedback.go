package repository

import (
	"context"
	"database/sql"
	"fmt"

	"feedback-pipeline/internal/apperrors"
	"feedback-pipeline/internal/models"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// FeedbackRepository 反馈记录仓库
type FeedbackRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewFeedbackRepository 创建反馈记录仓库
func NewFeedbackRepository(db *sql.DB, logger *zap.Logger) *FeedbackRepository {
	return &FeedbackRepository{
		db:     db,
		logger: logger,
	}
}

// Save 持久化一条反馈记录并回填数据库分配的 ID
func (r *FeedbackRepository) Save(ctx context.Context, record *models.FeedbackRecord) (*models.FeedbackRecord, error) {
	query := `
		INSERT INTO feedbacks (description, rating, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		record.Description,
		record.Rating,
		string(record.Status),
		record.CreatedAt,
		record.UpdatedAt,
	).Scan(&record.ID)
	if err != nil {
		return nil, &apperrors.DataAccessError{Op: "save feedback", Err: err}
	}

	r.logger.Debug("Feedback persisted",
		zap.Int64("feedback_id", record.ID),
		zap.String("status", string(record.Status)),
	)

	return record, nil
}

// CountAll 统计全部反馈数量
func (r *FeedbackRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedbacks`).Scan(&count)
	if err != nil {
		return 0, &apperrors.DataAccessError{Op: "count feedbacks", Err: err}
	}
	return count, nil
}

// AverageRating 计算评分均值（空表返回 0）
func (r *FeedbackRepository) AverageRating(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(AVG(rating), 0) FROM feedbacks`).Scan(&avg)
	if err != nil {
		return 0, &apperrors.DataAccessError{Op: "average rating", Err: err}
	}
	return avg, nil
}

// FindAllForReport 按创建顺序返回全部记录（报表用，不分页）
func (r *FeedbackRepository) FindAllForReport(ctx context.Context) ([]*models.FeedbackRecord, error) {
	query := `
		SELECT id, description, rating, status, created_at, updated_at
		FROM feedbacks
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &apperrors.DataAccessError{Op: "find feedbacks for report", Err: err}
	}
	defer rows.Close()

	var records []*models.FeedbackRecord
	for rows.Next() {
		var record models.FeedbackRecord
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(
			&record.ID,
			&record.Description,
			&record.Rating,
			&record.Status,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, &apperrors.DataAccessError{Op: "scan feedback row", Err: err}
		}

		if createdAt.Valid {
			t := createdAt.Time
			record.CreatedAt = &t
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			record.UpdatedAt = &t
		}

		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.DataAccessError{Op: "iterate feedback rows", Err: err}
	}

	return records, nil
}

// NewPostgresDB 创建 PostgreSQL 数据库连接
func NewPostgresDB(dsn string, maxConns, maxIdle int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
