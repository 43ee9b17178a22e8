// Package notification 严重告警通知阶段
package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"feedback-pipeline/internal/apperrors"
	"feedback-pipeline/internal/envelope"
	"feedback-pipeline/internal/models"

	"go.uber.org/zap"
)

// AlertSubject 告警邮件固定主题
const AlertSubject = "🚨 Feedback Crítico Recebido"

// EmailSender 通知阶段需要的邮件发送能力
type EmailSender interface {
	Send(ctx context.Context, subject string, htmlBody string, to string) (string, error)
}

const bodyTemplate = `<html>
<body>
  <h2>Feedback Crítico</h2>
  <p>Um feedback com urgência <strong>{{.UrgencyLabel}}</strong> foi recebido e precisa de atenção.</p>
  <table border="1" cellpadding="6" cellspacing="0">
    <tr><td>ID</td><td>{{.ID}}</td></tr>
    <tr><td>Descrição</td><td>{{.Description}}</td></tr>
    <tr><td>Nota</td><td>{{.Rating}}</td></tr>
    <tr><td>Urgência</td><td>{{.UrgencyLabel}}</td></tr>
    <tr><td>Enviado em</td><td>{{.SentAt}}</td></tr>
  </table>
</body>
</html>`

var alertTemplate = template.Must(template.New("critical-alert").Parse(bodyTemplate))

type templateData struct {
	ID           int64
	Description  string
	Rating       int
	UrgencyLabel string
	SentAt       string
}

// Stage 通知阶段：消费严重告警事件并发送邮件
type Stage struct {
	sender    EmailSender
	metrics   MetricsSink
	recipient string
	enabled   bool
	logger    *zap.Logger
}

// NewStage 创建通知阶段
func NewStage(sender EmailSender, metrics MetricsSink, recipient string, enabled bool, logger *zap.Logger) *Stage {
	if metrics == nil {
		metrics = NopSink{}
	}
	return &Stage{
		sender:    sender,
		metrics:   metrics,
		recipient: recipient,
		enabled:   enabled,
		logger:    logger,
	}
}

// HandleMessage 处理一条严重告警事件
// 发送失败向上传播，消费不确认，由传输层按自身策略重投递
func (s *Stage) HandleMessage(ctx context.Context, payload string) error {
	var event models.FeedbackEvent
	result, err := envelope.Decode(payload, &event)
	if err != nil {
		return fmt.Errorf("failed to decode critical alert event: %w", err)
	}
	if result == envelope.Skipped {
		s.logger.Debug("Skipping non-event payload")
		return nil
	}

	s.metrics.IncAlertsReceived()

	if !s.enabled {
		// 管理开关旁路：记录并放行，不算失败
		s.metrics.IncBypassed()
		s.logger.Info("Email notifications are disabled, bypassing alert",
			zap.Int64("feedback_id", event.ID),
		)
		return nil
	}

	if s.recipient == "" {
		return &apperrors.ConfigurationError{Key: "MAIL_RECIPIENT"}
	}

	body, err := renderBody(&event, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to render alert email: %w", err)
	}

	messageID, err := s.sender.Send(ctx, AlertSubject, body, s.recipient)
	if err != nil {
		s.metrics.IncEmailsFailed()
		return fmt.Errorf("failed to send alert email for feedback %d: %w", event.ID, err)
	}

	s.metrics.IncEmailsSent()
	s.logger.Info("Critical alert email sent",
		zap.Int64("feedback_id", event.ID),
		zap.String("message_id", messageID),
		zap.String("recipient", s.recipient),
	)

	return nil
}

func renderBody(event *models.FeedbackEvent, sentAt time.Time) (string, error) {
	label := "Normal"
	if event.Status == models.UrgencyCritical {
		label = "Crítico"
	}

	var buf bytes.Buffer
	err := alertTemplate.Execute(&buf, templateData{
		ID:           event.ID,
		Description:  event.Description,
		Rating:       event.Rating,
		UrgencyLabel: label,
		SentAt:       sentAt.Format("2006-01-02T15:04:05Z"),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
