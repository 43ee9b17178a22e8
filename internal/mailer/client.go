// Package mailer 邮件 API 客户端
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sendRequest 邮件 API 请求体
type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// sendResponse 邮件 API 响应体
type sendResponse struct {
	MessageID string `json:"messageId"`
}

// Client 邮件 HTTP API 客户端
type Client struct {
	httpClient *resty.Client
	from       string
	logger     *zap.Logger
}

// NewClient 创建邮件客户端
func NewClient(baseURL, apiKey, from string, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}

	return &Client{
		httpClient: client,
		from:       from,
		logger:     logger,
	}
}

// Send 发送一封渲染好的 HTML 邮件，返回服务端的确认 ID
func (c *Client) Send(ctx context.Context, subject string, htmlBody string, to string) (string, error) {
	requestID := uuid.New().String()

	var response sendResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID).
		SetBody(sendRequest{
			From:    c.from,
			To:      to,
			Subject: subject,
			HTML:    htmlBody,
		}).
		SetResult(&response).
		Post("/messages")
	if err != nil {
		return "", fmt.Errorf("failed to call mail API: %w", err)
	}

	if resp.IsError() {
		c.logger.Error("Mail API returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("request_id", requestID),
			zap.String("body", resp.String()),
		)
		return "", fmt.Errorf("mail API returned status %d", resp.StatusCode())
	}

	c.logger.Debug("Mail accepted",
		zap.String("message_id", response.MessageID),
		zap.String("request_id", requestID),
	)

	return response.MessageID, nil
}
