package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// DSN 获取数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Config 反馈管道服务配置
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig

	// Redis Streams 目的地配置
	Streams struct {
		FeedbackQueue  string // 入库事件队列，如 "feedback:events:stream"
		CriticalAlerts string // 严重告警主题
		ReportReady    string // 周报完成主题
	}

	Consumer struct {
		Group     string // 消费者组名称
		Name      string // 消费者名称
		BatchSize int64  // 批量处理大小
	}

	Email struct {
		Enabled   bool   // 管理开关，关闭时通知阶段直接旁路
		BaseURL   string // 邮件 API 地址
		APIKey    string
		From      string
		Recipient string // 固定收件人
	}

	Storage struct {
		Bucket string
		Region string
	}

	Report struct {
		Cron string // 周报触发表达式
	}

	// MQTT 可选广播桥配置，Broker 为空时桥整体关闭
	MQTT struct {
		Broker   string
		ClientID string
		Topic    string
		QoS      byte
	}

	HTTP struct {
		Addr string
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "feedback")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 10)
	cfg.Database.MaxIdle = getEnvInt("DB_MAX_IDLE", 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.Streams.FeedbackQueue = getEnv("STREAM_FEEDBACK_QUEUE", "feedback:events:stream")
	cfg.Streams.CriticalAlerts = getEnv("STREAM_CRITICAL_ALERTS", "feedback:critical:stream")
	cfg.Streams.ReportReady = getEnv("STREAM_REPORT_READY", "feedback:reports:stream")

	cfg.Consumer.Group = getEnv("CONSUMER_GROUP", "feedback-pipeline-group")
	cfg.Consumer.Name = getEnv("CONSUMER_NAME", "feedback-pipeline-1")
	cfg.Consumer.BatchSize = int64(getEnvInt("CONSUMER_BATCH_SIZE", 10))

	cfg.Email.Enabled = getEnv("EMAIL_ENABLED", "true") == "true"
	cfg.Email.BaseURL = getEnv("MAIL_API_URL", "")
	cfg.Email.APIKey = getEnv("MAIL_API_KEY", "")
	cfg.Email.From = getEnv("MAIL_FROM", "noreply@feedback-pipeline.local")
	cfg.Email.Recipient = getEnv("MAIL_RECIPIENT", "")

	cfg.Storage.Bucket = getEnv("REPORT_BUCKET", "")
	cfg.Storage.Region = getEnv("AWS_REGION", "us-east-1")

	// 默认每周一早 8 点生成周报
	cfg.Report.Cron = getEnv("REPORT_CRON", "0 8 * * 1")

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "feedback-pipeline")
	cfg.MQTT.Topic = getEnv("MQTT_REPORT_TOPIC", "feedback/reports")
	cfg.MQTT.QoS = byte(getEnvInt("MQTT_QOS", 1))

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
