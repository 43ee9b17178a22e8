// Package mqttbridge 报表完成事件的 MQTT 广播桥
// 只发不收：外部订阅方（看板、机器人）通过 MQTT 收到周报完成通知，
// 不参与管道本身的队列/主题投递。
package mqttbridge

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// Bridge MQTT 发布桥
type Bridge struct {
	client mqtt.Client
	topic  string
	qos    byte
	logger *zap.Logger
}

// New 连接 broker 并创建发布桥
func New(broker, clientID, topic string, qos byte, logger *zap.Logger) (*Bridge, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	logger.Info("MQTT bridge connected",
		zap.String("broker", broker),
		zap.String("topic", topic),
	)

	return &Bridge{
		client: client,
		topic:  topic,
		qos:    qos,
		logger: logger,
	}, nil
}

// Announce 发布一条完成事件
func (b *Bridge) Announce(payload []byte) error {
	token := b.client.Publish(b.topic, b.qos, false, payload)
	token.Wait()

	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", b.topic, token.Error())
	}

	return nil
}

// Close 断开连接
func (b *Bridge) Close() {
	b.client.Disconnect(250)
}
