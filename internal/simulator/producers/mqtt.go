package producers

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/samistat08/ro-process-dashboard/internal/models"
)

const publishTimeout = 10 * time.Second

type MQTTProducer struct {
	client      mqtt.Client
	topicPrefix string
	qos         byte
}

func NewMQTTProducer(config *models.Config) (*MQTTProducer, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.MQTTBrokerURL)
	opts.SetClientID(config.MQTTClientID)

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return nil, fmt.Errorf("timed out connecting to MQTT broker %s", config.MQTTBrokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	return &MQTTProducer{
		client:      client,
		topicPrefix: config.MQTTTopicPrefix,
		qos:         byte(config.MQTTQoS),
	}, nil
}

func (m *MQTTProducer) WriteMessage(topic string, msg []byte) error {
	fullTopic := topic
	if m.topicPrefix != "" {
		fullTopic = m.topicPrefix + "/" + topic
	}

	token := m.client.Publish(fullTopic, m.qos, false, msg)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timed out publishing to %s", fullTopic)
	}
	return token.Error()
}

func (m *MQTTProducer) Close() error {
	m.client.Disconnect(250)
	return nil
}
