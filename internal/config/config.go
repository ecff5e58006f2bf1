package config

import (
	"os"
	"strings"

	"github.com/segmentio/kafka-go"
)

// Config holds all environment-backed settings. Values are read once at
// startup; `.env` files are loaded by main before Load is called.
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string

	// payment gateway; when the key is empty the payment workflow runs in
	// mock mode and honours the per-request mockSuccess flag.
	PaymentGatewayURL string
	PaymentGatewayKey string

	// notification channel; empty brokers means log-only notifications.
	KafkaBrokers []string
	NotifyTopic  string
	EmailEnabled bool
}

func Load() Config {
	cfg := Config{
		Addr:              getenv("ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		PaymentGatewayURL: os.Getenv("PAYMENT_GATEWAY_URL"),
		PaymentGatewayKey: os.Getenv("PAYMENT_GATEWAY_KEY"),
		NotifyTopic:       getenv("NOTIFY_TOPIC", "shop.notifications"),
		EmailEnabled:      os.Getenv("EMAIL_ENABLED") == "1",
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	return cfg
}

// NewKafkaWriter builds a writer for the notification topic, or nil when no
// brokers are configured.
func (c Config) NewKafkaWriter() *kafka.Writer {
	if len(c.KafkaBrokers) == 0 {
		return nil
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(c.KafkaBrokers...),
		Topic:                  c.NotifyTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
