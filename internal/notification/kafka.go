package notification

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mswdo/soloparent-backend/config"
)

func brokerList(cfg *config.Config) []string {
	var brokers []string
	for _, b := range strings.Split(cfg.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// EmailMessage is the payload placed on the outbound email topic. Mail is
// sent off the request path so a slow SMTP server never holds a row lock.
type EmailMessage struct {
	Kind EmailKind         `json:"kind"`
	To   string            `json:"to"`
	Data map[string]string `json:"data,omitempty"`
}

// EmailQueue publishes EmailMessages to Kafka. When no broker is configured
// it falls back to sending inline so local setups still work.
type EmailQueue struct {
	writer *kafka.Writer
	sender *EmailSender
}

func NewEmailQueue(cfg *config.Config, sender *EmailSender) *EmailQueue {
	q := &EmailQueue{sender: sender}
	brokers := brokerList(cfg)
	if len(brokers) == 0 {
		log.Println("⚠️ Kafka brokers not configured, emails will be sent inline")
		return q
	}
	q.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        cfg.KafkaEmailTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 10 * time.Second,
	}
	log.Printf("✅ Kafka email producer ready (topic=%s)", cfg.KafkaEmailTopic)
	return q
}

// Enqueue publishes one message. Failures are logged, never propagated: a
// lost email must not roll back a committed status change.
func (q *EmailQueue) Enqueue(kind EmailKind, to string, data map[string]string) {
	if to == "" {
		return
	}
	msg := EmailMessage{Kind: kind, To: to, Data: data}

	if q.writer == nil {
		go q.deliver(msg)
		return
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		log.Printf("❌ Failed to marshal email message: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := q.writer.WriteMessages(ctx, kafka.Message{Key: []byte(to), Value: raw}); err != nil {
		log.Printf("❌ Failed to enqueue email for %s: %v, sending inline", to, err)
		go q.deliver(msg)
	}
}

func (q *EmailQueue) deliver(msg EmailMessage) {
	subject, body, err := q.sender.Compose(msg.Kind, msg.Data)
	if err != nil {
		log.Printf("❌ Email compose failed: %v", err)
		return
	}
	if err := q.sender.Send(msg.To, subject, body); err != nil {
		log.Printf("❌ Failed to send email to %s: %v", msg.To, err)
	}
}

func (q *EmailQueue) Close() error {
	if q.writer == nil {
		return nil
	}
	return q.writer.Close()
}

// StartEmailConsumer drains the email topic and delivers each message. Runs
// until ctx is cancelled.
func StartEmailConsumer(ctx context.Context, cfg *config.Config, sender *EmailSender) {
	brokers := brokerList(cfg)
	if len(brokers) == 0 {
		return
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    cfg.KafkaEmailTopic,
		GroupID:  "soloparent-email-sender",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	log.Printf("🔄 Kafka email consumer started (topic=%s)", cfg.KafkaEmailTopic)

	go func() {
		defer reader.Close()
		for {
			m, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					log.Println("ℹ️ Kafka email consumer stopped")
					return
				}
				log.Printf("❌ Kafka read error: %v", err)
				time.Sleep(2 * time.Second)
				continue
			}

			var msg EmailMessage
			if err := json.Unmarshal(m.Value, &msg); err != nil {
				log.Printf("❌ Bad email payload at offset %d: %v", m.Offset, err)
				continue
			}
			subject, body, err := sender.Compose(msg.Kind, msg.Data)
			if err != nil {
				log.Printf("❌ Email compose failed: %v", err)
				continue
			}
			if err := sender.Send(msg.To, subject, body); err != nil {
				log.Printf("❌ Failed to send email to %s: %v", msg.To, err)
			}
		}
	}()
}
