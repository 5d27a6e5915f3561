package rmqconsumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"preservation-api/config"
	"preservation-api/internal/infrastructure/mq"
)

const preFetchCount = 1

// Consumer reads document events back from the queue and writes them to the audit log.
type Consumer struct {
	cfg        config.MQ
	log        *zap.Logger
	conn       *amqp091.Connection
	chConsume  *amqp091.Channel
	chDelivery <-chan amqp091.Delivery
}

func New(cfg config.MQ, logger *zap.Logger, conn *amqp091.Connection) *Consumer {
	return &Consumer{
		cfg:  cfg,
		log:  logger.With(zap.String("component", "audit_consumer")),
		conn: conn,
	}
}

// Connect dials dsn unless a connection was handed to New.
func (c *Consumer) Connect(dsn string) error {
	if c.conn == nil || c.conn.IsClosed() {
		conn, err := amqp091.Dial(dsn)
		if err != nil {
			return fmt.Errorf("amqp dial: %w", err)
		}
		c.conn = conn
	}

	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	c.chConsume = ch

	c.log.Info("rabbitmq consumer connected successfully")

	return nil
}

func (c *Consumer) Init() error {
	if err := c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := c.chConsume.QueueDeclare(
		c.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	for _, rk := range mq.RoutingKeys {
		if err := c.chConsume.QueueBind(
			c.cfg.QueueName,
			rk,
			c.cfg.Exchange,
			false,
			nil,
		); err != nil {
			return fmt.Errorf("queue bind %s: %w", rk, err)
		}
	}

	if err := c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	deliveries, err := c.chConsume.Consume(
		c.cfg.QueueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	c.chDelivery = deliveries

	return nil
}

func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting delivery worker")

	defer func() {
		c.log.Info("delivery worker gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				c.log.Warn("delivery channel closed")
				return
			}
			if err := c.delivery(msg); err != nil {
				c.log.Error("mq read message error", zap.Error(err))
				_ = msg.Nack(false, false)
				continue
			}
			_ = msg.Ack(false)
		case <-ctx.Done():
			c.chConsume.Close()
			return
		}
	}
}

type auditEvent struct {
	ID         string `json:"event_id"`
	Method     string `json:"event_action"`
	OwnerID    string `json:"owner_id"`
	DocumentID string `json:"document_id"`
	Payload    struct {
		Name            string  `json:"name"`
		Status          string  `json:"status"`
		ArchivematicaID *string `json:"archivematica_id"`
	} `json:"document_payload"`
}

// delivery logs one document event. Malformed bodies are rejected without requeue.
func (c *Consumer) delivery(msg amqp091.Delivery) error {
	var action string
	switch msg.RoutingKey {
	case mq.RoutingDocumentCreated:
		action = "DocumentCreated"
	case mq.RoutingDocumentStatusChanged:
		action = "DocumentStatusChanged"
	case mq.RoutingDocumentDeleted:
		action = "DocumentDeleted"
	default:
		return fmt.Errorf("unexpected routing key %q", msg.RoutingKey)
	}

	var e auditEvent
	if err := json.Unmarshal(msg.Body, &e); err != nil {
		return fmt.Errorf("decode %s event: %w", action, err)
	}

	fields := []zap.Field{
		zap.String("action", action),
		zap.String("event_id", e.ID),
		zap.String("document_id", e.DocumentID),
		zap.String("owner_id", e.OwnerID),
		zap.String("name", e.Payload.Name),
		zap.String("status", e.Payload.Status),
	}
	if e.Payload.ArchivematicaID != nil {
		fields = append(fields, zap.String("transfer_id", *e.Payload.ArchivematicaID))
	}
	c.log.Info("document event", fields...)

	return nil
}
