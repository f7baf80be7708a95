package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mahirjain10/pixelmancer/internal/types"
	"github.com/mahirjain10/pixelmancer/internal/utils"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Publisher is the part of *amqp.Channel the service needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMqService struct {
	rabbitMqConn *amqp.Connection
	channel      *amqp.Channel
	publisher    Publisher
	exchange     string
	routingKey   string
}

// NewRabbitMqService opens a channel on conn and declares the exchange that
// resize events are published to.
func NewRabbitMqService(conn *amqp.Connection, exchange string, routingKey string) (*RabbitMqService, error) {
	ch, err := NewChannel(conn)
	if err != nil {
		return nil, err
	}
	if err := DeclareExchange(ch, exchange); err != nil {
		ch.Close()
		return nil, err
	}
	log.Printf("[notify] exchange %s declared", exchange)

	service := NewPublisherService(ch, exchange, routingKey)
	service.rabbitMqConn = conn
	service.channel = ch
	return service, nil
}

// NewPublisherService wraps an already prepared publisher.
func NewPublisherService(publisher Publisher, exchange string, routingKey string) *RabbitMqService {
	return &RabbitMqService{
		publisher:  publisher,
		exchange:   exchange,
		routingKey: routingKey,
	}
}

func (rabbitMqService *RabbitMqService) PublishResized(ctx context.Context, data types.ResizedData) error {
	message := types.ResizedMessage{Pattern: types.RESIZED, Data: data}
	return rabbitMqService.PublishToChannel(ctx, message)
}

func (rabbitMqService *RabbitMqService) PublishToChannel(ctx context.Context, message any) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	serializedMessage, err := utils.SerializeJSON(message)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}

	err = rabbitMqService.publisher.PublishWithContext(ctx,
		rabbitMqService.exchange,
		rabbitMqService.routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         serializedMessage,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (rabbitMqService *RabbitMqService) Close() {
	if rabbitMqService.channel != nil {
		if err := rabbitMqService.channel.Close(); err != nil {
			log.Printf("Error closing channel: %v", err)
		}
	}
	if rabbitMqService.rabbitMqConn != nil {
		if err := rabbitMqService.rabbitMqConn.Close(); err != nil {
			log.Printf("Error closing RabbitMQ connection: %v", err)
		}
	}
}
