package queue

import (
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/services/converter"
	"github.com/jktools/mediatools/internal/services/resizer"
	"github.com/jktools/mediatools/internal/services/storage"
)

const queueName = "media_conversion"

// Service runs asynchronous conversion jobs over RabbitMQ.
type Service struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	logger    *zap.Logger
	queueName string
	converter *converter.Converter
	resizer   *resizer.Resizer
	storage   *storage.Service
}

func NewService(
	rabbitmqURL string,
	conv *converter.Converter,
	res *resizer.Resizer,
	store *storage.Service,
	logger *zap.Logger,
) (*Service, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Service{
		conn:      conn,
		channel:   channel,
		logger:    logger,
		queueName: queueName,
		converter: conv,
		resizer:   res,
		storage:   store,
	}, nil
}

// Close closes the queue connection.
func (q *Service) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
	return nil
}
