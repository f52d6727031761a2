package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Shopify/sarama"
	"github.com/streadway/amqp"

	"food-ordering/api/config"
	"food-ordering/api/models"
	"food-ordering/api/service"
)

// Publisher fans order lifecycle events out to Kafka (audit log) and pushes
// ready-order ids onto a durable RabbitMQ queue for external notifiers.
// Everything here is best-effort; a broker outage never blocks an order.
type Publisher struct {
	kafka      sarama.SyncProducer
	rabbitmq   *amqp.Connection
	topic      string
	readyQueue string
}

var _ service.EventPublisher = (*Publisher)(nil)

func NewPublisher(cfg *config.Config) (*Publisher, error) {
	kafkaConfig := sarama.NewConfig()
	kafkaConfig.Producer.Return.Successes = true
	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, kafkaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %v", err)
	}

	var rabbitmqConn *amqp.Connection
	for i := 0; i < 5; i++ {
		log.Printf("Attempting to connect to RabbitMQ (attempt %d/5)...", i+1)
		rabbitmqConn, err = amqp.Dial(cfg.RabbitMQ.URL)
		if err == nil {
			break
		}
		if i < 4 {
			log.Printf("Failed to connect to RabbitMQ: %v. Retrying in 5 seconds...", err)
			time.Sleep(5 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ after 5 attempts: %v", err)
	}

	return &Publisher{
		kafka:      producer,
		rabbitmq:   rabbitmqConn,
		topic:      cfg.Kafka.Topic,
		readyQueue: cfg.RabbitMQ.ReadyQueue,
	}, nil
}

func (p *Publisher) Close() {
	if p.kafka != nil {
		_ = p.kafka.Close()
	}
	if p.rabbitmq != nil {
		_ = p.rabbitmq.Close()
	}
}

func (p *Publisher) OrderEvent(event string, orderID, actorID string, status models.OrderStatus) {
	data, err := json.Marshal(map[string]interface{}{
		"event":     event,
		"order_id":  orderID,
		"actor_id":  actorID,
		"status":    status,
		"timestamp": time.Now().Unix(),
	})
	if err != nil {
		log.Printf("Failed to encode order event: %v", err)
		return
	}

	_, _, err = p.kafka.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Value: sarama.StringEncoder(data),
	})
	if err != nil {
		log.Printf("Failed to log order event: %v", err)
	}
}

// OrderReady pushes the order id onto the ready queue so courier-facing
// notifier services can pick it up.
func (p *Publisher) OrderReady(orderID string) {
	ch, err := p.rabbitmq.Channel()
	if err != nil {
		log.Printf("Failed to open RabbitMQ channel: %v", err)
		return
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(p.readyQueue, true, false, false, false, nil); err != nil {
		log.Printf("Failed to declare ready queue: %v", err)
		return
	}

	err = ch.Publish(
		"",           // exchange
		p.readyQueue, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType: "text/plain",
			Body:        []byte(orderID),
		},
	)
	if err != nil {
		log.Printf("Failed to publish ready order: %v", err)
	}
}

// Nop discards all events; used by tests.
type Nop struct{}

var _ service.EventPublisher = Nop{}

func (Nop) OrderEvent(event string, orderID, actorID string, status models.OrderStatus) {}
func (Nop) OrderReady(orderID string)                                                  {}
