package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
)

var _ ContentEvents = (*Kafka)(nil)

// Kafka publishes content events keyed by content id, so events of one item stay ordered
// within a partition.
type Kafka struct {
	producer *kafka.Producer
	topic    string
	done     chan struct{}
}

func NewKafka(brokers, topic string) (*Kafka, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
	})
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	k := &Kafka{producer: producer, topic: topic, done: make(chan struct{})}
	go k.report()

	return k, nil
}

func (k *Kafka) Publish(ctx context.Context, event ContentEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.ContentID),
		Value:          value,
	}, nil)
}

// report logs delivery failures; Produce is asynchronous.
func (k *Kafka) report() {
	defer close(k.done)
	for e := range k.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				logrus.Errorf("content event delivery failed: %v", ev.TopicPartition.Error)
			}
		case kafka.Error:
			logrus.Errorf("kafka: %v", ev)
		}
	}
}

func (k *Kafka) Close() {
	remaining := k.producer.Flush(5000)
	if remaining > 0 {
		logrus.Warnf("kafka: %d content events not delivered before close", remaining)
	}
	k.producer.Close()
	<-k.done
}
