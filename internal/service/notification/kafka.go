package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/notification"
	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafkago.Writer used by KafkaSink.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaConfig holds Kafka sink configuration
type KafkaConfig struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 1 second
	QueueSize     int           // default: 1000
}

// KafkaSink publishes notifications as JSON messages. Notify never blocks
// on the broker: messages are queued and written in batches by a worker.
type KafkaSink struct {
	writer MessageWriter
	config KafkaConfig

	queue  chan kafkago.Message
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewKafkaWriter builds a writer for topic on the given brokers.
func NewKafkaWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaSink(writer MessageWriter, cfg KafkaConfig) *KafkaSink {
	// Set defaults
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = time.Second
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &KafkaSink{
		writer: writer,
		config: cfg,
		queue:  make(chan kafkago.Message, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.worker()

	slog.Info("Kafka notification sink started", "batch_size", cfg.BatchSize, "flush_interval", cfg.FlushInterval)
	return s
}

func (s *KafkaSink) Notify(ctx context.Context, n notification.Notification) {
	payload, err := json.Marshal(toResponse(ctx, n))
	if err != nil {
		slog.Error("Failed to encode notification", "error", err)
		return
	}

	msg := kafkago.Message{
		Key:   []byte(n.EmployeeID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte("attendance.notification")},
			{Key: "severity", Value: []byte(n.Severity)},
		},
	}

	select {
	case s.queue <- msg:
	default:
		slog.Warn("Kafka notification queue full, dropping message", "employee_id", n.EmployeeID)
	}
}

func (s *KafkaSink) worker() {
	defer s.wg.Done()

	batch := make([]kafkago.Message, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.writer.WriteMessages(ctx, batch...); err != nil {
			slog.Error("Failed to publish notifications", "count", len(batch), "error", err)
		} else {
			slog.Debug("Published notifications", "count", len(batch))
		}

		batch = batch[:0]
	}

	for {
		select {
		case msg := <-s.queue:
			batch = append(batch, msg)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			for {
				select {
				case msg := <-s.queue:
					batch = append(batch, msg)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close drains the queue, flushes the last batch and closes the writer.
func (s *KafkaSink) Close() error {
	var err error
	s.once.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		err = s.writer.Close()
	})
	return err
}
