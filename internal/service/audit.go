package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartlib/library-service/internal/model"
	"github.com/smartlib/library-service/internal/repository"
	"github.com/smartlib/library-service/pkg/kafka"
)

// Sink accepts audit entries. Appends are best-effort: the workflow
// never fails a committed transition because the sink did.
type Sink interface {
	Append(ctx context.Context, entry model.AuditEntry) error
}

// StoreSink writes entries straight to the system_logs table.
type StoreSink struct {
	store repository.AuditStore
}

func NewStoreSink(store repository.AuditStore) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Append(ctx context.Context, entry model.AuditEntry) error {
	return s.store.AppendAudit(ctx, entry)
}

// KafkaSink publishes entries to the audit topic; a consumer group
// persists them downstream.
type KafkaSink struct {
	producer sarama.SyncProducer
}

func NewKafkaSink(producer sarama.SyncProducer) *KafkaSink {
	return &KafkaSink{producer: producer}
}

func (s *KafkaSink) Append(_ context.Context, entry model.AuditEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: kafka.AuditTopic, Value: sarama.StringEncoder(data)}
	if _, _, err = s.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}

// auditor is the fire-and-forget wrapper the services emit through.
type auditor struct {
	sink Sink
	log  *zap.Logger
}

func (a auditor) emit(ctx context.Context, userID *uuid.UUID, action, details string) {
	entry := model.AuditEntry{
		UserID:    userID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
	if err := a.sink.Append(ctx, entry); err != nil {
		a.log.Warn("audit append failed",
			zap.String("action", action),
			zap.Error(err))
	}
}
