package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"tripcraft/internal/model"
	"tripcraft/internal/repository"
)

// TranscriptPersistWorker drains the transcript queue into the chat_messages
// table so chat requests never block on the database.
type TranscriptPersistWorker struct {
	conn      *amqp.Connection
	repo      *repository.ChatMessageRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewTranscriptPersistWorker(conn *amqp.Connection, repo *repository.ChatMessageRepository, queueName string) *TranscriptPersistWorker {
	return &TranscriptPersistWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *TranscriptPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume worker queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case delivery, ok := <-deliveries:
				if !ok {
					return
				}
				w.handle(delivery)
			}
		}
	}()

	return nil
}

func (w *TranscriptPersistWorker) handle(delivery amqp.Delivery) {
	var msg model.ChatMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		log.Printf("decode transcript payload failed: %v", err)
		_ = delivery.Nack(false, false)
		return
	}

	if err := w.repo.Create(&msg); err != nil {
		log.Printf("persist transcript message failed: %v", err)
		_ = delivery.Nack(false, true)
		return
	}
	_ = delivery.Ack(false)
}

func (w *TranscriptPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
