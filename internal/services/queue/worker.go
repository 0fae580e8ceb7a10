package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jktools/mediatools/internal/models"
)

// StartWorker registers a consumer and processes jobs until ctx is done.
func (q *Service) StartWorker(ctx context.Context, workerID int) error {
	msgs, err := q.channel.Consume(
		q.queueName,                        // queue
		fmt.Sprintf("worker-%d", workerID), // consumer
		false,                              // auto-ack
		false,                              // exclusive
		false,                              // no-local
		false,                              // no-wait
		nil,                                // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	q.logger.Info("worker started", zap.Int("worker_id", workerID))

	go func() {
		for {
			select {
			case <-ctx.Done():
				q.logger.Info("worker stopping", zap.Int("worker_id", workerID))
				return
			case msg, ok := <-msgs:
				if !ok {
					q.logger.Warn("consumer channel closed", zap.Int("worker_id", workerID))
					return
				}

				var job models.ConversionJob
				if err := json.Unmarshal(msg.Body, &job); err != nil {
					q.logger.Error("failed to unmarshal job", zap.Error(err))
					msg.Nack(false, false)
					continue
				}

				job.Status = models.StatusProcessing
				if err := q.storage.SetJob(ctx, &job); err != nil {
					q.logger.Warn("failed to store job status", zap.Error(err))
				}

				result, err := q.processJob(ctx, &job)
				if err != nil {
					q.logger.Error("job failed",
						zap.String("job_id", job.ID), zap.Error(err))
					job.Status = models.StatusFailed
					job.Error = err.Error()
					msg.Nack(false, false)
				} else {
					job.Status = models.StatusCompleted
					job.Result = result
					msg.Ack(false)
				}

				if err := q.storage.SetJob(ctx, &job); err != nil {
					q.logger.Warn("failed to store job result", zap.Error(err))
				}
			}
		}
	}()

	return nil
}
