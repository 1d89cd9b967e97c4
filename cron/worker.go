package cron

import (
	"context"
	"encoding/json"
	"time"

	"aitana/config"
	recordsRepo "aitana/database/repository/records"
	"aitana/models"
	"aitana/services/chat"
	"aitana/services/relay"
	"aitana/services/tasks"
	"aitana/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt returns the connection options for the handoff queue. The
// queue lives in its own logical DB, separate from the session store.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitHandoffWorker runs the async worker in background. A relay failure
// fails the task, so asynq retries it with backoff instead of the summary
// being dropped.
func InitHandoffWorker(relaySvc relay.Relay, records recordsRepo.RecordRepository) {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeHandoffDispatch, handleHandoffTask(relaySvc, records))

	go func() {
		logger := utils.GetLogger()
		logger.Info("Starting handoff queue worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("Handoff worker failed to start",
					zap.Int("attempt", attempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Fatal("Handoff worker exhausted start attempts")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleHandoffTask(relaySvc relay.Relay, records recordsRepo.RecordRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.HandoffPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid handoff task payload", zap.Error(err))
			return err
		}

		summary, err := chat.FormatSummary(p.Memory)
		if err != nil {
			logger.Error("Cannot render queued booking summary",
				zap.String("token", p.Token), zap.Error(err))
			return err
		}

		if err := relaySvc.Send(ctx, summary); err != nil {
			logger.Error("Queued relay send failed, task will retry",
				zap.String("token", p.Token), zap.Error(err))
			return err
		}
		logger.Info("Booking summary relayed from queue", zap.String("token", p.Token))

		if records != nil {
			m, err := chat.DecodeMemory(p.Memory)
			if err != nil {
				return nil
			}
			record := models.HandoffRecord{
				SessionToken: p.Token,
				Name:         m.Name,
				Email:        m.Email,
				Phone:        m.Phone,
				Location:     m.Location,
				Artist:       m.Artist,
				PriceRange:   m.PriceRange,
				Description:  m.Description,
				Date:         m.Date,
			}
			if _, err := records.Create(ctx, record); err != nil {
				logger.Error("Failed to archive queued handoff record", zap.Error(err))
			}
		}
		return nil
	}
}
