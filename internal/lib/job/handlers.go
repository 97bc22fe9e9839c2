package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/foodreggie/internal/config"
	"github.com/deppfellow/foodreggie/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// foodNotifier delivers catalog change notifications.
type foodNotifier interface {
	SendFoodChangedEmail(to, action string, foodID int, foodName string) error
}

// InitHandlers builds the dependencies the task handlers need.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.notifier = email.NewClient(cfg, logger)
}

func (j *JobService) handleFoodChangedTask(ctx context.Context, t *asynq.Task) error {
	var p FoodChangedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// Malformed payloads never succeed, so skip retries.
		return fmt.Errorf("failed to unmarshal food changed payload: %v: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", TaskFoodChanged).
		Str("action", p.Action).
		Int("food_id", p.FoodID).
		Logger()

	log.Info().Msg("Processing food changed task")

	if err := j.notifier.SendFoodChangedEmail(j.notifyEmail, p.Action, p.FoodID, p.Name); err != nil {
		log.Error().Err(err).Msg("Failed to send food changed email")
		return err
	}

	log.Info().Msg("Successfully sent food changed email")
	return nil
}
