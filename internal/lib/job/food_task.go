package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskFoodChanged is the job type name stored in Redis.
	TaskFoodChanged = "food:changed"
)

// Actions carried by a FoodChangedPayload.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// FoodChangedPayload describes one successful catalog write.
type FoodChangedPayload struct {
	Action string `json:"action"`
	FoodID int    `json:"food_id"`
	Name   string `json:"name"`
}

// NewFoodChangedTask serializes payload into a low priority task that is
// retried up to 3 times.
func NewFoodChangedTask(payload FoodChangedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskFoodChanged,
		data,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}
