package service

import (
	"context"

	"github.com/deppfellow/foodreggie/internal/lib/job"
	"github.com/deppfellow/foodreggie/internal/model"
	"github.com/deppfellow/foodreggie/internal/repository"
	"github.com/rs/zerolog"
)

// ChangeQueue accepts catalog change notifications for background delivery.
type ChangeQueue interface {
	EnqueueFoodChanged(ctx context.Context, payload job.FoodChangedPayload) error
}

// FoodService fronts the food repository and announces successful writes.
// It satisfies repository.FoodRepository so the handler can depend on
// either.
type FoodService struct {
	repo  repository.FoodRepository
	queue ChangeQueue
}

var _ repository.FoodRepository = (*FoodService)(nil)

// NewFoodService wraps repo. queue may be nil, in which case no
// notifications are sent.
func NewFoodService(repo repository.FoodRepository, queue ChangeQueue) *FoodService {
	return &FoodService{repo: repo, queue: queue}
}

func (s *FoodService) GetAll(ctx context.Context) ([]model.Food, error) {
	return s.repo.GetAll(ctx)
}

func (s *FoodService) GetFoodByID(ctx context.Context, id int) (*model.Food, error) {
	return s.repo.GetFoodByID(ctx, id)
}

func (s *FoodService) Create(ctx context.Context, food *model.Food) bool {
	if !s.repo.Create(ctx, food) {
		return false
	}
	s.notify(ctx, job.ActionCreated, food.ID, food.Name)
	return true
}

func (s *FoodService) Update(ctx context.Context, food *model.Food) bool {
	if !s.repo.Update(ctx, food) {
		return false
	}
	s.notify(ctx, job.ActionUpdated, food.ID, food.Name)
	return true
}

// Delete looks the food up first so the notification can carry its name.
// A failed lookup does not prevent the delete.
func (s *FoodService) Delete(ctx context.Context, id int) bool {
	var name string
	if s.queue != nil {
		if food, err := s.repo.GetFoodByID(ctx, id); err == nil {
			name = food.Name
		}
	}

	if !s.repo.Delete(ctx, id) {
		return false
	}
	s.notify(ctx, job.ActionDeleted, id, name)
	return true
}

// notify enqueues a change notification. Failures are logged only; the
// write has already succeeded.
func (s *FoodService) notify(ctx context.Context, action string, id int, name string) {
	if s.queue == nil {
		return
	}

	payload := job.FoodChangedPayload{Action: action, FoodID: id, Name: name}
	if err := s.queue.EnqueueFoodChanged(ctx, payload); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("action", action).
			Int("food_id", id).
			Msg("failed to enqueue food change notification")
	}
}
