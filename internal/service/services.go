package service

import (
	"github.com/deppfellow/foodreggie/internal/lib/job"
	"github.com/deppfellow/foodreggie/internal/repository"
	"github.com/deppfellow/foodreggie/internal/server"
)

type Services struct {
	Food *FoodService
	Job  *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var queue ChangeQueue
	if s.Job != nil {
		queue = s.Job
	}

	return &Services{
		Food: NewFoodService(repos.Food, queue),
		Job:  s.Job,
	}, nil
}
