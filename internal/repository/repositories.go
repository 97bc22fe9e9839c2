package repository

import (
	"github.com/deppfellow/foodreggie/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Food FoodRepository
}

// NewRepositories builds the repositories for whichever database s opened.
// When Redis is available the food list is cached in front of it.
func NewRepositories(s *server.Server) *Repositories {
	var food FoodRepository
	if s.DB.Pool != nil {
		food = NewFoodPostgresRepository(s.DB.Pool)
	} else {
		food = NewFoodSQLiteRepository(s.DB.SQLite)
	}

	if s.Redis != nil {
		food = NewFoodCacheRepository(food, s.Redis, s.Config.Redis.CacheTTL)
	}

	return &Repositories{Food: food}
}
