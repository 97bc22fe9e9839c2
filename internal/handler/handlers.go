package handler

import (
	"github.com/deppfellow/foodreggie/internal/server"
	"github.com/deppfellow/foodreggie/internal/service"
)

// Handlers groups all HTTP handlers so router setup passes one value around.
type Handlers struct {
	Food    *FoodHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Metrics *MetricsHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Food:    NewFoodHandler(s, services.Food),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Metrics: NewMetricsHandler(s),
	}
}
