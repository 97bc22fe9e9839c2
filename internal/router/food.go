package router

import (
	"github.com/deppfellow/foodreggie/internal/handler"
	"github.com/deppfellow/foodreggie/internal/model"
	"github.com/labstack/echo/v4"
)

// registerFoodRoutes mounts the food controller under /food. Each route is
// named after its action so redirects resolve through Echo.Reverse.
func registerFoodRoutes(r *echo.Echo, h *handler.Handlers) {
	foods := h.Food
	base := foods.Handler

	newEmpty := func() *handler.EmptyRequest { return &handler.EmptyRequest{} }
	newID := func() *handler.IDRequest { return &handler.IDRequest{} }
	newFood := func() *model.Food { return &model.Food{} }

	g := r.Group("/food")

	g.GET("/table", handler.Action(base, handler.ActionTable, newEmpty, foods.Table)).
		Name = handler.ActionTable

	g.GET("/create", handler.Action(base, handler.ActionCreateForm, newEmpty, foods.CreateForm)).
		Name = handler.ActionCreateForm
	g.POST("/create", handler.FormAction(base, handler.ActionCreate, newFood, foods.Create, foods.InvalidCreate)).
		Name = handler.ActionCreate

	g.GET("/update/:id", handler.Action(base, handler.ActionUpdateForm, newID, foods.UpdateForm)).
		Name = handler.ActionUpdateForm
	g.POST("/update", handler.FormAction(base, handler.ActionUpdate, newFood, foods.Update, foods.InvalidUpdate)).
		Name = handler.ActionUpdate

	g.GET("/delete/:id", handler.Action(base, handler.ActionDelete, newID, foods.Delete)).
		Name = handler.ActionDelete
	g.POST("/delete/:id", handler.Action(base, handler.ActionConfirmDelete, newID, foods.ConfirmDelete)).
		Name = handler.ActionConfirmDelete
}
