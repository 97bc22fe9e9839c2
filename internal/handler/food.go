package handler

import (
	"errors"

	"github.com/deppfellow/foodreggie/internal/errs"
	"github.com/deppfellow/foodreggie/internal/metrics"
	"github.com/deppfellow/foodreggie/internal/middleware"
	"github.com/deppfellow/foodreggie/internal/model"
	"github.com/deppfellow/foodreggie/internal/repository"
	"github.com/deppfellow/foodreggie/internal/server"
	"github.com/labstack/echo/v4"
)

// Action and view names. Action names double as echo route names so a
// RedirectToActionResult can be resolved with Echo.Reverse.
const (
	ActionTable         = "Table"
	ActionCreateForm    = "CreateForm"
	ActionCreate        = "Create"
	ActionUpdateForm    = "UpdateForm"
	ActionUpdate        = "Update"
	ActionDelete        = "Delete"
	ActionConfirmDelete = "ConfirmDelete"

	ViewTable  = "Table"
	ViewCreate = "Create"
	ViewUpdate = "Update"
	ViewDelete = "Delete"
)

const foodNotFoundMessage = "Food not found for the FoodId"

// FoodHandler is the food catalog controller. Every action makes one
// repository call and branches on its result.
type FoodHandler struct {
	Handler
	foods repository.FoodRepository
}

func NewFoodHandler(s *server.Server, foods repository.FoodRepository) *FoodHandler {
	return &FoodHandler{
		Handler: NewHandler(s),
		foods:   foods,
	}
}

func (h *FoodHandler) record(action, outcome string) {
	h.server.Metrics.RecordAction(action, outcome)
}

// Table lists every food.
func (h *FoodHandler) Table(c echo.Context, _ *EmptyRequest) (ActionResult, error) {
	foods, err := h.foods.GetAll(c.Request().Context())
	if err != nil {
		middleware.GetLogger(c).Error().Err(err).Msg("failed to load food list")
		h.record(ActionTable, metrics.OutcomeNotFound)
		return nil, errs.NewNotFoundError("Food list not found", false, nil)
	}

	h.record(ActionTable, metrics.OutcomeView)
	return ViewResult{ViewName: ViewTable, Model: model.NewFoodViewModel(foods, ViewTable)}, nil
}

// CreateForm shows an empty create form.
func (h *FoodHandler) CreateForm(c echo.Context, _ *EmptyRequest) (ActionResult, error) {
	h.record(ActionCreateForm, metrics.OutcomeView)
	return ViewResult{ViewName: ViewCreate, Model: &model.Food{}}, nil
}

// Create stores the submitted food and goes back to the table, or shows
// the form again with the submitted values when the store refuses it.
func (h *FoodHandler) Create(c echo.Context, food *model.Food) (ActionResult, error) {
	if h.foods.Create(c.Request().Context(), food) {
		h.record(ActionCreate, metrics.OutcomeRedirect)
		return RedirectToActionResult{ActionName: ActionTable}, nil
	}

	h.record(ActionCreate, metrics.OutcomeFailure)
	return ViewResult{ViewName: ViewCreate, Model: food}, nil
}

// InvalidCreate shows the create form with the submitted values and errors.
func (h *FoodHandler) InvalidCreate(_ echo.Context, food *model.Food, fieldErrors []errs.FieldError) ActionResult {
	return ViewResult{ViewName: ViewCreate, Model: food, Errors: fieldErrors}
}

// UpdateForm shows the update form for an existing food.
func (h *FoodHandler) UpdateForm(c echo.Context, req *IDRequest) (ActionResult, error) {
	food, err := h.lookup(c, ActionUpdateForm, req.ID)
	if err != nil {
		if errors.Is(err, repository.ErrFoodNotFound) {
			return nil, errs.NewNotFoundError(foodNotFoundMessage, false, nil)
		}
		return nil, err
	}

	h.record(ActionUpdateForm, metrics.OutcomeView)
	return ViewResult{ViewName: ViewUpdate, Model: food}, nil
}

// Update stores the submitted food and goes back to the table, or shows
// the form again with the submitted values when the store refuses it.
func (h *FoodHandler) Update(c echo.Context, food *model.Food) (ActionResult, error) {
	if h.foods.Update(c.Request().Context(), food) {
		h.record(ActionUpdate, metrics.OutcomeRedirect)
		return RedirectToActionResult{ActionName: ActionTable}, nil
	}

	h.record(ActionUpdate, metrics.OutcomeFailure)
	return ViewResult{ViewName: ViewUpdate, Model: food}, nil
}

// InvalidUpdate shows the update form with the submitted values and errors.
func (h *FoodHandler) InvalidUpdate(_ echo.Context, food *model.Food, fieldErrors []errs.FieldError) ActionResult {
	return ViewResult{ViewName: ViewUpdate, Model: food, Errors: fieldErrors}
}

// Delete shows the delete confirmation for an existing food.
func (h *FoodHandler) Delete(c echo.Context, req *IDRequest) (ActionResult, error) {
	food, err := h.lookup(c, ActionDelete, req.ID)
	if err != nil {
		if errors.Is(err, repository.ErrFoodNotFound) {
			return nil, errs.NewBadRequestError(foodNotFoundMessage, false, nil, nil, nil)
		}
		return nil, err
	}

	h.record(ActionDelete, metrics.OutcomeView)
	return ViewResult{ViewName: ViewDelete, Model: food}, nil
}

// ConfirmDelete removes the food and always goes back to the table. A
// failed delete is only logged.
func (h *FoodHandler) ConfirmDelete(c echo.Context, req *IDRequest) (ActionResult, error) {
	if h.foods.Delete(c.Request().Context(), req.ID) {
		h.record(ActionConfirmDelete, metrics.OutcomeRedirect)
		return RedirectToActionResult{ActionName: ActionTable}, nil
	}

	middleware.GetLogger(c).Warn().Int("food_id", req.ID).Msg("food was not deleted")
	h.record(ActionConfirmDelete, metrics.OutcomeFailure)
	return RedirectToActionResult{ActionName: ActionTable}, nil
}

func (h *FoodHandler) lookup(c echo.Context, action string, id int) (*model.Food, error) {
	food, err := h.foods.GetFoodByID(c.Request().Context(), id)
	if err == nil {
		return food, nil
	}

	if errors.Is(err, repository.ErrFoodNotFound) {
		h.record(action, metrics.OutcomeNotFound)
	} else {
		h.record(action, metrics.OutcomeFailure)
	}
	return nil, err
}
