package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/deppfellow/foodreggie/internal/config"
	"github.com/deppfellow/foodreggie/internal/errs"
	"github.com/deppfellow/foodreggie/internal/metrics"
	"github.com/deppfellow/foodreggie/internal/model"
	"github.com/deppfellow/foodreggie/internal/repository"
	"github.com/deppfellow/foodreggie/internal/repository/mocks"
	"github.com/deppfellow/foodreggie/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger:  &logger,
		Metrics: metrics.New(),
	}
}

func testFoods() []model.Food {
	return []model.Food{
		{ID: 1, Name: "Apple", FoodGroup: "Fruit", Calories: 52, Protein: 0.3, Carbohydrates: 14, Fats: 0.2, ImageURL: "apple.png"},
		{ID: 2, Name: "Rice", FoodGroup: "Grain", Calories: 130, Protein: 2.7, Carbohydrates: 28, Fats: 0.3, ImageURL: "rice.png"},
	}
}

func newController(t *testing.T) (*FoodHandler, *mocks.FoodRepository) {
	t.Helper()
	repo := &mocks.FoodRepository{}
	t.Cleanup(func() { repo.AssertExpectations(t) })
	return NewFoodHandler(testServer(), repo), repo
}

func newContext() echo.Context {
	return echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
}

func TestTableReturnsAllFoods(t *testing.T) {
	h, repo := newController(t)
	repo.On("GetAll", mock.Anything).Return(testFoods(), nil)

	result, err := h.Table(newContext(), &EmptyRequest{})
	require.NoError(t, err)

	view, ok := result.(ViewResult)
	require.True(t, ok)
	assert.Equal(t, ViewTable, view.ViewName)

	vm, ok := view.Model.(model.FoodViewModel)
	require.True(t, ok)
	assert.Len(t, vm.Foods, 2)
	assert.Equal(t, testFoods(), vm.Foods)
	assert.Equal(t, ViewTable, vm.CurrentViewName)
}

func TestTableWithEmptyRepository(t *testing.T) {
	h, repo := newController(t)
	repo.On("GetAll", mock.Anything).Return([]model.Food{}, nil)

	result, err := h.Table(newContext(), &EmptyRequest{})
	require.NoError(t, err)

	vm := result.(ViewResult).Model.(model.FoodViewModel)
	assert.NotNil(t, vm.Foods)
	assert.Empty(t, vm.Foods)
}

func TestTableReadFailure(t *testing.T) {
	h, repo := newController(t)
	repo.On("GetAll", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := h.Table(newContext(), &EmptyRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Food list not found", httpErr.Message)
}

func TestCreateRedirectsToTableOnSuccess(t *testing.T) {
	h, repo := newController(t)
	food := &testFoods()[0]
	repo.On("Create", mock.Anything, food).Return(true)

	result, err := h.Create(newContext(), food)
	require.NoError(t, err)

	assert.Equal(t, RedirectToActionResult{ActionName: ActionTable}, result)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.server.Metrics.FoodActions.WithLabelValues(ActionCreate, metrics.OutcomeRedirect)))
}

func TestCreateReturnsSubmittedFoodOnFailure(t *testing.T) {
	h, repo := newController(t)
	food := &testFoods()[0]
	repo.On("Create", mock.Anything, food).Return(false)

	result, err := h.Create(newContext(), food)
	require.NoError(t, err)

	view, ok := result.(ViewResult)
	require.True(t, ok)
	assert.Equal(t, ViewCreate, view.ViewName)
	assert.Same(t, food, view.Model)
}

func TestUpdateRedirectsToTableOnSuccess(t *testing.T) {
	h, repo := newController(t)
	food := &testFoods()[1]
	repo.On("Update", mock.Anything, food).Return(true)

	result, err := h.Update(newContext(), food)
	require.NoError(t, err)
	assert.Equal(t, RedirectToActionResult{ActionName: ActionTable}, result)
}

func TestUpdateReturnsSubmittedFoodOnFailure(t *testing.T) {
	h, repo := newController(t)
	food := &testFoods()[1]
	repo.On("Update", mock.Anything, food).Return(false)

	result, err := h.Update(newContext(), food)
	require.NoError(t, err)

	view := result.(ViewResult)
	assert.Equal(t, ViewUpdate, view.ViewName)
	assert.Same(t, food, view.Model)
}

func TestConfirmDeleteAlwaysRedirectsToTable(t *testing.T) {
	cases := []struct {
		deleted bool
		outcome string
	}{
		{true, metrics.OutcomeRedirect},
		{false, metrics.OutcomeFailure},
	}

	for _, tc := range cases {
		h, repo := newController(t)
		repo.On("Delete", mock.Anything, 1).Return(tc.deleted)

		result, err := h.ConfirmDelete(newContext(), &IDRequest{ID: 1})
		require.NoError(t, err)
		assert.Equal(t, RedirectToActionResult{ActionName: ActionTable}, result, "deleted=%v", tc.deleted)

		actions := h.server.Metrics.FoodActions
		assert.Equal(t, 1.0, testutil.ToFloat64(actions.WithLabelValues(ActionConfirmDelete, tc.outcome)), "deleted=%v", tc.deleted)
		assert.Equal(t, 1, testutil.CollectAndCount(actions), "deleted=%v", tc.deleted)
	}
}

func TestCreateFormIsEmpty(t *testing.T) {
	h, _ := newController(t)

	result, err := h.CreateForm(newContext(), &EmptyRequest{})
	require.NoError(t, err)
	assert.Equal(t, ViewResult{ViewName: ViewCreate, Model: &model.Food{}}, result)
}

func TestUpdateFormAndDeleteLookups(t *testing.T) {
	h, repo := newController(t)
	apple := &testFoods()[0]
	repo.On("GetFoodByID", mock.Anything, 1).Return(apple, nil)
	repo.On("GetFoodByID", mock.Anything, 404).Return(nil, repository.ErrFoodNotFound)
	repo.On("GetFoodByID", mock.Anything, 500).Return(nil, errors.New("db down"))

	result, err := h.UpdateForm(newContext(), &IDRequest{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, ViewResult{ViewName: ViewUpdate, Model: apple}, result)

	result, err = h.Delete(newContext(), &IDRequest{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, ViewResult{ViewName: ViewDelete, Model: apple}, result)

	var httpErr *errs.HTTPError

	_, err = h.UpdateForm(newContext(), &IDRequest{ID: 404})
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Food not found for the FoodId", httpErr.Message)

	_, err = h.Delete(newContext(), &IDRequest{ID: 404})
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Food not found for the FoodId", httpErr.Message)

	_, err = h.UpdateForm(newContext(), &IDRequest{ID: 500})
	assert.EqualError(t, err, "db down")
}

// routedEcho registers the controller under named routes, the way the
// router does, so redirects can be resolved.
func routedEcho(h *FoodHandler) *echo.Echo {
	e := echo.New()
	newEmpty := func() *EmptyRequest { return &EmptyRequest{} }
	newFood := func() *model.Food { return &model.Food{} }

	e.GET("/food/table", Action(h.Handler, ActionTable, newEmpty, h.Table)).Name = ActionTable
	e.POST("/food/create", FormAction(h.Handler, ActionCreate, newFood, h.Create, h.InvalidCreate)).Name = ActionCreate
	e.POST("/food/update", FormAction(h.Handler, ActionUpdate, newFood, h.Update, h.InvalidUpdate)).Name = ActionUpdate
	return e
}

func postForm(e *echo.Echo, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateActionBindsFormAndRedirects(t *testing.T) {
	h, repo := newController(t)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(f *model.Food) bool {
		return f.Name == "Kale" && f.FoodGroup == "Vegetable" && f.Calories == 49
	})).Return(true)

	rec := postForm(routedEcho(h), "/food/create", url.Values{
		"name":       {"Kale"},
		"food_group": {"Vegetable"},
		"calories":   {"49"},
	})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/food/table", rec.Header().Get(echo.HeaderLocation))
}

func TestInvalidSubmissionRerendersFormWithoutRepository(t *testing.T) {
	h, repo := newController(t)

	rec := postForm(routedEcho(h), "/food/update", url.Values{
		"food_id":  {"3"},
		"name":     {""},
		"calories": {"-5"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		View   string            `json:"view"`
		Model  model.Food        `json:"model"`
		Errors []errs.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, ViewUpdate, body.View)
	assert.Equal(t, 3, body.Model.ID)

	fields := map[string]string{}
	for _, fe := range body.Errors {
		fields[fe.Field] = fe.Error
	}
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "is required", fields["food_group"])
	assert.Equal(t, "must be greater than or equal to 0", fields["calories"])

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.server.Metrics.FoodActions.WithLabelValues(ActionUpdate, metrics.OutcomeInvalid)))
}

func TestUnparseableFormValueRerendersForm(t *testing.T) {
	h, repo := newController(t)

	rec := postForm(routedEcho(h), "/food/create", url.Values{
		"name":       {"Kale"},
		"food_group": {"Vegetable"},
		"calories":   {"abc"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "strconv")

	var body struct {
		View   string            `json:"view"`
		Model  model.Food        `json:"model"`
		Errors []errs.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, ViewCreate, body.View)
	assert.Equal(t, "Kale", body.Model.Name)
	assert.Equal(t, "Vegetable", body.Model.FoodGroup)
	assert.Equal(t, []errs.FieldError{{Field: "calories", Error: "must be a number"}}, body.Errors)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTableActionWritesViewEnvelope(t *testing.T) {
	h, repo := newController(t)
	repo.On("GetAll", mock.Anything).Return(testFoods(), nil)

	rec := httptest.NewRecorder()
	routedEcho(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/food/table", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		View  string              `json:"view"`
		Model model.FoodViewModel `json:"model"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ViewTable, body.View)
	assert.Equal(t, testFoods(), body.Model.Foods)
}

func TestRedirectToUnknownActionFails(t *testing.T) {
	c := newContext()
	assert.Error(t, writeResult(c, RedirectToActionResult{ActionName: "Nowhere"}))
}
