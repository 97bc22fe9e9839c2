package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/foodreggie/internal/errs"
	"github.com/deppfellow/foodreggie/internal/metrics"
	"github.com/deppfellow/foodreggie/internal/middleware"
	"github.com/deppfellow/foodreggie/internal/server"
	"github.com/deppfellow/foodreggie/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler is the base handler type that holds shared application dependencies.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// ActionResult is what a controller action produces: either a view to
// render or another action to redirect to.
type ActionResult interface {
	actionResult()
}

// ViewResult renders ViewName with Model. Errors holds field errors of a
// rejected form submission.
type ViewResult struct {
	ViewName string
	Model    any
	Errors   []errs.FieldError
}

// RedirectToActionResult redirects the client to the route named ActionName.
type RedirectToActionResult struct {
	ActionName string
}

func (ViewResult) actionResult()             {}
func (RedirectToActionResult) actionResult() {}

// viewEnvelope is the JSON body a ViewResult is written as.
type viewEnvelope struct {
	View   string            `json:"view"`
	Model  any               `json:"model"`
	Errors []errs.FieldError `json:"errors"`
}

// EmptyRequest is the payload of actions that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error { return nil }

// IDRequest carries the :id path parameter.
type IDRequest struct {
	ID int `param:"id" validate:"required,gt=0"`
}

func (r *IDRequest) Validate() error { return validation.Struct(r) }

// ActionFunc is a controller action over a bound and validated payload.
type ActionFunc[Req validation.Validatable] func(c echo.Context, req Req) (ActionResult, error)

// InvalidFunc builds the result shown when the bound payload fails
// validation, typically the submitted form with its field errors.
type InvalidFunc[Req validation.Validatable] func(c echo.Context, req Req, fieldErrors []errs.FieldError) ActionResult

// handleAction is the shared execution pipeline for every controller action.
//
// It centralizes:
//   - request binding + validation, with a fresh payload per request
//   - structured logging (with request context)
//   - New Relic tracing attributes and error reporting
//   - timing (validation duration, action duration, total duration)
//   - writing the ActionResult
//
// When validation fails with field errors and onInvalid is set, the action
// is skipped and onInvalid's result is written instead.
func handleAction[Req validation.Validatable](
	c echo.Context,
	h Handler,
	name string,
	newReq func() Req,
	action ActionFunc[Req],
	onInvalid InvalidFunc[Req],
) error {
	start := time.Now()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", name)
		txn.AddAttribute("handler.route", c.Path())
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", "action").
		Str("action", name).
		Str("route", c.Path()).
		Logger()

	logger.Info().Msg("handling request")

	// ---------------- Validation phase ---------------------------------------
	req := newReq()
	validationStart := time.Now()

	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		h.server.Metrics.RecordAction(name, metrics.OutcomeInvalid)

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		var httpErr *errs.HTTPError
		if onInvalid != nil && errors.As(err, &httpErr) && len(httpErr.Errors) > 0 {
			return writeResult(c, onInvalid(c, req, httpErr.Errors))
		}
		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	// ---------------- Action execution phase ---------------------------------
	actionStart := time.Now()
	result, err := action(c, req)
	actionDuration := time.Since(actionStart)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("action_duration", actionDuration).
			Dur("total_duration", time.Since(start)).
			Msg("action failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", actionDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", actionDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
	}

	logger.Info().
		Dur("validation_duration", validationDuration).
		Dur("action_duration", actionDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed successfully")

	return writeResult(c, result)
}

// writeResult writes a ViewResult as a JSON envelope (400 when it carries
// field errors) and a RedirectToActionResult as a 302 to the named route.
func writeResult(c echo.Context, result ActionResult) error {
	switch r := result.(type) {
	case ViewResult:
		status := http.StatusOK
		if len(r.Errors) > 0 {
			status = http.StatusBadRequest
		}
		return c.JSON(status, viewEnvelope{View: r.ViewName, Model: r.Model, Errors: r.Errors})

	case RedirectToActionResult:
		target := c.Echo().Reverse(r.ActionName)
		if target == "" {
			return fmt.Errorf("no route named %q to redirect to", r.ActionName)
		}
		return c.Redirect(http.StatusFound, target)

	default:
		return fmt.Errorf("unsupported action result %T", result)
	}
}

// Action wraps a controller action into an echo.HandlerFunc.
//
//	router.GET("/food/table", handler.Action(h, "Table", newEmpty, foodHandler.Table))
func Action[Req validation.Validatable](h Handler, name string, newReq func() Req, action ActionFunc[Req]) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleAction(c, h, name, newReq, action, nil)
	}
}

// FormAction is Action for form submissions: a payload failing validation
// is answered with onInvalid instead of a 400 error.
func FormAction[Req validation.Validatable](
	h Handler,
	name string,
	newReq func() Req,
	action ActionFunc[Req],
	onInvalid InvalidFunc[Req],
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleAction(c, h, name, newReq, action, onInvalid)
	}
}
