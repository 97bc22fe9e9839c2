// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It binds and validates requests using the validation package,
// calls the service layer, and turns the outcome into an action
// result: a view to render or another action to redirect to.
package handler
