package services

import (
	"errors"

	"github.com/chainchat-labs/txengine/internal/apperrors"
)

// Response is the caller-facing result shape returned synchronously to
// whatever invoked the engine.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func NewSuccessResponse(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// NewErrorResponse turns a pipeline error into the failure shape. Defects
// (encoding and persistence failures) surface generically; internal detail is
// never exposed to the caller.
func NewErrorResponse(err error) Response {
	var buildErr *apperrors.BuildError
	var persistErr *apperrors.PersistenceError
	switch {
	case errors.As(err, &buildErr):
		return Response{Success: false, Error: "failed to prepare the transaction, please try again"}
	case errors.As(err, &persistErr):
		return Response{Success: false, Error: "failed to save the transaction, please try again"}
	default:
		return Response{Success: false, Error: err.Error()}
	}
}
