package services

import (
	"errors"
	"net/http"

	"github.com/senyabanana/procurement-service/internal/ai"
	"github.com/senyabanana/procurement-service/internal/models"
	"github.com/senyabanana/procurement-service/internal/repository"
)

// storeError maps repository errors to client errors.
func storeError(err error, notFound string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return models.NewErrorResponse(http.StatusNotFound, notFound)
	case errors.Is(err, repository.ErrNoFields):
		return models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	return err
}

// engineFailure turns a failed extraction into a 429 for quota failures and a 500 otherwise.
func engineFailure[T any](res ai.ParseResult[T], quotaMessage, failMessage string) error {
	if res.Quota() {
		resp := models.NewErrorResponse(http.StatusTooManyRequests, quotaMessage).WithDetails(res.Message())
		resp.QuotaExceeded = true
		return resp
	}
	return models.NewErrorResponse(http.StatusInternalServerError, failMessage).WithDetails(res.Message())
}
