package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/senyabanana/procurement-service/internal/models"
	"github.com/senyabanana/procurement-service/internal/utils"
)

// sendServiceError writes a service error. Errors that are not
// *models.ErrorResponse become a 500 with the fallback message.
func sendServiceError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	var errorResponse *models.ErrorResponse
	if errors.As(err, &errorResponse) {
		logger.Warn("Request failed", "status", errorResponse.StatusCode, "error", err)
		utils.SendError(w, errorResponse)
		return
	}
	logger.Error(fallback, "error", err)
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}
