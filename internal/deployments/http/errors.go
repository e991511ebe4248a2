package http

import (
	"errors"
	"net/http"

	"github.com/dappforge/dappforge-backend/internal/deployments/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// writeError maps a service error to a status and body. fallback is the
// message used for failures that carry none of their own.
func writeError(c *gin.Context, err error, fallback string) {
	var (
		validation *domain.ValidationError
		unknown    *domain.UnknownTypeError
		deployErr  *domain.DeployError
	)

	switch {
	case errors.As(err, &validation):
		respondError(c, http.StatusBadRequest, validation.Message, err.Error())
	case errors.As(err, &unknown):
		respondError(c, http.StatusBadRequest, "Unknown contract type", err.Error())
	case errors.Is(err, domain.ErrProjectNotFound):
		respondError(c, http.StatusNotFound, "Project not found", "")
	case errors.As(err, &deployErr):
		respondError(c, http.StatusInternalServerError, deployErr.Message, domain.Details(deployErr.Err))
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		respondError(c, http.StatusInternalServerError, fallback, err.Error())
	}
}
