package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"commission-backend/internal/commission"
	"commission-backend/internal/middleware"
	"commission-backend/internal/model"
	"commission-backend/internal/repository"
	"commission-backend/internal/service"
	"commission-backend/pkg/response"
)

// writeError maps a service error onto the response envelope.
func writeError(c *gin.Context, err error) {
	var (
		ve *commission.ValidationError
		pv *commission.PolicyViolation
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, response.ErrorWithDetails(http.StatusBadRequest, "Validation failed", ve.Errors))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied"))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Resource not found"))
	case errors.As(err, &pv):
		c.JSON(http.StatusConflict, response.ErrorWithDetails(http.StatusConflict, "Operation not allowed", pv.Violations))
	case errors.Is(err, repository.ErrConstraint):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Internal server error"))
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}

// actor returns the authenticated caller, aborting with 401 when absent.
func actor(c *gin.Context) (model.Actor, bool) {
	a, ok := middleware.CurrentActor(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User not found in context"))
	}
	return a, ok
}
