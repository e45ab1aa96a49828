package controllers

import (
	"context"
	"net/http"

	"github.com/arisros/one-time-message/internal/dtos"
	"github.com/arisros/one-time-message/internal/services"
	"github.com/arisros/one-time-message/internal/utils"
)

type HealthController struct {
	svc services.MessageService
}

func NewHealthController(s services.MessageService) *HealthController {
	return &HealthController{svc: s}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	// The storage backend is the only external dependency.
	if err := c.svc.Ping(context.Background()); err != nil {
		utils.Logger.WithError(err).Error("message store unhealthy")
		utils.RespondErrorWithCode(
			w,
			http.StatusServiceUnavailable,
			utils.ErrCodeInternal,
			"Service unhealthy",
			err,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK"})
}
