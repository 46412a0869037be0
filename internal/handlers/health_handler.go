package handlers

import (
	"net/http"

	"collabBoard/internal/models"
	"collabBoard/internal/msgs"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200  {object}  models.HealthResponse
// @Router       /health [get]
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.HealthResponse{
		Status:  msgs.MsgHealthy,
		Service: msgs.MsgServiceName,
	})
}
