package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tristarfitness/backend/pkg/response"
)

// @Summary      Health check
// @Description  Returns service status
// @Tags         System
// @Produce      json
// @Success      200  {object}  handlers.RespHealth
// @Router       /healthz [get]
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, response.OKT(map[string]string{"status": "ok"}))
}

func RegisterHealthRoutes(r gin.IRouter) {
	r.GET("/health", Healthz)
	r.GET("/healthz", Healthz)
}
