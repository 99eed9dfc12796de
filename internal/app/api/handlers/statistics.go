package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tristarfitness/backend/internal/app/service/member"
	"github.com/tristarfitness/backend/internal/app/service/statistics"
	"github.com/tristarfitness/backend/pkg/response"
)

// @Summary      Dashboard statistics
// @Description  Computes the requested counters, optionally narrowed by filters.
// @Tags         Statistics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  statistics.Request  true  "Statistic items and filters"
// @Success      200  {object}  handlers.RespStatistics
// @Failure      400  {object}  handlers.RespError
// @Router       /api/v1/statistics [post]
func ApiGetStatistics(svc *statistics.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		if err := req.Validate(); err != nil {
			writeError(c, log, fmt.Errorf("%w: %w", member.ErrValidation, err))
			return
		}
		res, err := svc.Get(c.Request.Context(), &req)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterStatisticsRoutes(w gin.IRouter, svc *statistics.Service, log *zap.SugaredLogger) {
	w.POST("/statistics", ApiGetStatistics(svc, log))
}
