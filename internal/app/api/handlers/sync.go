package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tristarfitness/backend/internal/app/service/projection"
	"github.com/tristarfitness/backend/pkg/response"
)

type SyncResponse struct {
	Section projection.Section `json:"section"`
}

// @Summary      Sync projection
// @Description  Rewrites one projection file (members, invoices, activities) or all of them from the database.
// @Tags         Sync
// @Produce      json
// @Security     BearerAuth
// @Param        section  path  string  true  "members | invoices | activities | all"
// @Success      200  {object}  handlers.RespSync
// @Failure      400  {object}  handlers.RespError
// @Failure      500  {object}  handlers.RespError
// @Router       /api/v1/sync/{section} [post]
func ApiSyncProjection(w *projection.Writer, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		section, err := projection.ParseSection(c.Param("section"))
		if err != nil {
			writeError(c, log, err)
			return
		}
		if err := w.SyncErr(c.Request.Context(), section); err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, response.OKMsgT(&SyncResponse{Section: section}, "Projection synced"))
	}
}

func RegisterSyncRoutes(r gin.IRouter, w *projection.Writer, log *zap.SugaredLogger) {
	r.POST("/sync/:section", ApiSyncProjection(w, log))
}
