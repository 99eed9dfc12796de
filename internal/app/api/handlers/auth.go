package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mw "github.com/tristarfitness/backend/internal/app/api/middleware"
	"github.com/tristarfitness/backend/internal/app/service/auth"
	"github.com/tristarfitness/backend/pkg/response"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Staff login
// @Description  Exchanges staff credentials for a bearer token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body  LoginRequest  true  "Credentials"
// @Success      200  {object}  handlers.RespLogin
// @Failure      400  {object}  handlers.RespError
// @Failure      401  {object}  handlers.RespError
// @Router       /api/v1/auth/login [post]
func ApiLogin(svc *auth.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		res, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Current staff user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespSubject
// @Failure      401  {object}  handlers.RespError
// @Router       /api/v1/auth/me [get]
func ApiMe(c *gin.Context) {
	s, ok := mw.SubjectFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorT("authentication required", auth.ErrUnauthenticated))
		return
	}
	c.JSON(http.StatusOK, response.OKT(s))
}

// RegisterAuthRoutes mounts login on pub and the token echo on protected.
func RegisterAuthRoutes(pub, protected gin.IRouter, svc *auth.Service, log *zap.SugaredLogger) {
	registerValidators()
	pub.POST("/auth/login", ApiLogin(svc, log))
	protected.GET("/auth/me", ApiMe)
}
