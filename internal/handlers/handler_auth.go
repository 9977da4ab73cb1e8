package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/gochicken/gochicken_backend/internal/core/ports/services"
	"github.com/gochicken/gochicken_backend/internal/dto"
	"github.com/gochicken/gochicken_backend/internal/middleware"
	"github.com/gochicken/gochicken_backend/internal/platform/config"
)

// authHandler handles HTTP requests related to authentication.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

func newAuthHandler(authService portssvc.AuthSvcFacade) *authHandler {
	return &authHandler{authService: authService}
}

// registerAuthRoutes sets up the public authentication routes. Login is rate
// limited per client IP to slow down credential guessing.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, authService portssvc.AuthSvcFacade) {
	h := newAuthHandler(authService)

	rate, err := limiter.NewRateFromFormatted(cfg.LoginRateLimit)
	if err != nil {
		rate = limiter.Rate{Period: time.Minute, Limit: 10}
	}
	loginLimiter := limiter.New(memory.NewStore(), rate)

	auth := r.Group("/auth")
	auth.POST("/login", middleware.RateLimit(loginLimiter), h.login)
}

func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		// Always answer credential failures with 401 to avoid leaking which
		// part was wrong.
		logger.Warn("Login rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
