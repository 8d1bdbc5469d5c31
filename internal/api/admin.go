package api

import (
	"net/http"
	"strconv"

	"kamgar-sahayak/backend/internal/models"
	"kamgar-sahayak/backend/internal/service"
	apperrors "kamgar-sahayak/backend/pkg/errors"
	"kamgar-sahayak/backend/pkg/jwt"
	"kamgar-sahayak/backend/pkg/logger"
	"kamgar-sahayak/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles authentication and the escalation review queue
type AdminHandler struct {
	authService   *service.AuthService
	reviewService *service.ReviewService
	jwtService    *jwt.Service
	logger        *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	authService *service.AuthService,
	reviewService *service.ReviewService,
	jwtService *jwt.Service,
	logger *logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		authService:   authService,
		reviewService: reviewService,
		jwtService:    jwtService,
		logger:        logger,
	}
}

// Token exchanges admin credentials for a bearer token. The body is
// form-encoded for compatibility with OAuth2 password-flow clients.
func (h *AdminHandler) Token(c *gin.Context) {
	var req struct {
		Username string `form:"username" binding:"required"`
		Password string `form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.Error(apperrors.NewBadRequestError(apperrors.CodeValidation, "username and password are required"))
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// UnansweredLogs lists escalated queries waiting for a human answer,
// oldest first
func (h *AdminHandler) UnansweredLogs(c *gin.Context) {
	entries, err := h.reviewService.ListPending(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// AllLogs lists every logged query for audit
func (h *AdminHandler) AllLogs(c *gin.Context) {
	entries, err := h.reviewService.ListAll(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Answer resolves one escalated entry with the submitting admin's answer
func (h *AdminHandler) Answer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Error(apperrors.NewBadRequestError(apperrors.CodeValidation, "Entry id must be a number"))
		return
	}

	var req models.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewBadRequestError(apperrors.CodeValidation, "answer is required"))
		return
	}

	answeredBy := ""
	if claims, ok := middleware.ClaimsFrom(c); ok {
		answeredBy = claims.Username
	}

	entry, err := h.reviewService.SubmitAnswer(c.Request.Context(), uint(id), req.Answer, answeredBy)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// RegisterAdmin creates a new reviewer account. Only existing admins may
// call this.
func (h *AdminHandler) RegisterAdmin(c *gin.Context) {
	var req models.RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Error binding JSON for admin registration", "error", err.Error())
		c.Error(apperrors.NewBadRequestError(apperrors.CodeValidation, "username and a password of at least 8 characters are required"))
		return
	}

	admin, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, admin.ToResponse())
}

// RegisterRoutes registers the admin endpoints on the given router group.
// Reads require the viewer role, writes require admin.
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/token", h.Token)

	authorized := router.Group("")
	authorized.Use(middleware.JWTAuthMiddleware(h.jwtService, h.logger))
	{
		reads := authorized.Group("")
		reads.Use(middleware.RequireRole(jwt.RoleViewer))
		{
			reads.GET("/unanswered_logs", h.UnansweredLogs)
			reads.GET("/all_logs", h.AllLogs)
		}

		writes := authorized.Group("")
		writes.Use(middleware.RequireRole(jwt.RoleAdmin))
		{
			writes.POST("/answer/:id", h.Answer)
			writes.POST("/register_admin", h.RegisterAdmin)
		}
	}
}
