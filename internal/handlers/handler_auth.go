package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/mustafajawed/Budget-Manager/internal/core/ports/services"
	"github.com/mustafajawed/Budget-Manager/internal/dto"
	"github.com/mustafajawed/Budget-Manager/internal/middleware"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	session portssvc.SessionSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(session portssvc.SessionSvcFacade) *AuthHandler {
	return &AuthHandler{session: session}
}

// registerAuthRoutes sets up the public authentication routes.
// Sign-up and login share an IP rate limit of 5 requests per minute.
func registerAuthRoutes(rg *gin.Engine, session portssvc.SessionSvcFacade) {
	h := NewAuthHandler(session)

	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/register", limitMiddleware, h.Register)
		auth.POST("/login", limitMiddleware, h.Login)
	}
}

// registerSessionRoutes sets up the authenticated session routes.
func registerSessionRoutes(rg *gin.RouterGroup, session portssvc.SessionSvcFacade) {
	h := NewAuthHandler(session)
	rg.POST("/auth/logout", h.Logout)
}

// Register creates a new account with the identity provider.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.session.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// Login authenticates a user, opens their ledger session and returns an
// access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	result, err := h.session.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token: result.Token,
		User:  dto.ToUserResponse(&result.User),
	})
}

// Logout terminates the caller's session and discards their ledger mirror.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.session.Logout(c.Request.Context(), userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
