// Package httpapi exposes the auth engine over HTTP. Handlers bind JSON,
// delegate to the service layer, and translate the service error taxonomy
// into status codes.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solvexa/authgate/internal/common"
	"github.com/solvexa/authgate/internal/logging"
	"github.com/solvexa/authgate/internal/server/google"
	"github.com/solvexa/authgate/internal/server/services"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

type Handler struct {
	svc    *services.AuthService
	google *google.Client
	logger logging.Logger
}

// NewHandler wires the engine into HTTP handlers. googleClient may be nil
// when the provider is not configured; the federated endpoints then answer
// 503 instead of half-working.
func NewHandler(svc *services.AuthService, googleClient *google.Client, logger logging.Logger) *Handler {
	return &Handler{svc: svc, google: googleClient, logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type federatedLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": Version})
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID, err := h.svc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user_id": userID})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tokens, err := h.svc.LoginWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Renew runs behind SessionAuthMiddleware, so the session token has already
// passed signature verification by the time we get here.
func (h *Handler) Renew(c *gin.Context) {
	authCtx := GetAuthContext(c)
	if authCtx == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	tokens, err := h.svc.RenewSessionToken(c.Request.Context(), authCtx)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// GoogleURL hands the browser the provider consent URL together with the
// state value baked into it.
func (h *Handler) GoogleURL(c *gin.Context) {
	if h.google == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "federated login not configured"})
		return
	}

	state, err := common.MakeRandHexString(16)
	if err != nil {
		h.writeError(c, common.ErrorInternal)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":   h.google.AuthCodeURL(state),
		"state": state,
	})
}

func (h *Handler) GoogleLogin(c *gin.Context) {
	if h.google == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "federated login not configured"})
		return
	}

	var req federatedLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tokens, err := h.svc.FederatedLogin(c.Request.Context(), req.Code)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrorConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrorForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, common.ErrorUpstreamAuth):
		c.JSON(http.StatusBadGateway, gin.H{"error": "identity provider error"})
	case errors.Is(err, common.ErrorStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
	default:
		h.logger.Error(c.Request.Context(), "unhandled service error", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}
