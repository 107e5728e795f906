package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/prasannakumar9i/blockChain-Attedence-app-main/internal/identity"
)

// AuthHandler exchanges the shared operator secret for a short-lived
// operator token. The secret itself is never stored; the server holds only
// its bcrypt hash.
type AuthHandler struct {
	tokens     *identity.TokenIssuer
	secretHash string // bcrypt hash of the operator secret; empty = disabled
	logger     *zap.Logger
}

// NewAuthHandler creates an AuthHandler. An empty secretHash disables the
// endpoint; it responds 503 until one is configured.
func NewAuthHandler(tokens *identity.TokenIssuer, secretHash string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{tokens: tokens, secretHash: secretHash, logger: logger}
}

// Register mounts the auth routes on the given router group.
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/token", h.Token)
	}
}

type tokenRequest struct {
	Secret string `json:"secret" binding:"required"`
}

// Token handles POST /auth/token — verifies the operator secret and issues
// a bearer token carrying the operator scope.
func (h *AuthHandler) Token(c *gin.Context) {
	if h.tokens == nil || h.secretHash == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "operator authentication is not configured"})
		return
	}

	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.secretHash), []byte(req.Secret)); err != nil {
		h.logger.Warn("operator token request with wrong secret", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid operator secret"})
		return
	}

	tok, err := h.tokens.Issue(identity.ScopeOperator)
	if err != nil {
		h.logger.Error("issue operator token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": tok,
		"token_type":   "Bearer",
		"expires_in":   int(h.tokens.TTL().Seconds()),
	})
}
