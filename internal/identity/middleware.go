package identity

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxOperatorClaims = "attendance_operator_claims"

// RequireOperator returns a Gin middleware that enforces a valid Bearer
// operator token with the operator scope.
//
// On success it injects the *OperatorClaims into the context under the
// "attendance_operator_claims" key.
func RequireOperator(tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Bearer token required",
			})
			return
		}

		claims, err := tokens.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid token: " + err.Error(),
			})
			return
		}
		if claims.Scope != ScopeOperator {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "operator scope required",
			})
			return
		}

		c.Set(ctxOperatorClaims, claims)
		c.Next()
	}
}

// OperatorFromCtx retrieves the claims injected by RequireOperator. It
// returns nil when the request carried no valid operator token.
func OperatorFromCtx(c *gin.Context) *OperatorClaims {
	v, _ := c.Get(ctxOperatorClaims)
	claims, _ := v.(*OperatorClaims)
	return claims
}
