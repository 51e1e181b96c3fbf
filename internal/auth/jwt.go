// Package auth verifies bearer tokens issued by the external auth provider.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"whatsdesk-go/internal/model"
)

const accountIDKey = "account_id"

// Claims carries the account identity inside a verified token.
type Claims struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// JWT parses and signs HS256 tokens with a shared secret.
type JWT struct {
	secret []byte
}

func NewJWT(secret string) *JWT {
	return &JWT{secret: []byte(secret)}
}

// Sign issues a token. The external auth provider normally does this; kept
// for local development and tests.
func (j *JWT) Sign(accountID, email string, ttl time.Duration) (string, error) {
	claims := Claims{
		AccountID: accountID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// Parse verifies a token and returns its claims.
func (j *JWT) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := parsed.Claims.(*Claims); ok && parsed.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// Middleware rejects requests without a valid bearer token and stores the
// account id in the gin context.
func (j *JWT) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing bearer token",
				Code:    http.StatusUnauthorized,
			})
			return
		}

		claims, err := j.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid bearer token",
				Code:    http.StatusUnauthorized,
			})
			return
		}

		c.Set(accountIDKey, claims.AccountID)
		c.Next()
	}
}

// AccountID returns the authenticated account id from the gin context.
func AccountID(c *gin.Context) string {
	return c.GetString(accountIDKey)
}
