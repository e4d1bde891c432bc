package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultUserHeader carries the caller's user ID when JWT is not configured
const DefaultUserHeader = "X-Sharer-User-Id"

const callerIDKey = "shareit.callerID"

var (
	errMissingIdentity = errors.New("missing caller identity")
	errInvalidToken    = errors.New("invalid bearer token")
)

// IdentityConfig selects how the caller is identified. With a JWTSecret the
// caller is the HS256 token's numeric subject; otherwise UserHeader is read.
type IdentityConfig struct {
	UserHeader string
	JWTSecret  string
}

// IdentityMiddleware resolves the caller and stores its ID on the context.
// A missing or malformed header is a client error (400); a bad token is 401.
func IdentityMiddleware(cfg IdentityConfig) gin.HandlerFunc {
	header := cfg.UserHeader
	if header == "" {
		header = DefaultUserHeader
	}
	secret := []byte(cfg.JWTSecret)

	return func(c *gin.Context) {
		var (
			id  int64
			err error
		)
		if len(secret) > 0 {
			id, err = callerFromToken(c.GetHeader("Authorization"), secret)
		} else {
			id, err = callerFromHeader(c.GetHeader(header), header)
		}

		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, errInvalidToken) {
				status = http.StatusUnauthorized
			}
			c.AbortWithStatusJSON(status, Response{Success: false, Error: err.Error()})
			return
		}

		c.Set(callerIDKey, id)
		c.Next()
	}
}

func callerFromHeader(value, header string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: header %s is required", errMissingIdentity, header)
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("header %s must be a positive integer", header)
	}
	return id, nil
}

func callerFromToken(authorization string, secret []byte) (int64, error) {
	parts := strings.Fields(authorization)
	if len(parts) == 0 {
		return 0, fmt.Errorf("%w: bearer token is required", errMissingIdentity)
	}
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return 0, fmt.Errorf("%w: malformed authorization header", errInvalidToken)
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(parts[1], &claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(5*time.Second))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errInvalidToken, err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: subject must be a user ID", errInvalidToken)
	}
	return id, nil
}

// IssueToken signs an HS256 token whose subject is userID
func IssueToken(userID int64, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func callerID(c *gin.Context) int64 {
	return c.GetInt64(callerIDKey)
}
