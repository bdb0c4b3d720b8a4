package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	sseTokenTTL    = 5 * time.Minute
	acceptableSkew = 30 * time.Second
)

var ErrInvalidToken = errors.New("invalid token")

// Service verifies bearer tokens issued by the HRIS identity service and
// mints the short-lived tokens used by the notification stream.
type Service interface {
	GenerateAccessToken(employeeID string, ttl time.Duration) (token string, expiresAt int64, err error)
	GenerateSSEToken(employeeID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (employeeID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
	now       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(acceptableSkew)),
		now:       time.Now,
	}
}

// GenerateAccessToken signs an access token carrying employee_id. The
// production issuer lives elsewhere; this is used by tooling and tests.
func (j *JWTService) GenerateAccessToken(employeeID string, ttl time.Duration) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(ttl).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(employeeID string) (token string, expiresIn int, err error) {
	expiresAt := j.now().Add(sseTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"type":        TokenTypeSSE,
		"exp":         expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(sseTokenTTL.Seconds()), nil
}

// ValidateSSEToken validates an SSE token and returns the employee ID
func (j *JWTService) ValidateSSEToken(tokenString string) (employeeID string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	// Decode only checks the signature; exp is enforced here.
	if err := jwt.Validate(token,
		jwt.WithClock(jwt.ClockFunc(j.now)),
		jwt.WithAcceptableSkew(acceptableSkew),
	); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeSSE {
		return "", ErrInvalidToken
	}

	raw, ok := token.Get("employee_id")
	if !ok {
		return "", ErrInvalidToken
	}

	employeeID, ok = raw.(string)
	if !ok || employeeID == "" {
		return "", ErrInvalidToken
	}

	return employeeID, nil
}
