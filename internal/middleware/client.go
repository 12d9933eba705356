package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ClientCookieName holds the signed client id
const ClientCookieName = "myrecipes_client"

const clientIssuer = "myrecipes"

// ClientIdentity assigns every browser a stable anonymous id carried in a
// signed cookie. It scopes per-client state such as favorites and never
// rejects a request.
type ClientIdentity struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewClientIdentity creates the middleware. Tokens are HS256-signed with
// secret and expire after ttl.
func NewClientIdentity(secret string, ttl time.Duration, secure bool) *ClientIdentity {
	return &ClientIdentity{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
}

// Middleware reads the client cookie, issuing a fresh id when it is
// missing, expired or tampered with.
func (c *ClientIdentity) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if cookie, err := r.Cookie(ClientCookieName); err == nil {
			id, _ = c.Verify(cookie.Value)
		}
		if id == "" {
			id = uuid.NewString()
			if token, err := c.Issue(id); err == nil {
				http.SetCookie(w, &http.Cookie{
					Name:     ClientCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(c.ttl.Seconds()),
					HttpOnly: true,
					Secure:   c.secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
		}
		next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), id)))
	})
}

// Issue signs a token for client id
func (c *ClientIdentity) Issue(id string) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   id,
		Issuer:    clientIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify returns the client id carried by token
func (c *ClientIdentity) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithIssuer(clientIssuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", errors.New("invalid client token")
	}
	return claims.Subject, nil
}

// GetClientID returns the client id stored by ClientIdentity. Requests that
// bypassed the middleware fall back to a shared anonymous id.
func GetClientID(ctx context.Context) string {
	if id, ok := ctx.Value(clientIDKey).(string); ok && id != "" {
		return id
	}
	return "anonymous"
}

// WithClientID returns ctx carrying client id
func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey, id)
}
