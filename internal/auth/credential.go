package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/ieltsprep/config"
	"github.com/rs/zerolog/log"
)

// ActorKey is the gin context key holding the verified token subject.
const ActorKey = "actor"

var ErrNoCredential = errors.New("auth: no credential available for the current actor")

type tokenKey struct{}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

// Resolver supplies the bearer credential used against the item store: the
// caller's own token when one was forwarded, else the configured service token.
type Resolver struct {
	serviceToken string
}

func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{serviceToken: cfg.Auth.ServiceToken}
}

func (r *Resolver) Credential(ctx context.Context) (string, error) {
	if token, ok := TokenFromContext(ctx); ok {
		return token, nil
	}
	if r.serviceToken != "" {
		return r.serviceToken, nil
	}
	return "", ErrNoCredential
}

// Bearer extracts the Authorization bearer token and forwards it through the
// request context. With a non-empty secret the token is required and must be
// a valid HS256 JWT; its subject is stored under ActorKey.
func Bearer(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if secret == "" {
			if token != "" {
				c.Request = c.Request.WithContext(WithToken(c.Request.Context(), token))
			}
			c.Next()
			return
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !parsed.Valid {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("Rejected bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid bearer token"})
			return
		}
		if sub, err := parsed.Claims.GetSubject(); err == nil && sub != "" {
			c.Set(ActorKey, sub)
		}
		c.Request = c.Request.WithContext(WithToken(c.Request.Context(), token))
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
