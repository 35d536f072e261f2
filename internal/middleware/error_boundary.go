package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/monitoring"
	"github.com/lshigami/ieltsprep/internal/service"
	"github.com/lshigami/ieltsprep/internal/store"
	"github.com/rs/zerolog/log"
)

var registerFieldNames sync.Once

// ErrorBoundary renders the errors handlers attach with ctx.Error. It is the
// only place that turns an expired session into a login redirect.
func ErrorBoundary(loginPath string) gin.HandlerFunc {
	registerFieldNames.Do(useJSONFieldNames)
	redirect := loginPath + "?session_expired=true"

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		ginErr := c.Errors.Last()
		err := ginErr.Err

		var se *store.Error
		if errors.As(err, &se) {
			monitoring.StoreErrors.WithLabelValues(se.Kind.String()).Inc()
		}

		switch {
		case ginErr.IsType(gin.ErrorTypeBind):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: describeBindError(err)})
		case service.IsValidation(err):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		case store.IsUnauthorized(err):
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("Store rejected the session")
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "session expired", Redirect: redirect})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrWritingFeedbackDisabled):
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: err.Error()})
		default:
			log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("Request failed")
			msg := "internal server error"
			if public, ok := ginErr.Meta.(string); ok && public != "" {
				msg = public
			}
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msg})
		}
	}
}

func describeBindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request: " + err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(msgs, "; ")
}

// useJSONFieldNames makes validation errors name fields as clients send them.
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}
