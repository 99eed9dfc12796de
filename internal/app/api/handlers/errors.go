package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/tristarfitness/backend/internal/app/service/auth"
	"github.com/tristarfitness/backend/internal/app/service/invoice"
	"github.com/tristarfitness/backend/internal/app/service/member"
	"github.com/tristarfitness/backend/internal/app/service/projection"
	"github.com/tristarfitness/backend/pkg/logctx"
	"github.com/tristarfitness/backend/pkg/response"
)

// writeError maps service errors to status codes. Unexpected errors are
// logged and reported as 500 without internal detail.
func writeError(c *gin.Context, log *zap.SugaredLogger, err error) {
	status, message := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, member.ErrValidation), errors.Is(err, invoice.ErrValidation), errors.Is(err, projection.ErrUnknownSection):
		status, message = http.StatusBadRequest, "validation failed"
	case errors.Is(err, member.ErrConflict):
		status, message = http.StatusConflict, "member already exists"
	case errors.Is(err, member.ErrInvalidState):
		status, message = http.StatusConflict, "operation not allowed in the member's current status"
	case errors.Is(err, member.ErrNotFound):
		status, message = http.StatusNotFound, "member not found"
	case errors.Is(err, invoice.ErrNotFound):
		status, message = http.StatusNotFound, "invoice not found"
	case errors.Is(err, auth.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "invalid email or password"
	}
	if status >= http.StatusInternalServerError {
		logctx.FromGin(c, log).Errorw("request failed", "path", c.FullPath(), "err", err)
		_ = c.Error(err)
		c.JSON(status, response.ErrorT(message, errors.New("unexpected failure")))
		return
	}
	c.JSON(status, response.ErrorT(message, err))
}

// writeBindError answers 400 for malformed or invalid request input.
func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.ErrorT("validation failed", errors.New(bindErrorMessage(err))))
}

func bindErrorMessage(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return "malformed request: " + err.Error()
	}
	msgs := lo.Map(ves, func(fe validator.FieldError, _ int) string {
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", fe.Field())
		case "email", "trimmed_email":
			return fmt.Sprintf("%s must be a valid email address", fe.Field())
		case "oneof":
			return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
		case "calendar_date":
			return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", fe.Field())
		case "min", "gte", "gt":
			return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "max", "lte", "lt":
			return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		default:
			return fmt.Sprintf("%s is invalid", fe.Field())
		}
	})
	return strings.Join(msgs, "; ")
}

var registerValidatorsOnce sync.Once

// registerValidators teaches gin's validator the calendar_date and
// trimmed_email tags and to report json/form field names.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				if name := strings.Split(f.Tag.Get(tag), ",")[0]; name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
		_ = v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
			_, err := parseDate(fl.Field().String())
			return err == nil
		})
		// surrounding whitespace is tolerated; the member service trims it
		_ = v.RegisterValidation("trimmed_email", func(fl validator.FieldLevel) bool {
			return v.Var(strings.TrimSpace(fl.Field().String()), "required,email") == nil
		})
	})
}

// parseDate accepts a calendar date or an RFC 3339 timestamp and returns
// midnight UTC of that date.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	d, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
