package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apierrors "mtdash/internal/errors"
)

// ValidationMiddleware provides request validation backed by go-playground/validator
type ValidationMiddleware struct {
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) (*ValidationMiddleware, error) {
	v := validator.New()

	// Dates arrive as ISO calendar days from the dashboard filter controls.
	if err := v.RegisterValidation("iso_date", isISODate); err != nil {
		return nil, fmt.Errorf("register iso_date validator: %w", err)
	}
	if err := v.RegisterValidation("direction", isValidDirection); err != nil {
		return nil, fmt.Errorf("register direction validator: %w", err)
	}

	return &ValidationMiddleware{
		validator:    v,
		logger:       logger.With(slog.String("component", "validation")),
		errorHandler: errorHandler,
	}, nil
}

// ValidateStruct validates a struct using the registered rules
func (m *ValidationMiddleware) ValidateStruct(v interface{}) error {
	if err := m.validator.Struct(v); err != nil {
		var fields []apierrors.ValidationError
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields = append(fields, apierrors.ValidationError{
				Field:   strings.ToLower(fieldErr.Field()),
				Message: m.formatValidationError(fieldErr),
			})
		}
		return apierrors.NewValidationErrors(fields)
	}
	return nil
}

// RespondError delegates to the shared error handler
func (m *ValidationMiddleware) RespondError(w http.ResponseWriter, r *http.Request, err error) {
	m.errorHandler.HandleError(w, r, err)
}

// ContentTypeValidator ensures requests carry one of the accepted content types
func ContentTypeValidator(contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			ct := r.Header.Get("Content-Type")
			for _, allowed := range contentTypes {
				if strings.HasPrefix(ct, allowed) {
					next.ServeHTTP(w, r)
					return
				}
			}

			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(http.StatusUnsupportedMediaType)
			response := fmt.Sprintf(`{"type":"/errors/unsupported-media-type","title":"Unsupported Media Type","status":415,"detail":"Content-Type must be one of: %s"}`, strings.Join(contentTypes, ", "))
			w.Write([]byte(response))
		})
	}
}

func (m *ValidationMiddleware) formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "this field is required"
	case "iso_date":
		return "must be a date in YYYY-MM-DD format"
	case "direction":
		return "must be a language pair like \"English → French\" or \"All\""
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", err.Param())
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}

func isISODate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

// isValidDirection accepts the "All" sentinel or a non-empty pair label.
// The actual membership check against loaded data happens in the service;
// here we only reject junk that could never be a direction.
func isValidDirection(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return !strings.ContainsAny(value, "\r\n\x00")
}
