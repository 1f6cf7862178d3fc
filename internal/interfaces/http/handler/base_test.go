package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/facturacion/backend/internal/domain/shared"
	"github.com/facturacion/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func performWithError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := &BaseHandler{}
	engine.GET("/fail", func(c *gin.Context) {
		h.HandleError(c, err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	req.Header.Set("X-Request-ID", "req-123")
	engine.ServeHTTP(w, req)
	return w
}

func TestBaseHandler_HandleError_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"concurrency conflict", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{"cross company", shared.ErrCrossCompany, http.StatusUnprocessableEntity, dto.ErrCodeCrossCompanyReference},
		{
			"insufficient stock",
			shared.NewDomainError("INSUFFICIENT_STOCK", "not enough on hand"),
			http.StatusUnprocessableEntity,
			dto.ErrCodeInsufficientStock,
		},
		{
			"insufficient available stock",
			shared.NewDomainError("INSUFFICIENT_AVAILABLE_STOCK", "reserved elsewhere"),
			http.StatusUnprocessableEntity,
			dto.ErrCodeInsufficientAvailableStock,
		},
		{
			"validation error",
			shared.NewDomainError("VALIDATION_ERROR", "quantity must be positive"),
			http.StatusBadRequest,
			dto.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performWithError(t, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
			assert.Contains(t, w.Body.String(), "req-123")
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestBaseHandler_HandleError_UnknownError(t *testing.T) {
	w := performWithError(t, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeInternal)
	// Internal details must not leak to clients.
	assert.NotContains(t, w.Body.String(), "disk on fire")
}

func TestBaseHandler_HandleError_WrappedDomainError(t *testing.T) {
	wrapped := errorsJoin(shared.ErrNotFound)
	w := performWithError(t, wrapped)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeNotFound)
}

func errorsJoin(err error) error {
	return &wrapErr{inner: err}
}

type wrapErr struct{ inner error }

func (w *wrapErr) Error() string { return "context: " + w.inner.Error() }
func (w *wrapErr) Unwrap() error { return w.inner }
