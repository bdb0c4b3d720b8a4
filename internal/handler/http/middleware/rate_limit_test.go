package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitByEmployee(t *testing.T) {
	handler := RateLimitByEmployee(0, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(employeeID string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if employeeID != "" {
			req = req.WithContext(context.WithValue(req.Context(), employeeKey{}, employeeID))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("EMP-001"))
	assert.Equal(t, http.StatusNoContent, call("EMP-001"))
	assert.Equal(t, http.StatusTooManyRequests, call("EMP-001"))

	// Buckets are per employee
	assert.Equal(t, http.StatusNoContent, call("EMP-002"))

	// Unbound tokens are not limited here
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, call(""))
	}
}
