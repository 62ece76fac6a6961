package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func hit(limited http.Handler, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip
	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitPerIP(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	limited := RateLimit(3, time.Minute)(ok)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(limited, "10.0.0.1:1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(limited, "10.0.0.1:1"))

	// Other clients are not affected.
	assert.Equal(t, http.StatusOK, hit(limited, "10.0.0.2:1"))
}
