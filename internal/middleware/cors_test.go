package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCors(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Cors()(okHandler)

	t.Run("allowed origin", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/players/all", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "https://www.atleticomaneiro.com.br")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "https://www.atleticomaneiro.com.br", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/players/all", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "https://evil.example.com")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("test agent", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/players/all", nil)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
