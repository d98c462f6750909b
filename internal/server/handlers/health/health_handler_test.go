package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", New("maskd").GetHealth)
	return r
}

func getHealth(t *testing.T, r *gin.Engine) (int, Status) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	var status Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	return w.Code, status
}

func TestGetHealth_Payload(t *testing.T) {
	r := newTestRouter()

	code, status := getHealth(t, r)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, status.OK)
	assert.Equal(t, "maskd", status.Service)
	assert.Positive(t, status.TS)
}

func TestGetHealth_ExactFieldSet(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Len(t, raw, 3)
	assert.Contains(t, raw, "ok")
	assert.Contains(t, raw, "service")
	assert.Contains(t, raw, "ts")
}

func TestGetHealth_TimestampMonotonic(t *testing.T) {
	r := newTestRouter()

	_, first := getHealth(t, r)
	_, second := getHealth(t, r)

	assert.Equal(t, first.Service, second.Service)
	assert.True(t, first.OK && second.OK)
	assert.GreaterOrEqual(t, second.TS, first.TS)
}

func TestGetHealth_ConcurrentCallers(t *testing.T) {
	r := newTestRouter()

	const callers = 32
	var wg sync.WaitGroup
	results := make([]Status, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, w.Code)

			var status Status
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
			results[i] = status
		}(i)
	}
	wg.Wait()

	for _, status := range results {
		assert.True(t, status.OK)
		assert.Equal(t, "maskd", status.Service)
		assert.Positive(t, status.TS)
	}
}
