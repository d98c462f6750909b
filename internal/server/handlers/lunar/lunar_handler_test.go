package lunar

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoth-om/maskd/internal/lunar"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/lunar", New(&lunar.DefaultCaps).GetSample)
	return r
}

func TestGetSample_Now(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/lunar", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var sample lunar.Sample
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sample))
	assert.GreaterOrEqual(t, sample.PhaseFraction, 0.0)
	assert.Less(t, sample.PhaseFraction, 1.0)
	assert.Contains(t, lunar.PhaseNames[:], sample.PhaseName)
	assert.Len(t, sample.Nudges, 9)
}

func TestGetSample_AtFixedTime(t *testing.T) {
	r := newTestRouter()

	// reference new moon
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/lunar?at=2000-01-06T18:14:00Z", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var sample lunar.Sample
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sample))
	assert.InDelta(t, 0.0, sample.PhaseFraction, 1e-6)
	assert.Equal(t, "New Moon", sample.PhaseName)
}

func TestGetSample_BadTime(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/lunar?at=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
