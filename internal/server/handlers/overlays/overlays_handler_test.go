package overlays

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoth-om/maskd/internal/overlay"
)

const testCatalog = `
agents:
  - id: crown_verifier
  - id: scribe
`

func newTestRouter(t *testing.T, policy overlay.Policy) *gin.Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pantheon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	svc, err := overlay.NewService(path, policy, nil)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(svc)
	r.GET("/api/v1/overlays", h.List)
	r.POST("/api/v1/overlays/:agent/invoke", h.Invoke)
	return r
}

func invoke(r *gin.Engine, agent, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/overlays/"+agent+"/invoke", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestList_ReturnsAgents(t *testing.T) {
	r := newTestRouter(t, overlay.Policy{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/overlays", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Agents []string `json:"agents"`
		Count  int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"crown_verifier", "scribe"}, resp.Agents)
	assert.Equal(t, 2, resp.Count)
}

func TestInvoke_Queued(t *testing.T) {
	r := newTestRouter(t, overlay.Policy{MaxAgentsPerTurn: 4, CooldownS: 0})

	w := invoke(r, "crown_verifier", `{"message": "ship check"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	var receipt overlay.Receipt
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &receipt))
	assert.Equal(t, "queued", receipt.Status)
	assert.Equal(t, "crown_verifier", receipt.Agent)
	assert.Equal(t, "ship check", receipt.Message)
	assert.NotEmpty(t, receipt.Session)
	require.NotNil(t, receipt.Policy)
	assert.Equal(t, 4, receipt.Policy.MaxAgentsPerTurn)
}

func TestInvoke_UnknownAgentIs404(t *testing.T) {
	r := newTestRouter(t, overlay.Policy{})

	w := invoke(r, "trickster", `{"message": "hi"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvoke_CooldownIs429(t *testing.T) {
	r := newTestRouter(t, overlay.Policy{CooldownS: 3600})

	require.Equal(t, http.StatusAccepted, invoke(r, "scribe", `{"message": "one"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, invoke(r, "scribe", `{"message": "two"}`).Code)
}

func TestInvoke_BadBodyIs400(t *testing.T) {
	r := newTestRouter(t, overlay.Policy{})

	w := invoke(r, "scribe", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
