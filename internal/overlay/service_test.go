package overlay

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoth-om/maskd/internal/telemetry"
)

const sampleCatalog = `
agents:
  - id: crown_verifier
    name: Crown Verifier
    role: verify ship checks
  - id: scribe
  - id: harmonizer_prime
`

type recordingSink struct {
	events []*telemetry.Event
}

func (r *recordingSink) Record(_ context.Context, e *telemetry.Event) error {
	r.events = append(r.events, e)
	return nil
}

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pantheon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestService(t *testing.T, policy Policy, sink Recorder) *Service {
	t.Helper()
	svc, err := NewService(writeCatalog(t, sampleCatalog), policy, sink)
	require.NoError(t, err)
	return svc
}

func TestLoadCatalog_IDsSorted(t *testing.T) {
	c, err := LoadCatalog(writeCatalog(t, sampleCatalog))
	require.NoError(t, err)

	assert.Equal(t, []string{"crown_verifier", "harmonizer_prime", "scribe"}, c.IDs())
	assert.True(t, c.IDSet().Contains("scribe"))
	assert.False(t, c.IDSet().Contains("unknown"))
}

func TestLoadCatalog_MissingIDErrors(t *testing.T) {
	_, err := LoadCatalog(writeCatalog(t, "agents:\n  - name: nameless\n"))
	assert.Error(t, err)
}

func TestInvoke_ReturnsQueuedReceipt(t *testing.T) {
	sink := &recordingSink{}
	svc := newTestService(t, Policy{}, sink)

	receipt, err := svc.Invoke(context.Background(), "crown_verifier", "ship check")
	require.NoError(t, err)

	assert.Equal(t, "queued", receipt.Status)
	assert.Equal(t, "crown_verifier", receipt.Agent)
	assert.Equal(t, "ship check", receipt.Message)
	assert.NotEmpty(t, receipt.Session)

	require.Len(t, sink.events, 1)
	assert.Equal(t, telemetry.KindOverlayInvoke, sink.events[0].Kind)
	assert.Equal(t, "crown_verifier", sink.events[0].Agent)
	assert.Equal(t, "ship check", sink.events[0].Detail["message"])

	// no policy configured, no policy block on the receipt
	assert.Nil(t, receipt.Policy)
}

func TestInvoke_ReceiptCarriesConfiguredPolicy(t *testing.T) {
	svc := newTestService(t, Policy{MaxAgentsPerTurn: 3, CooldownS: 10}, nil)

	receipt, err := svc.Invoke(context.Background(), "scribe", "hello")
	require.NoError(t, err)

	require.NotNil(t, receipt.Policy)
	assert.Equal(t, 3, receipt.Policy.MaxAgentsPerTurn)
	assert.Equal(t, 10, receipt.Policy.CooldownS)
}

func TestInvoke_UnknownAgent(t *testing.T) {
	svc := newTestService(t, Policy{}, nil)

	_, err := svc.Invoke(context.Background(), "trickster", "hello")
	assert.ErrorIs(t, err, ErrUnknownAgent)
}

func TestInvoke_CooldownEnforced(t *testing.T) {
	svc := newTestService(t, Policy{CooldownS: 30}, nil)

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err := svc.Invoke(context.Background(), "scribe", "first")
	require.NoError(t, err)

	now = now.Add(10 * time.Second)
	_, err = svc.Invoke(context.Background(), "scribe", "too soon")
	assert.ErrorIs(t, err, ErrCooldown)

	// a different agent is not blocked
	_, err = svc.Invoke(context.Background(), "crown_verifier", "ok")
	assert.NoError(t, err)

	now = now.Add(25 * time.Second)
	_, err = svc.Invoke(context.Background(), "scribe", "after cooldown")
	assert.NoError(t, err)
}

func TestInvoke_TurnBudget(t *testing.T) {
	svc := newTestService(t, Policy{MaxAgentsPerTurn: 2}, nil)

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err := svc.Invoke(context.Background(), "scribe", "one")
	require.NoError(t, err)
	_, err = svc.Invoke(context.Background(), "crown_verifier", "two")
	require.NoError(t, err)
	_, err = svc.Invoke(context.Background(), "harmonizer_prime", "three")
	assert.ErrorIs(t, err, ErrTurnBudget)

	// budget frees up once the window rolls past
	now = now.Add(2 * time.Minute)
	_, err = svc.Invoke(context.Background(), "harmonizer_prime", "next turn")
	assert.NoError(t, err)
}

func TestReload_PicksUpNewAgents(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)
	svc, err := NewService(path, Policy{}, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("agents:\n  - id: fresh_agent\n"), 0o644))
	require.NoError(t, svc.Reload())

	assert.Equal(t, []string{"fresh_agent"}, svc.List())
	_, err = svc.Invoke(context.Background(), "scribe", "gone")
	assert.ErrorIs(t, err, ErrUnknownAgent)
}
