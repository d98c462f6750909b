package overlay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"

	"github.com/thoth-om/maskd/internal/telemetry"
)

var (
	ErrUnknownAgent = errors.New("unknown agent")
	ErrCooldown     = errors.New("agent is cooling down")
	ErrTurnBudget   = errors.New("turn agent budget exhausted")
)

// Invocations within this window count against max_agents_per_turn.
const turnWindow = time.Minute

// Policy bounds overlay invocations.
type Policy struct {
	MaxAgentsPerTurn int      `yaml:"max_agents_per_turn" mapstructure:"max_agents_per_turn" json:"max_agents_per_turn,omitempty"`
	CooldownS        int      `yaml:"cooldown_s" mapstructure:"cooldown_s" json:"cooldown_s,omitempty"`
	Rules            []string `yaml:"rules,omitempty" mapstructure:"rules" json:"rules,omitempty"`
	AlwaysPost       []string `yaml:"always_post,omitempty" mapstructure:"always_post" json:"always_post,omitempty"`
}

func (p Policy) isZero() bool {
	return p.MaxAgentsPerTurn == 0 && p.CooldownS == 0 &&
		len(p.Rules) == 0 && len(p.AlwaysPost) == 0
}

// Receipt confirms a queued overlay invocation. The overlay effects
// themselves are applied by the mask policy during turns.
type Receipt struct {
	Status  string  `json:"status"`
	Agent   string  `json:"agent"`
	Message string  `json:"message"`
	Session string  `json:"session"`
	Host    string  `json:"host,omitempty"`
	Policy  *Policy `json:"policy,omitempty"`
}

// Recorder receives telemetry events emitted by the service.
type Recorder interface {
	Record(ctx context.Context, e *telemetry.Event) error
}

// Service owns the agent catalog and enforces the overlay policy.
type Service struct {
	catalogPath string
	policy      Policy
	recorder    Recorder
	host        string
	now         func() time.Time

	mu         sync.RWMutex
	catalog    *Catalog
	agents     mapset.Set[string]
	lastInvoke map[string]time.Time
	turnLog    []time.Time
}

// NewService loads the catalog at path and returns a ready service.
// recorder may be nil, in which case invocations are not logged.
func NewService(path string, policy Policy, recorder Recorder) (*Service, error) {
	s := &Service{
		catalogPath: path,
		policy:      policy,
		recorder:    recorder,
		now:         time.Now,
		lastInvoke:  make(map[string]time.Time),
	}

	if id, err := machineid.ProtectedID("maskd"); err == nil {
		s.host = id
	} else {
		slog.Warn("machine id unavailable", "error", err)
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the catalog file.
func (s *Service) Reload() error {
	catalog, err := LoadCatalog(s.catalogPath)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", s.catalogPath, err)
	}

	s.mu.Lock()
	s.catalog = catalog
	s.agents = catalog.IDSet()
	s.mu.Unlock()

	slog.Info("overlay catalog loaded", "path", s.catalogPath, "agents", catalog.IDSet().Cardinality())
	return nil
}

// List returns the known agent ids, sorted.
func (s *Service) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.IDs()
}

// Agents returns the full catalog entries.
func (s *Service) Agents() []Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Agent, len(s.catalog.Agents))
	copy(out, s.catalog.Agents)
	return out
}

// Policy returns the active overlay policy.
func (s *Service) Policy() Policy {
	return s.policy
}

// Invoke queues an overlay invocation for agent with the given context
// message. The invocation is validated against the catalog and policy and
// logged to telemetry.
func (s *Service) Invoke(ctx context.Context, agent, message string) (*Receipt, error) {
	now := s.now()

	s.mu.Lock()
	if !s.agents.Contains(agent) {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, agent)
	}

	if s.policy.CooldownS > 0 {
		cooldown := time.Duration(s.policy.CooldownS) * time.Second
		if last, ok := s.lastInvoke[agent]; ok && now.Sub(last) < cooldown {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: %s for %s", ErrCooldown, agent, cooldown-now.Sub(last))
		}
	}

	if s.policy.MaxAgentsPerTurn > 0 {
		s.pruneTurnLog(now)
		if len(s.turnLog) >= s.policy.MaxAgentsPerTurn {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: %d within %s", ErrTurnBudget, s.policy.MaxAgentsPerTurn, turnWindow)
		}
		s.turnLog = append(s.turnLog, now)
	}

	s.lastInvoke[agent] = now
	s.mu.Unlock()

	receipt := &Receipt{
		Status:  "queued",
		Agent:   agent,
		Message: message,
		Session: uuid.NewString(),
		Host:    s.host,
	}
	if !s.policy.isZero() {
		policy := s.policy
		receipt.Policy = &policy
	}

	if s.recorder != nil {
		err := s.recorder.Record(ctx, &telemetry.Event{
			Timestamp: now.UTC(),
			Kind:      telemetry.KindOverlayInvoke,
			Agent:     agent,
			Detail: map[string]any{
				"message": message,
				"session": receipt.Session,
			},
		})
		if err != nil {
			slog.Error("record overlay invoke", "agent", agent, "error", err)
		}
	}

	slog.Info("overlay invoke", "agent", agent, "session", receipt.Session)
	return receipt, nil
}

// caller holds s.mu
func (s *Service) pruneTurnLog(now time.Time) {
	cutoff := now.Add(-turnWindow)
	keep := s.turnLog[:0]
	for _, t := range s.turnLog {
		if t.After(cutoff) {
			keep = append(keep, t)
		}
	}
	s.turnLog = keep
}

// CatalogPath returns the absolute path of the watched catalog file.
func (s *Service) CatalogPath() (string, error) {
	return filepath.Abs(s.catalogPath)
}
