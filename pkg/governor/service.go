package governor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"aegis-hq/aegis/pkg/config"
	"aegis-hq/aegis/pkg/ledger"
	"aegis-hq/aegis/pkg/ledger/storage"
	"aegis-hq/aegis/pkg/policy"
	"aegis-hq/aegis/pkg/router"
	"aegis-hq/aegis/pkg/secrets"
	"aegis-hq/aegis/pkg/telemetry/metrics"
)

// Service states.
const (
	stateUninitialized int32 = iota
	stateInitializing
	stateReady
	stateHalted
)

func stateName(state int32) string {
	switch state {
	case stateUninitialized:
		return "uninitialized"
	case stateInitializing:
		return "initializing"
	case stateReady:
		return "ready"
	case stateHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// Service is the runtime orchestrator: the single decision surface exposed
// to adapters.
type Service struct {
	cfg *config.Config

	engine *policy.Engine
	router *router.Router
	chain  *ledger.Chain[DecisionOutcome]

	// mu guards the idempotency check-and-insert together with the
	// ledger append. Holding one lock across both is what collapses
	// concurrent duplicate requests into a single entry.
	mu   sync.Mutex
	idem *idempotencyTable

	escalation escalationPolicy

	state        atomic.Int32
	policyLoaded atomic.Bool
	haltReason   atomic.Value // *ledger.IntegrityError

	scheduler *cron.Cron
	collector *metrics.Collector
	logger    *slog.Logger
}

// NewService wires a service from its parts. Call Initialize before
// Evaluate.
func NewService(cfg *config.Config, engine *policy.Engine, rtr *router.Router, chain *ledger.Chain[DecisionOutcome], collector *metrics.Collector) *Service {
	s := &Service{
		cfg:       cfg,
		engine:    engine,
		router:    rtr,
		chain:     chain,
		idem:      newIdempotencyTable(cfg.Idempotency.MaxEntries, cfg.Idempotency.TTL),
		collector: collector,
		escalation: escalationPolicy{
			denyHighestTier: cfg.Escalation.DenyHighestTier,
		},
		logger: slog.Default().With("component", "governor"),
	}
	s.policyLoaded.Store(engine != nil)
	return s
}

// Build loads policies, opens the configured ledger backend, and wires a
// complete service. It is the construction path used by the CLI.
func Build(cfg *config.Config, provider secrets.Provider, bus *router.Bus, collector *metrics.Collector) (*Service, error) {
	def, err := policy.LoadPolicies(cfg.Policy.Dir, policy.LoadOptions{
		DefaultGrade: policy.RiskGrade(cfg.Policy.DefaultGrade),
	})
	if err != nil {
		return nil, err
	}
	engine := policy.NewEngine(def)

	rtr, err := router.FromConfig(cfg.Router, bus)
	if err != nil {
		return nil, err
	}

	var store storage.Store
	switch cfg.Ledger.Backend {
	case "memory":
		store = storage.NewMemoryStore()
	default:
		store, err = storage.NewSQLiteStore(&storage.SQLiteConfig{
			Path:        cfg.Ledger.Path,
			BusyTimeout: cfg.Ledger.BusyTimeout,
		})
		if err != nil {
			return nil, err
		}
	}
	chain := ledger.New[DecisionOutcome](store, provider, cfg.Ledger.SecretName)

	return NewService(cfg, engine, rtr, chain, collector), nil
}

// Initialize moves the service from uninitialized to ready: it opens the
// ledger (creating the genesis entry if needed), verifies the existing
// chain, and starts background maintenance schedules.
func (s *Service) Initialize(ctx context.Context) error {
	if !s.state.CompareAndSwap(stateUninitialized, stateInitializing) {
		return NewInitializationError(stateName(s.state.Load()))
	}

	if s.engine == nil {
		s.state.Store(stateUninitialized)
		return fmt.Errorf("policy engine is required")
	}

	if err := s.chain.Initialize(ctx); err != nil {
		s.state.Store(stateUninitialized)
		return err
	}

	// An inherited ledger must prove itself before any decision is
	// issued on top of it.
	if err := s.chain.Verify(ctx); err != nil {
		var integrity *ledger.IntegrityError
		if errors.As(err, &integrity) {
			s.halt(integrity)
			return integrity
		}
		s.state.Store(stateUninitialized)
		return err
	}

	if err := s.startSchedules(); err != nil {
		s.state.Store(stateUninitialized)
		return err
	}

	s.state.Store(stateReady)
	s.logger.Info("decision service ready",
		"policy_version", s.engine.Definition().PolicyVersion(),
		"ledger_backend", s.cfg.Ledger.Backend,
	)
	return nil
}

// Evaluate renders a decision for one proposed action.
//
// The idempotency lookup, the ledger append, and the record insert run in
// one critical section: two concurrent calls with the same request ID
// collapse into exactly one ledger entry and one canonical response.
func (s *Service) Evaluate(ctx context.Context, req *DecisionRequest) (*DecisionResponse, error) {
	if state := s.state.Load(); state != stateReady {
		if state == stateHalted {
			return nil, s.haltError()
		}
		return nil, NewInitializationError(stateName(state))
	}

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()
	fingerprint := payloadFingerprint(req)

	// Classification and routing are pure; running them outside the lock
	// keeps the critical section down to lookup-append-insert. Duplicate
	// concurrent calls may compute this twice; only one result is kept.
	cls := s.engine.ClassifyRisk(req.TargetPath, req.Content)
	route := s.router.Route(router.Event{
		Category:    string(req.Action),
		ActorID:     req.ActorID,
		TargetPath:  req.TargetPath,
		ContentSize: len(req.Content),
		Grade:       cls.Grade,
		Confidence:  confidenceFor(cls.Basis),
	})
	decision, obligations := s.escalation.resolve(req.Action, cls.Grade, route)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.idem.lookup(req.RequestID); ok {
		if existing.fingerprint != fingerprint {
			s.collector.RecordReplayConflict()
			return nil, NewReplayConflictError(req.RequestID, existing.fingerprint, fingerprint)
		}
		s.collector.RecordIdempotencyHit()
		response := existing.response
		return &response, nil
	}

	decisionID := uuid.NewString()
	entry, err := s.chain.Append(ctx, DecisionEventType, s.cfg.Service.AgentDID, DecisionOutcome{
		RequestID:       req.RequestID,
		ActorID:         req.ActorID,
		Action:          string(req.Action),
		TargetPath:      req.TargetPath,
		Fingerprint:     fingerprint,
		Decision:        string(decision),
		RiskGrade:       string(cls.Grade),
		EvaluationTier:  route.Tier,
		Novelty:         string(route.Triage.Novelty),
		Confidence:      string(route.Triage.Confidence),
		PolicyVersion:   s.engine.Definition().PolicyVersion(),
		DecisionID:      decisionID,
		RequiredActions: obligations,
	})
	if err != nil {
		return nil, err
	}
	s.collector.RecordLedgerAppend()

	response := DecisionResponse{
		Decision:        decision,
		RiskGrade:       cls.Grade,
		EvaluationTier:  route.Tier,
		Triage:          route.Triage,
		PolicyVersion:   s.engine.Definition().PolicyVersion(),
		DecisionID:      decisionID,
		AuditEventID:    entry.Hash,
		RequiredActions: obligations,
	}

	s.idem.insert(&idempotencyRecord{
		requestID:   req.RequestID,
		fingerprint: fingerprint,
		response:    response,
		createdAt:   time.Now(),
	})

	s.collector.RecordDecision(string(decision), string(cls.Grade), time.Since(start))
	s.logger.Info("decision rendered",
		"request_id", req.RequestID,
		"actor_id", req.ActorID,
		"action", req.Action,
		"target_path", req.TargetPath,
		"decision", decision,
		"risk_grade", cls.Grade,
		"tier", route.Tier,
		"audit_event_id", entry.Hash,
	)

	out := response
	return &out, nil
}

// Health reports readiness for probes.
func (s *Service) Health() Health {
	state := s.state.Load()
	return Health{
		Initialized:  state == stateReady,
		PolicyLoaded: s.policyLoaded.Load(),
		State:        stateName(state),
	}
}

// VerifyLedger runs a full chain verification. An integrity failure halts
// further decision issuance; the chain is never auto-repaired.
func (s *Service) VerifyLedger(ctx context.Context) error {
	err := s.chain.Verify(ctx)

	var integrity *ledger.IntegrityError
	if errors.As(err, &integrity) {
		s.collector.RecordVerify(false)
		s.halt(integrity)
		return integrity
	}
	if err != nil {
		return err
	}

	s.collector.RecordVerify(true)
	return nil
}

// RecentDecisions returns the most recent n ledger entries.
func (s *Service) RecentDecisions(ctx context.Context, n int) ([]*ledger.Entry[DecisionOutcome], error) {
	return s.chain.RecentEntries(ctx, n)
}

// LedgerEntryCount returns the number of ledger entries, including
// genesis.
func (s *Service) LedgerEntryCount(ctx context.Context) (uint64, error) {
	return s.chain.EntryCount(ctx)
}

// Close stops background schedules and closes the ledger.
func (s *Service) Close() error {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	return s.chain.Close()
}

// halt latches the service into the halted state. Only an operator
// restart against a resolved ledger clears it.
func (s *Service) halt(reason *ledger.IntegrityError) {
	s.haltReason.Store(reason)
	s.state.Store(stateHalted)
	s.logger.Error("ledger integrity violation, decision issuance halted",
		"sequence", reason.Sequence,
		"reason", reason.Reason,
	)
}

func (s *Service) haltError() error {
	if reason, ok := s.haltReason.Load().(*ledger.IntegrityError); ok {
		return reason
	}
	return NewInitializationError(stateName(stateHalted))
}

// startSchedules starts cron-driven background maintenance: periodic full
// chain verification and idempotency table sweeps.
func (s *Service) startSchedules() error {
	verifySpec := s.cfg.Service.VerifySchedule
	sweepSpec := s.cfg.Service.SweepSchedule
	if verifySpec == "" && sweepSpec == "" {
		return nil
	}

	s.scheduler = cron.New()

	if verifySpec != "" {
		if _, err := s.scheduler.AddFunc(verifySpec, func() {
			if s.state.Load() != stateReady {
				return
			}
			if err := s.VerifyLedger(context.Background()); err != nil {
				s.logger.Error("scheduled chain verification failed", "error", err)
			}
		}); err != nil {
			return fmt.Errorf("invalid verify schedule %q: %w", verifySpec, err)
		}
	}

	if sweepSpec != "" {
		if _, err := s.scheduler.AddFunc(sweepSpec, s.sweepIdempotency); err != nil {
			return fmt.Errorf("invalid sweep schedule %q: %w", sweepSpec, err)
		}
	}

	s.scheduler.Start()
	return nil
}

// sweepIdempotency drops idempotency records past their TTL.
func (s *Service) sweepIdempotency() {
	s.mu.Lock()
	removed := s.idem.sweep(time.Now())
	retained := s.idem.size()
	s.mu.Unlock()

	s.collector.RecordSweep(removed, retained)
	if removed > 0 {
		s.logger.Debug("idempotency sweep", "removed", removed, "retained", retained)
	}
}

// validateRequest rejects requests that cannot participate in the
// idempotency protocol. Unknown action kinds are not rejected; they
// classify conservatively instead.
func validateRequest(req *DecisionRequest) error {
	if req == nil {
		return NewRequestError("request", "cannot be nil")
	}
	if req.RequestID == "" {
		return NewRequestError("request_id", "cannot be empty")
	}
	if req.TargetPath == "" {
		return NewRequestError("target_path", "cannot be empty")
	}
	if req.Action == "" {
		return NewRequestError("action", "cannot be empty")
	}
	return nil
}

// confidenceFor maps a classification basis to a confidence level: an
// explicit path rule is a strong signal, keyword-only matches are weaker,
// and the default fallback is weakest.
func confidenceFor(basis policy.MatchBasis) router.Level {
	switch basis {
	case policy.BasisPath:
		return router.LevelHigh
	case policy.BasisKeyword:
		return router.LevelMedium
	default:
		return router.LevelLow
	}
}
