package job

import (
	"context"
	"time"

	"reconciler/core/logger"
	"reconciler/core/reconcile"
	"reconciler/feature/report"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LayoutView is the JSON view of a validated layout.
type LayoutView struct {
	Key       []string `json:"key"`
	Compared  []string `json:"compared"`
	LeftOnly  []string `json:"left_only"`
	RightOnly []string `json:"right_only"`
	Excluded  []string `json:"excluded"`
}

// NewLayoutView converts a layout.
func NewLayoutView(l *reconcile.Layout) LayoutView {
	names := func(cols []reconcile.DataColumn) []string {
		out := make([]string, len(cols))
		for i, c := range cols {
			out[i] = c.Column.Name
		}
		return out
	}
	v := LayoutView{
		Key:      l.KeyNames(),
		Compared: names(l.Data),
		Excluded: append([]string{}, l.Excluded...),
	}
	for _, c := range l.LeftOnly {
		v.LeftOnly = append(v.LeftOnly, c.Name)
	}
	for _, c := range l.RightOnly {
		v.RightOnly = append(v.RightOnly, c.Name)
	}
	return v
}

// Result is the outcome of one run.
type Result struct {
	RunID     string          `json:"run_id"`
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration_ns"`
	Left      string          `json:"left"`
	Right     string          `json:"right"`
	Layout    LayoutView      `json:"layout"`
	Stats     *report.Stats   `json:"stats"`
	Records   []report.Record `json:"records"`
	Truncated bool            `json:"truncated"`
}

// Service runs the configured job.
type Service struct {
	cfg     Config
	sources *Sources
	logger  *zap.Logger
	cache   *resultCache
}

// NewService creates a service.
func NewService(cfg Config, sources *Sources, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:     cfg,
		sources: sources,
		logger:  logger,
		cache:   newResultCache(cfg.CacheTTL()),
	}
}

// Config returns the job configuration.
func (s *Service) Config() Config { return s.cfg }

// streams builds both streams.
func (s *Service) streams() (reconcile.Stream, reconcile.Stream, error) {
	spec := s.cfg.Spec()
	left, err := s.sources.Stream(s.cfg.Left, spec.PrimaryKey, spec.Resolver)
	if err != nil {
		return nil, nil, &reconcile.StreamError{Side: reconcile.SideLeft, Op: "connect", Err: err}
	}
	right, err := s.sources.Stream(s.cfg.Right, spec.PrimaryKey, spec.Resolver)
	if err != nil {
		_ = left.Close()
		return nil, nil, &reconcile.StreamError{Side: reconcile.SideRight, Op: "connect", Err: err}
	}
	return left, right, nil
}

// Run executes the job once. Every extra consumer sees each event after the
// built-in statistics and records.
func (s *Service) Run(ctx context.Context, consumers ...reconcile.Consumer) (*Result, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, &reconcile.ConfigError{Reason: "invalid job", Err: err}
	}

	runID := uuid.NewString()
	l := logger.WithRunID(s.logger, runID)

	left, right, err := s.streams()
	if err != nil {
		return nil, err
	}

	opts := []reconcile.Option{reconcile.WithLogger(l)}
	if s.cfg.OrderCheck {
		opts = append(opts, reconcile.WithOrderCheck())
	}
	if s.cfg.RowEvents {
		opts = append(opts, reconcile.WithRowEvents())
	}
	engine, err := reconcile.NewEngine(s.cfg.Spec(), opts...)
	if err != nil {
		_ = left.Close()
		_ = right.Close()
		return nil, err
	}

	stats := &report.Stats{}
	records := report.NewRecorder(s.cfg.RecordLimit)
	cascade := report.NewCascade(stats, records)
	for _, c := range consumers {
		cascade.Add(c)
	}
	if s.cfg.ContinueOnError {
		cascade.ContinueOnError(l)
	}

	l.Info("Running comparison",
		zap.String("left", s.cfg.Left.Describe()),
		zap.String("right", s.cfg.Right.Describe()),
	)

	started := time.Now()
	layout, err := engine.Run(ctx, left, right, cascade)
	if err != nil {
		return nil, err
	}

	return &Result{
		RunID:     runID,
		StartedAt: started,
		Duration:  time.Since(started),
		Left:      s.cfg.Left.Describe(),
		Right:     s.cfg.Right.Describe(),
		Layout:    NewLayoutView(layout),
		Stats:     stats,
		Records:   records.Records,
		Truncated: records.Truncated,
	}, nil
}

// Compare returns a cached result when one is fresh, otherwise runs the job.
// The boolean reports whether the result came from the cache.
func (s *Service) Compare(ctx context.Context, refresh bool) (*Result, bool, error) {
	return s.cache.get(ctx, refresh, func(ctx context.Context) (*Result, error) {
		return s.Run(ctx)
	})
}

// Layout validates both schemas without reading any row.
func (s *Service) Layout(ctx context.Context) (*reconcile.Layout, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, &reconcile.ConfigError{Reason: "invalid job", Err: err}
	}
	left, right, err := s.streams()
	if err != nil {
		return nil, err
	}
	defer left.Close()
	defer right.Close()

	ls, err := left.Schema(ctx)
	if err != nil {
		return nil, &reconcile.StreamError{Side: reconcile.SideLeft, Op: "schema", Err: err}
	}
	rs, err := right.Schema(ctx)
	if err != nil {
		return nil, &reconcile.StreamError{Side: reconcile.SideRight, Op: "schema", Err: err}
	}
	return reconcile.Validate(ls, rs, s.cfg.Spec())
}
