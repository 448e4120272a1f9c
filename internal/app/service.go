// Package service runs one assignment end to end: load the exports, assign
// presentations and papers, audit the result and publish either the reports
// or the diagnostic of the first fatal error.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/okian/jury/internal/adapters/report"
	"github.com/okian/jury/internal/adapters/repository"
	"github.com/okian/jury/internal/config"
	"github.com/okian/jury/internal/domain/assign"
	"github.com/okian/jury/internal/domain/category"
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/timeindex"
	"github.com/okian/jury/internal/domain/verify"
	"github.com/okian/jury/pkg/logger"
	"github.com/okian/jury/pkg/metrics"
)

// Run outcomes, as recorded in metrics.
const (
	OutcomeSuccess              = "success"
	OutcomeMissingInput         = "missing_input"
	OutcomeInvalidInput         = "invalid_input"
	OutcomeCapacityInfeasible   = "capacity_infeasible"
	OutcomeVerificationMismatch = "verification_mismatch"
	OutcomeError                = "error"
)

// Service orchestrates a run.
type Service struct {
	cfg    *config.Config
	source repository.Source
	runID  string
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the run configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithSource replaces the CSV exports named by the configuration. The input
// existence check is skipped for an injected source.
func WithSource(src repository.Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithRunID sets the run id used in logs and the staging directory.
func WithRunID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.runID = id
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Service. Without WithConfig it uses config.New().
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg == nil {
		s.cfg = config.New()
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	s.logger = s.logger.With(logger.String("run_id", s.runID))
	return s
}

// Result describes a finished run.
type Result struct {
	RunID   string
	Summary assign.Summary
	// OutputDir is the absolute output directory.
	OutputDir string
	// ErrorPath is the absolute path of the diagnostic file; empty on
	// success.
	ErrorPath string
}

// Run executes the pipeline. On failure the returned error is the fatal
// one; its diagnostic has already been written to the output directory
// unless that write failed too, in which case both errors are joined.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	w := report.NewWriter(s.cfg.OutputDir,
		report.WithErrorFile(s.cfg.ErrorFile),
		report.WithRunID(s.runID),
		report.WithLogger(s.logger.Named("report")))
	res := &Result{RunID: s.runID, OutputDir: w.Dir()}

	s.logger.Info(ctx, "run started",
		logger.String("input_dir", s.cfg.InputDir),
		logger.String("output_dir", res.OutputDir))

	roster, err := s.execute(ctx, w, res)
	if err != nil {
		s.logger.Error(ctx, "run failed", logger.String("outcome", Classify(err)), logger.Error(err))
		path, werr := w.WriteError(ctx, Diagnostic(err))
		if werr != nil {
			err = errors.Join(err, werr)
		} else {
			res.ErrorPath = path
		}
	}
	s.record(ctx, roster, err, start)
	if err != nil {
		return res, err
	}
	s.logger.Info(ctx, "run finished",
		logger.Int("presentations", res.Summary.Presentations),
		logger.Int("papers", res.Summary.Papers()),
		logger.Float64("seconds", time.Since(start).Seconds()))
	return res, nil
}

// execute returns the roster once built, so metrics see it even when a
// later phase fails.
func (s *Service) execute(ctx context.Context, w *report.Writer, res *Result) (*model.Roster, error) {
	src := s.source
	if src == nil {
		if err := s.checkInputs(); err != nil {
			return nil, err
		}
		cols, err := repository.AvailabilityColumns(s.cfg.AvailabilityColumnFormat, s.cfg.AvailabilityDays, s.cfg.Event.Start())
		if err != nil {
			return nil, err
		}
		src = repository.NewCSVSource(s.cfg.JudgePath(), s.cfg.StudentPath(),
			repository.WithJudgeColumns(repository.JudgeColumns(s.cfg.JudgeColumns)),
			repository.WithStudentColumns(repository.StudentColumns(s.cfg.StudentColumns)),
			repository.WithAvailability(cols...))
	}

	judges, err := src.Judges(ctx)
	if err != nil {
		return nil, err
	}
	students, err := src.Students(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]category.Entry, len(s.cfg.Categories))
	for i, c := range s.cfg.Categories {
		entries[i] = category.Entry(c)
	}
	table, err := category.NewTable(entries)
	if err != nil {
		return nil, err
	}
	idx, err := timeindex.New(s.cfg.Event.StartDate, s.cfg.Event.StartHour, s.cfg.Event.EndHour, s.cfg.Event.Days)
	if err != nil {
		return nil, err
	}
	roster, err := repository.BuildRoster(judges, students, table, idx, model.WithPaperLimit(s.cfg.PaperLimit))
	if err != nil {
		return nil, err
	}
	s.recordInput(ctx, roster)

	engine := assign.New(roster, table, assign.WithLogger(s.logger.Named("assign")))
	res.Summary, err = engine.Run(ctx)
	if err != nil {
		return roster, err
	}
	if err := ctx.Err(); err != nil {
		return roster, fmt.Errorf("verify: %w", err)
	}

	v := verify.New(verify.WithLogger(s.logger.Named("verify")))
	if err := v.Verify(ctx, verify.Input{
		Roster:   roster,
		Table:    table,
		Index:    idx,
		Judges:   judges,
		Students: students,
	}); err != nil {
		return roster, err
	}
	if err := ctx.Err(); err != nil {
		return roster, fmt.Errorf("report: %w", err)
	}
	return roster, w.WriteReports(ctx, roster, idx, table)
}

// checkInputs lists every missing input in folder, student, judge order.
func (s *Service) checkInputs() error {
	var missing []MissingPath
	for _, in := range []MissingPath{
		{Path: s.cfg.InputDir, Kind: "input folder"},
		{Path: s.cfg.StudentPath(), Kind: "input student data"},
		{Path: s.cfg.JudgePath(), Kind: "input judge data"},
	} {
		if _, err := os.Stat(in.Path); err == nil {
			continue
		}
		if abs, err := filepath.Abs(in.Path); err == nil {
			in.Path = abs
		}
		missing = append(missing, in)
	}
	if len(missing) > 0 {
		return &MissingInputError{Paths: missing}
	}
	return nil
}

func (s *Service) recordInput(ctx context.Context, r *model.Roster) {
	var papers, posters int
	for _, st := range r.Students() {
		if st.Paper {
			papers++
		}
		if st.Poster {
			posters++
		}
	}
	metrics.UpdateInputSize(len(r.Judges()), papers, posters)
	s.logger.Info(ctx, "roster loaded",
		logger.Int("judges", len(r.Judges())),
		logger.Int("paper_students", papers),
		logger.Int("poster_students", posters))
}

func (s *Service) record(ctx context.Context, r *model.Roster, err error, start time.Time) {
	finished := time.Now()
	metrics.RecordRun(Classify(err), finished.Sub(start).Seconds(), finished.Unix())
	if err == nil && r != nil {
		for _, j := range r.Judges() {
			metrics.RecordJudgeLoad(len(j.Presentations), len(j.Papers), j.PaperReviewer)
		}
	}
	if s.cfg.MetricsFile == "" {
		return
	}
	if werr := metrics.WriteTextfile(s.cfg.MetricsFile); werr != nil {
		s.logger.Warn(ctx, "metrics textfile not written", logger.String("path", s.cfg.MetricsFile), logger.Error(werr))
	}
}

// Classify maps a run error onto its metrics outcome.
func Classify(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrMissingInput):
		return OutcomeMissingInput
	case errors.Is(err, assign.ErrCapacityInfeasible):
		return OutcomeCapacityInfeasible
	case errors.Is(err, verify.ErrVerificationMismatch):
		return OutcomeVerificationMismatch
	case errors.Is(err, repository.ErrReadInput),
		errors.Is(err, repository.ErrMissingColumn),
		errors.Is(err, repository.ErrMalformedInput),
		errors.Is(err, category.ErrInvalidTable),
		errors.Is(err, timeindex.ErrInvalidWindow):
		return OutcomeInvalidInput
	default:
		return OutcomeError
	}
}

// Diagnostic returns the text written to the error file: the message of the
// typed error when there is one, otherwise the full error chain.
func Diagnostic(err error) string {
	var (
		missing  *MissingInputError
		capacity *assign.CapacityError
		mismatch *verify.VerificationError
	)
	switch {
	case errors.As(err, &missing):
		return missing.Error()
	case errors.As(err, &capacity):
		return capacity.Error()
	case errors.As(err, &mismatch):
		return mismatch.Error() + "\n"
	default:
		return err.Error() + "\n"
	}
}
