// Package metrics provides Prometheus metrics for assignment runs.
package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Phase labels.
const (
	PhasePresentation = "presentation"
	PhasePaper        = "paper"
)

// Paper assignment sources.
const (
	SourceOpportunistic = "opportunistic"
	SourceRound         = "round"
	SourceConflict      = "conflict"
)

// Manager owns every Prometheus collector for a run.
type Manager struct {
	namespace    string
	subsystem    string
	loadBuckets  []float64
	roundBuckets []float64
	registry     *prometheus.Registry

	// Outcome
	runs               *prometheus.CounterVec
	runDurationSeconds prometheus.Gauge
	lastRunTimestamp   prometheus.Gauge

	// Input scale
	judgesTotal   prometheus.Gauge
	studentsTotal *prometheus.GaugeVec

	// Assignment work
	presentationsAssigned prometheus.Counter
	papersAssigned        *prometheus.CounterVec
	conflictsDeferred     prometheus.Counter
	categoryRounds        *prometheus.HistogramVec
	categoryJudges        *prometheus.GaugeVec
	categoryStudents      *prometheus.GaugeVec

	// Fairness
	judgePresentationLoad prometheus.Histogram
	judgePaperLoad        prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry exported by WriteTextfile

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:    "jury",
		subsystem:    "assign",
		loadBuckets:  []float64{0, 1, 2, 3, 4, 5, 7, 10, 15, 20},
		roundBuckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
		registry:     prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for all collectors
	auto := promauto.With(m.registry)

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Assignment runs by outcome",
	}, []string{"outcome"})

	m.runDurationSeconds = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_duration_seconds",
		Help:      "Wall time of the last run",
	})

	m.lastRunTimestamp = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run finished",
	})

	m.judgesTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "judges",
		Help:      "Judges loaded for the last run",
	})

	m.studentsTotal = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "students",
		Help:      "Students loaded for the last run by participation type",
	}, []string{"type"})

	m.presentationsAssigned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "presentations_assigned_total",
		Help:      "Poster presentations assigned to a judge and slot",
	})

	m.papersAssigned = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "papers_assigned_total",
		Help:      "Paper reviewer seats filled by source",
	}, []string{"source"})

	m.conflictsDeferred = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "conflicts_deferred_total",
		Help:      "Paper students deferred because the popping judge already reviews them",
	})

	m.categoryRounds = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "category_rounds",
		Help:      "Rounds needed to drain a category queue",
		Buckets:   m.roundBuckets,
	}, []string{"phase"})

	m.categoryJudges = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "category_judges",
		Help:      "Judge pool size per category bucket",
	}, []string{"phase", "category"})

	m.categoryStudents = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "category_students",
		Help:      "Pending students per category bucket",
	}, []string{"phase", "category"})

	m.judgePresentationLoad = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "judge_presentation_load",
		Help:      "Presentations per judge after a successful run",
		Buckets:   m.loadBuckets,
	})

	m.judgePaperLoad = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "judge_paper_load",
		Help:      "Papers per reviewer after a successful run",
		Buckets:   m.loadBuckets,
	})
}

// RecordRun counts a finished run and its duration.
func RecordRun(outcome string, seconds float64, finishedUnix int64) {
	globalManager.runs.WithLabelValues(outcome).Inc()
	globalManager.runDurationSeconds.Set(seconds)
	globalManager.lastRunTimestamp.Set(float64(finishedUnix))
}

// UpdateInputSize records the loaded roster sizes.
func UpdateInputSize(judges, paperStudents, posterStudents int) {
	globalManager.judgesTotal.Set(float64(judges))
	globalManager.studentsTotal.WithLabelValues("paper").Set(float64(paperStudents))
	globalManager.studentsTotal.WithLabelValues("poster").Set(float64(posterStudents))
}

// RecordPresentationAssigned increments the presentation counter.
func RecordPresentationAssigned() {
	globalManager.presentationsAssigned.Inc()
}

// RecordPaperAssigned increments the paper counter for a source.
func RecordPaperAssigned(source string) {
	globalManager.papersAssigned.WithLabelValues(source).Inc()
}

// RecordConflictDeferred increments the conflict counter.
func RecordConflictDeferred() {
	globalManager.conflictsDeferred.Inc()
}

// RecordCategoryRounds observes the rounds a category took in a phase.
func RecordCategoryRounds(phase string, rounds int) {
	globalManager.categoryRounds.WithLabelValues(phase).Observe(float64(rounds))
}

// UpdateCategoryBucket records bucket sizes for a category in a phase.
func UpdateCategoryBucket(phase string, category int, judges, students int) {
	label := strconv.Itoa(category)
	globalManager.categoryJudges.WithLabelValues(phase, label).Set(float64(judges))
	globalManager.categoryStudents.WithLabelValues(phase, label).Set(float64(students))
}

// RecordJudgeLoad observes one judge's final load.
func RecordJudgeLoad(presentations, papers int, reviewer bool) {
	globalManager.judgePresentationLoad.Observe(float64(presentations))
	if reviewer {
		globalManager.judgePaperLoad.Observe(float64(papers))
	}
}

// WriteTextfile writes the current metrics in the Prometheus text format,
// suitable for a node-exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
