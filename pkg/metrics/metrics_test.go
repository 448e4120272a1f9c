package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// sample returns the value of the first series of name whose labels include want.
func sample(name string, want map[string]string) float64 {
	families, err := customRegistry.Gather()
	if err != nil {
		return -1
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := 0
			for _, lp := range m.GetLabel() {
				if want[lp.GetName()] == lp.GetValue() {
					matched++
				}
			}
			if matched != len(want) {
				continue
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			}
		}
	}
	return 0
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it should use the default namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "jury")
				So(manager.subsystem, ShouldEqual, "assign")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithLoadBuckets([]float64{1, 2}),
				WithRoundBuckets([]float64{1}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "unit")
				So(manager.loadBuckets, ShouldResemble, []float64{1, 2})
				So(manager.registry, ShouldEqual, registry)
			})
		})

		Convey("When creating with empty option values", func() {
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithLoadBuckets(nil), WithPrometheusRegistry(nil))

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "jury")
				So(manager.subsystem, ShouldEqual, "assign")
				So(len(manager.loadBuckets), ShouldBeGreaterThan, 0)
				So(manager.registry, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording assignments", func() {
			before := sample("jury_assign_presentations_assigned_total", nil)
			RecordPresentationAssigned()
			RecordPresentationAssigned()

			Convey("Then the presentation counter should advance", func() {
				So(sample("jury_assign_presentations_assigned_total", nil), ShouldEqual, before+2)
			})
		})

		Convey("When recording paper sources", func() {
			before := sample("jury_assign_papers_assigned_total", map[string]string{"source": SourceConflict})
			RecordPaperAssigned(SourceConflict)

			Convey("Then only that source should advance", func() {
				So(sample("jury_assign_papers_assigned_total", map[string]string{"source": SourceConflict}), ShouldEqual, before+1)
			})
		})

		Convey("When updating bucket gauges", func() {
			UpdateCategoryBucket(PhasePaper, 3, 4, 9)

			Convey("Then the gauges should hold the last value", func() {
				So(sample("jury_assign_category_judges", map[string]string{"phase": PhasePaper, "category": "3"}), ShouldEqual, 4)
				So(sample("jury_assign_category_students", map[string]string{"phase": PhasePaper, "category": "3"}), ShouldEqual, 9)
			})
		})

		Convey("When recording the rest", func() {
			So(func() {
				RecordRun("success", 0.25, 1_600_000_000)
				UpdateInputSize(10, 4, 6)
				RecordConflictDeferred()
				RecordCategoryRounds(PhasePresentation, 3)
				RecordJudgeLoad(2, 3, true)
				RecordJudgeLoad(1, 0, false)
			}, ShouldNotPanic)
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given recorded metrics", t, func() {
		RecordRun("success", 1, 1_600_000_000)
		dir := t.TempDir()

		Convey("When writing a textfile", func() {
			path := filepath.Join(dir, "jury.prom")
			err := WriteTextfile(path)

			Convey("Then it should contain the run counter", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(strings.Contains(string(data), "jury_assign_runs_total"), ShouldBeTrue)
			})
		})

		Convey("When the target directory does not exist", func() {
			err := WriteTextfile(filepath.Join(dir, "missing", "jury.prom"))

			Convey("Then it should return an export error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, ErrExportFailed), ShouldBeTrue)
			})
		})
	})
}
