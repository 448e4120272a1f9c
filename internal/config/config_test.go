package config_test

import (
	"errors"
	"testing"

	"github.com/okian/jury/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should describe the 2021 event", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
			convey.So(cfg.Event.StartDate, convey.ShouldEqual, "2021-01-18")
			convey.So(cfg.Event.Year(), convey.ShouldEqual, 2021)
			convey.So(cfg.Event.StartHour, convey.ShouldEqual, 8)
			convey.So(cfg.Event.EndHour, convey.ShouldEqual, 20)
			convey.So(len(cfg.AvailabilityDays), convey.ShouldEqual, 5)
			convey.So(len(cfg.Categories), convey.ShouldEqual, 8)
			convey.So(cfg.Categories[4].StudentLabel, convey.ShouldEqual, "Chemistry")
			convey.So(cfg.PaperLimit, convey.ShouldEqual, 0)
			convey.So(cfg.JudgePath(), convey.ShouldEqual, "input/judge_data.csv")
			convey.So(cfg.StudentPath(), convey.ShouldEqual, "input/student_data.csv")
		})
	})

	convey.Convey("Given invalid settings", t, func() {
		cases := map[string]func(*config.Config){
			"no input dir":        func(c *config.Config) { c.InputDir = "" },
			"no error file":       func(c *config.Config) { c.ErrorFile = "" },
			"output over input":   func(c *config.Config) { c.OutputDir = "./input" },
			"output above input":  func(c *config.Config) { c.InputDir, c.OutputDir = "data/input", "data" },
			"output at cwd":       func(c *config.Config) { c.OutputDir = "." },
			"negative limit":      func(c *config.Config) { c.PaperLimit = -1 },
			"bad start date":      func(c *config.Config) { c.Event.StartDate = "18/01/2021" },
			"inverted hours":      func(c *config.Config) { c.Event.StartHour, c.Event.EndHour = 20, 8 },
			"hours past midnight": func(c *config.Config) { c.Event.EndHour = 25 },
			"no days":             func(c *config.Config) { c.Event.Days = 0 },
			"no day labels":       func(c *config.Config) { c.AvailabilityDays = nil },
			"format without day":  func(c *config.Config) { c.AvailabilityColumnFormat = "Availability" },
			"no categories":       func(c *config.Config) { c.Categories = nil },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			if err == nil {
				t.Errorf("%s: expected a validation error", name)
			}
		}
	})

	convey.Convey("Given an output folder beside or inside the input folder", t, func() {
		for _, out := range []string{"data/output", "input/output", "input-output"} {
			cfg := config.New()
			cfg.InputDir = "input"
			cfg.OutputDir = out
			if out == "data/output" {
				cfg.InputDir = "data/input"
			}
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		}
	})
}
