// Package config defines the run configuration and how it is loaded.
//
// Conventions:
//   - New returns the defaults of the January 2021 event; Load layers a YAML file
//     and JURY_ environment variables on top.
//   - Slice settings (categories, availability days) are replaced, never
//     merged, when a layer sets them.
//   - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" yaml:"log_level"`

	// InputDir holds the judge and student exports.
	InputDir    string `koanf:"input_dir" yaml:"input_dir"`
	JudgeFile   string `koanf:"judge_file" yaml:"judge_file"`
	StudentFile string `koanf:"student_file" yaml:"student_file"`

	// OutputDir is replaced on every run.
	OutputDir string `koanf:"output_dir" yaml:"output_dir"`
	ErrorFile string `koanf:"error_file" yaml:"error_file"`

	// MetricsFile, when set, receives the run metrics in Prometheus text
	// format.
	MetricsFile string `koanf:"metrics_file" yaml:"metrics_file"`

	// PaperLimit caps papers per reviewer; 0 disables the cap.
	PaperLimit int `koanf:"paper_limit" yaml:"paper_limit"`

	Event Event `koanf:"event" yaml:"event"`

	// AvailabilityDays are the day labels substituted into
	// AvailabilityColumnFormat, one judge column per day.
	AvailabilityDays         []string `koanf:"availability_days" yaml:"availability_days"`
	AvailabilityColumnFormat string   `koanf:"availability_column_format" yaml:"availability_column_format"`

	JudgeColumns   JudgeColumns   `koanf:"judge_columns" yaml:"judge_columns"`
	StudentColumns StudentColumns `koanf:"student_columns" yaml:"student_columns"`

	// Categories are listed in id order.
	Categories []Category `koanf:"categories" yaml:"categories"`
}

// Event is the presentation window.
type Event struct {
	// StartDate is the first day, YYYY-MM-DD.
	StartDate string `koanf:"start_date" yaml:"start_date"`
	// StartHour and EndHour bound each day in 24-hour clock, end exclusive.
	StartHour int `koanf:"start_hour" yaml:"start_hour"`
	EndHour   int `koanf:"end_hour" yaml:"end_hour"`
	Days      int `koanf:"days" yaml:"days"`
}

// Start returns StartDate at midnight UTC, or the zero time when it does not
// parse.
func (e Event) Start() time.Time {
	t, err := time.Parse(time.DateOnly, e.StartDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Year returns the year of StartDate, or 0 when it does not parse.
func (e Event) Year() int {
	if t := e.Start(); !t.IsZero() {
		return t.Year()
	}
	return 0
}

// JudgeColumns names the judge export's header cells.
type JudgeColumns struct {
	First      string `koanf:"first" yaml:"first"`
	Last       string `koanf:"last" yaml:"last"`
	Email      string `koanf:"email" yaml:"email"`
	Phone      string `koanf:"phone" yaml:"phone"`
	Categories string `koanf:"categories" yaml:"categories"`
	Reviewer   string `koanf:"reviewer" yaml:"reviewer"`
}

// StudentColumns names the student export's header cells.
type StudentColumns struct {
	Submission    string `koanf:"submission" yaml:"submission"`
	Participation string `koanf:"participation" yaml:"participation"`
	Category      string `koanf:"category" yaml:"category"`
	PosterPDF     string `koanf:"poster_pdf" yaml:"poster_pdf"`
	PaperPDF      string `koanf:"paper_pdf" yaml:"paper_pdf"`
}

// Category maps one competition category to the answer texts of both forms.
type Category struct {
	Label        string `koanf:"label" yaml:"label"`
	JudgeLabel   string `koanf:"judge_label" yaml:"judge_label"`
	StudentLabel string `koanf:"student_label" yaml:"student_label"`
}

// New returns the defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		InputDir:    "input",
		JudgeFile:   "judge_data.csv",
		StudentFile: "student_data.csv",
		OutputDir:   "output",
		ErrorFile:   "error.txt",
		Event: Event{
			StartDate: "2021-01-18",
			StartHour: 8,
			EndHour:   20,
			Days:      5,
		},
		AvailabilityDays: []string{
			"Monday, January 18",
			"Tuesday, January 19",
			"Wednesday, January 20",
			"Thursday, January 21",
			"Friday, January 22",
		},
		AvailabilityColumnFormat: "Availability for Poster and/or Oral Evaluation for Monday, January 18-Friday, January 22, 8:00am - 8:00pm. (Please select  a minimum of 2, but more is appriciated.) [{day}]",
		JudgeColumns: JudgeColumns{
			First:      "First Name",
			Last:       "Last Name",
			Email:      "Email Address",
			Phone:      "Cell Phone Number",
			Categories: "What categories would you would prefer to review and/or judge?",
			Reviewer:   "Would you like to volunteer as a paper reviewer?",
		},
		StudentColumns: StudentColumns{
			Submission:    "Submission Number",
			Participation: "Participation Type",
			Category:      "Research Category of Competition. Please note: your chosen category is not guaranteed.",
			PosterPDF:     "Upload Digital Poster as PDF.",
			PaperPDF:      "Upload Full Paper as PDF.",
		},
		Categories: []Category{
			{
				Label:        "Medicine & Health/Behavioral Sci",
				JudgeLabel:   "Medicine and Health; Behavioral and Social Sciences",
				StudentLabel: "Medicine & Health/Behavioral Sci",
			},
			{
				Label:        "Life Sciences",
				JudgeLabel:   "Life sciences (general biology—animal sciences, plant sci, ecology; cellular and molecular bio, genetics, immunology, bio)",
				StudentLabel: "Life Sciences",
			},
			{
				Label:        "Engineering & Technology",
				JudgeLabel:   "Engineering; technology (including renewable energies, robotics)",
				StudentLabel: "Engineering & Technology",
			},
			{
				Label:        "Environmental Sciences",
				JudgeLabel:   "Environmental science (pollution and impact upon ecosystems, environmental management, bioremediation, climatology, weather)",
				StudentLabel: "Environmental Sciences",
			},
			{
				Label:        "Chemistry",
				JudgeLabel:   "Chemistry (including chemistry-physical, organic, inorganic; earth science-geochemistry; materials science, alternative fuels)",
				StudentLabel: "Chemistry",
			},
			{
				Label:        "Mathematics & Computer Science",
				JudgeLabel:   "Mathematics and Computer science/computer engineering; applied mathematics-theoretical computer science",
				StudentLabel: "Mathematics & Computer Science",
			},
			{
				Label:        "Physical Sciences",
				JudgeLabel:   "Physical Sciences – physics; computational astronomy; theoretical mathematics",
				StudentLabel: "Physical Sciences",
			},
			{
				Label:        "Biomedical Sciences",
				JudgeLabel:   "Biomedical Sciences, Molecular/Cellular",
				StudentLabel: "Biomedical Sciences",
			},
		},
	}
}

// JudgePath is the judge export inside InputDir.
func (c *Config) JudgePath() string { return filepath.Join(c.InputDir, c.JudgeFile) }

// StudentPath is the student export inside InputDir.
func (c *Config) StudentPath() string { return filepath.Join(c.InputDir, c.StudentFile) }

// Validate reports the first setting that cannot drive a run.
func (c *Config) Validate() error {
	switch {
	case c.InputDir == "" || c.JudgeFile == "" || c.StudentFile == "":
		return fmt.Errorf("%w: input_dir, judge_file and student_file must be set", ErrInvalidConfig)
	case c.OutputDir == "" || c.ErrorFile == "":
		return fmt.Errorf("%w: output_dir and error_file must be set", ErrInvalidConfig)
	case filepath.Clean(c.OutputDir) == filepath.Clean(c.InputDir):
		return fmt.Errorf("%w: output_dir must differ from input_dir", ErrInvalidConfig)
	case contains(c.OutputDir, c.InputDir):
		return fmt.Errorf("%w: output_dir %q must not contain input_dir %q", ErrInvalidConfig, c.OutputDir, c.InputDir)
	case c.PaperLimit < 0:
		return fmt.Errorf("%w: paper_limit must not be negative", ErrInvalidConfig)
	case c.Event.Year() == 0:
		return fmt.Errorf("%w: event.start_date %q is not YYYY-MM-DD", ErrInvalidConfig, c.Event.StartDate)
	case c.Event.StartHour < 0 || c.Event.EndHour > 24 || c.Event.StartHour >= c.Event.EndHour:
		return fmt.Errorf("%w: event hours [%d, %d) are not a window within a day",
			ErrInvalidConfig, c.Event.StartHour, c.Event.EndHour)
	case c.Event.Days < 1:
		return fmt.Errorf("%w: event.days must be positive", ErrInvalidConfig)
	case len(c.AvailabilityDays) == 0:
		return fmt.Errorf("%w: availability_days must not be empty", ErrInvalidConfig)
	case !strings.Contains(c.AvailabilityColumnFormat, "{day}"):
		return fmt.Errorf("%w: availability_column_format must contain {day}", ErrInvalidConfig)
	case len(c.Categories) == 0:
		return fmt.Errorf("%w: categories must not be empty", ErrInvalidConfig)
	}
	return nil
}

// contains reports whether dir is path or one of its ancestors. Publishing
// replaces the whole output directory, so it must never hold the inputs.
func contains(dir, path string) bool {
	d, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	p, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(d, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
