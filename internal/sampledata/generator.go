// Package sampledata generates synthetic judge and student exports shaped
// like the registration forms, for demos and end-to-end tests.
package sampledata

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/jury/internal/adapters/repository"
	"github.com/okian/jury/internal/config"
	"github.com/okian/jury/internal/domain/timeindex"
	"github.com/okian/jury/pkg/logger"
)

// Sentinel errors.
var (
	ErrInvalidOptions = errors.New("invalid sample options")
	ErrTooFewJudges   = errors.New("too few judges to cover any category")
)

// Generation ranges.
const (
	minHoursPerDay   = 2
	maxHoursPerDay   = 4
	maxExtraCategory = 2
	// reviewersPerCategory judges are guaranteed to review each category
	// when there are enough judges.
	reviewersPerCategory = 2
)

var (
	firstNames = []string{"Ada", "Alan", "Grace", "Edsger", "Barbara", "Donald", "Frances", "Ken", "Margaret", "Niklaus", "Radia", "John"}
	lastNames  = []string{"Lovelace", "Turing", "Hopper", "Dijkstra", "Liskov", "Knuth", "Allen", "Thompson", "Hamilton", "Wirth", "Perlman", "Backus"}
)

// Generate builds a reproducible sample for cfg. Every student is placed in
// a category that has at least two paper reviewers, so a sample with enough
// judges always assigns cleanly.
func Generate(ctx context.Context, cfg *config.Config, opts Options) (*Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Judges < 1 || opts.Students < 0 {
		return nil, fmt.Errorf("%w: judges=%d students=%d", ErrInvalidOptions, opts.Judges, opts.Students)
	}
	cols, err := repository.AvailabilityColumns(cfg.AvailabilityColumnFormat, cfg.AvailabilityDays, cfg.Event.Start())
	if err != nil {
		return nil, err
	}

	g := &generator{
		cfg:  cfg,
		cols: cols,
		rng:  rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		seed: opts.Seed,
	}
	judges, covered := g.judges(opts.Judges)
	if len(covered) == 0 && opts.Students > 0 {
		return nil, fmt.Errorf("%w: %d judges for %d categories", ErrTooFewJudges, opts.Judges, len(cfg.Categories))
	}
	students := g.students(opts.Students, covered)

	logger.Get().Info(ctx, "sample generated",
		logger.Int("judges", opts.Judges),
		logger.Int("students", opts.Students),
		logger.Int("categories", len(covered)),
		logger.String("seed", strconv.FormatUint(opts.Seed, 10)))
	return &Sample{Judges: judges, Students: students}, nil
}

type generator struct {
	cfg  *config.Config
	cols []repository.AvailabilityColumn
	rng  *rand.Rand
	seed uint64
}

// judges returns the judge table and the categories with enough reviewers.
func (g *generator) judges(count int) ([][]string, []int) {
	c := g.cfg.JudgeColumns
	header := []string{c.First, c.Last, c.Email, c.Phone, c.Categories, c.Reviewer}
	for _, col := range g.cols {
		header = append(header, col.Name)
	}
	rows := [][]string{header}

	n := len(g.cfg.Categories)
	reviewers := make([]int, n)
	for i := range count {
		cats := []int{i % n}
		for range g.rng.IntN(maxExtraCategory + 1) {
			if extra := g.rng.IntN(n); !slices.Contains(cats, extra) {
				cats = append(cats, extra)
			}
		}
		slices.Sort(cats)
		labels := make([]string, len(cats))
		for k, cat := range cats {
			labels[k] = g.cfg.Categories[cat].JudgeLabel
		}

		reviewer := i < reviewersPerCategory*n || g.rng.IntN(2) == 0
		answer := "No"
		if reviewer {
			answer = "Yes"
			for _, cat := range cats {
				reviewers[cat]++
			}
		}

		first := firstNames[g.rng.IntN(len(firstNames))]
		last := lastNames[g.rng.IntN(len(lastNames))]
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("jury-sample-%d-judge-%d", g.seed, i)))
		row := []string{
			first,
			last,
			fmt.Sprintf("%s.%s.%s@example.org", strings.ToLower(first), strings.ToLower(last), id.String()[:8]),
			fmt.Sprintf("555-%04d", i),
			strings.Join(labels, ", "),
			answer,
		}
		rows = append(rows, append(row, g.availability()...))
	}

	var covered []int
	for cat, k := range reviewers {
		if k >= reviewersPerCategory {
			covered = append(covered, cat)
		}
	}
	return rows, covered
}

// availability fills every day column; at least one day is non-empty.
func (g *generator) availability() []string {
	cells := make([]string, len(g.cols))
	must := g.rng.IntN(len(g.cols))
	start, end := g.cfg.Event.StartHour, g.cfg.Event.EndHour
	for d := range cells {
		if d != must && g.rng.IntN(3) != 0 {
			continue
		}
		want := min(minHoursPerDay+g.rng.IntN(maxHoursPerDay-minHoursPerDay+1), end-start)
		hours := g.rng.Perm(end - start)[:want]
		slices.Sort(hours)
		labels := make([]string, len(hours))
		for k, h := range hours {
			labels[k] = timeindex.HourRangeLabel(start + h)
		}
		cells[d] = strings.Join(labels, ", ")
	}
	return cells
}

func (g *generator) students(count int, covered []int) [][]string {
	c := g.cfg.StudentColumns
	rows := [][]string{{c.Submission, c.Participation, c.Category, c.PosterPDF, c.PaperPDF}}
	answers := []string{AnswerPaper, AnswerPoster, AnswerBoth}
	for i := range count {
		submission := 1000 + i
		answer := answers[g.rng.IntN(len(answers))]
		cat := covered[g.rng.IntN(len(covered))]
		var poster, paper string
		if answer != AnswerPaper {
			poster = fmt.Sprintf("https://example.org/posters/%d.pdf", submission)
		}
		if answer != AnswerPoster {
			paper = fmt.Sprintf("https://example.org/papers/%d.pdf", submission)
		}
		rows = append(rows, []string{
			strconv.Itoa(submission),
			answer,
			g.cfg.Categories[cat].StudentLabel,
			poster,
			paper,
		})
	}
	return rows
}
