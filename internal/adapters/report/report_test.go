package report_test

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/jury/internal/adapters/report"
	"github.com/okian/jury/internal/domain/category"
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/timeindex"
	"github.com/okian/jury/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func init() {
	if err := logger.InitWithWriter(discard{}); err != nil {
		panic(err)
	}
}

type fixture struct {
	roster *model.Roster
	idx    *timeindex.Index
	cats   *category.Table
}

func newFixture() fixture {
	idx, err := timeindex.New("2021-01-18", 8, 20, 2)
	So(err, ShouldBeNil)
	cats, err := category.NewTable([]category.Entry{
		{Label: "Chemistry", JudgeLabel: "Chemistry (judge)", StudentLabel: "Chemistry"},
		{Label: "Physics", JudgeLabel: "Physics (judge)", StudentLabel: "Physics"},
	})
	So(err, ShouldBeNil)

	r := model.NewRoster()
	zed := r.AddJudge(model.Judge{First: "Zed", Last: "Adams", Email: "zed@example.org", Phone: "1",
		Categories: []category.ID{0}, PaperReviewer: true, Availability: []timeindex.Slot{0, 1, 2, 3}})
	brown := r.AddJudge(model.Judge{First: "Amy", Last: "Brown", Email: "brown@example.org", Phone: "2",
		Categories: []category.ID{1}, Availability: []timeindex.Slot{24, 25}})
	allen := r.AddJudge(model.Judge{First: "Amy", Last: "Allen", Email: "allen@example.org", Phone: "3",
		Categories: []category.ID{0}, PaperReviewer: true})

	s200, _ := r.AddStudent(model.Student{Submission: 200, Paper: true, Poster: true, Category: 0,
		PosterPDF: "p200.pdf", PaperPDF: "f200.pdf"})
	s150, _ := r.AddStudent(model.Student{Submission: 150, Poster: true, Category: 1, PosterPDF: "p150.pdf"})
	s100, _ := r.AddStudent(model.Student{Submission: 100, Paper: true, Category: 0, PaperPDF: "f100.pdf"})

	for _, step := range []func() (model.Outcome, error){
		func() (model.Outcome, error) { return r.AssignPresentation(zed.ID, s200.ID, 1) },
		func() (model.Outcome, error) { return r.AssignPresentation(brown.ID, s150.ID, 24) },
		func() (model.Outcome, error) { return r.AssignPaper(zed.ID, s200.ID) },
		func() (model.Outcome, error) { return r.AssignPaper(allen.ID, s200.ID) },
		func() (model.Outcome, error) { return r.AssignPaper(allen.ID, s100.ID) },
		func() (model.Outcome, error) { return r.AssignPaper(zed.ID, s100.ID) },
	} {
		out, err := step()
		So(err, ShouldBeNil)
		So(out, ShouldEqual, model.Assigned)
	}
	return fixture{roster: r, idx: idx, cats: cats}
}

func TestTables(t *testing.T) {
	Convey("Given a finished roster", t, func() {
		f := newFixture()
		tables := report.Tables(f.roster, f.idx, f.cats)
		byName := map[string][][]string{}
		for _, tbl := range tables {
			byName[tbl.Name] = tbl.Rows
		}

		Convey("Then all five reports are rendered", func() {
			So(len(tables), ShouldEqual, 5)
		})

		Convey("Then students are listed in roster order", func() {
			So(byName[report.StudentsFile], ShouldResemble, [][]string{
				{"Submission Number", "Oral/Paper", "Poster", "Category", "Paper Judge 1", "Paper Judge 2", "Poster Judge 1", "Poster Date", "Poster Time"},
				{"200", "Yes", "Yes", "Chemistry", "Zed Adams", "Amy Allen", "Zed Adams", "January 18, 2021", "08:30 AM"},
				{"150", "No", "Yes", "Physics", "", "", "Amy Brown", "January 19, 2021", "08:00 AM"},
				{"100", "Yes", "No", "Chemistry", "Amy Allen", "Zed Adams", "", "", ""},
			})
		})

		Convey("Then paper rows follow each reviewer's assignment order", func() {
			So(byName[report.PaperJudgesFile], ShouldResemble, [][]string{
				{"First Name", "Last Name", "Email", "Phone", "Assigned Student Number", "Paper PDF"},
				{"Zed", "Adams", "zed@example.org", "1", "200", "f200.pdf"},
				{"Zed", "Adams", "zed@example.org", "1", "100", "f100.pdf"},
				{"Amy", "Allen", "allen@example.org", "3", "200", "f200.pdf"},
				{"Amy", "Allen", "allen@example.org", "3", "100", "f100.pdf"},
			})
		})

		Convey("Then poster rows are sorted by judge name and skip judges without availability", func() {
			So(byName[report.PosterJudgesFile], ShouldResemble, [][]string{
				{"First Name", "Last Name", "Email", "Phone", "Assigned Student Number", "Date", "Time", "Poster PDF"},
				{"Amy", "Brown", "brown@example.org", "2", "150", "January 19, 2021", "08:00 AM", "p150.pdf"},
				{"Zed", "Adams", "zed@example.org", "1", "200", "January 18, 2021", "08:30 AM", "p200.pdf"},
			})
		})

		Convey("Then the judge summary uses multi-line cells", func() {
			So(byName[report.JudgesFile], ShouldResemble, [][]string{
				{"First Name", "Last Name", "Email", "Phone", "Poster Assignments", "Paper Assignments"},
				{"Amy", "Allen", "allen@example.org", "3", "", "Student 100\nStudent 200"},
				{"Amy", "Brown", "brown@example.org", "2", "Student 150: January 19, 2021 08:00 AM", ""},
				{"Zed", "Adams", "zed@example.org", "1", "Student 200: January 18, 2021 08:30 AM", "Student 100\nStudent 200"},
			})
		})

		Convey("Then the schedule is ordered by slot", func() {
			So(byName[report.ScheduleFile], ShouldResemble, [][]string{
				{"Date", "Time", "Student Number", "Judge 1 First Name", "Judge 1 Last Name", "Judge 1 Email", "Judge 1 Phone"},
				{"January 18, 2021", "08:30 AM", "200", "Zed", "Adams", "zed@example.org", "1"},
				{"January 19, 2021", "08:00 AM", "150", "Amy", "Brown", "brown@example.org", "2"},
			})
		})
	})
}

func readCSV(path string) [][]string {
	f, err := os.Open(path)
	So(err, ShouldBeNil)
	defer func() { _ = f.Close() }()
	rows, err := csv.NewReader(f).ReadAll()
	So(err, ShouldBeNil)
	return rows
}

func entries(dir string) []string {
	list, err := os.ReadDir(dir)
	So(err, ShouldBeNil)
	names := make([]string, len(list))
	for i, e := range list {
		names[i] = e.Name()
	}
	return names
}

func TestWriter(t *testing.T) {
	ctx := context.Background()

	Convey("Given an output directory left over from a previous run", t, func() {
		root := t.TempDir()
		out := filepath.Join(root, "output")
		So(os.MkdirAll(out, 0o755), ShouldBeNil)
		So(os.WriteFile(filepath.Join(out, "stale.csv"), []byte("old"), 0o600), ShouldBeNil)

		w := report.NewWriter(out, report.WithRunID("run-1"), report.WithErrorFile("failure.txt"))

		Convey("When the reports are written", func() {
			f := newFixture()
			err := w.WriteReports(ctx, f.roster, f.idx, f.cats)

			Convey("Then the directory holds exactly the five reports", func() {
				So(err, ShouldBeNil)
				So(entries(out), ShouldResemble, []string{
					report.JudgesFile, report.PaperJudgesFile, report.PosterJudgesFile,
					report.ScheduleFile, report.StudentsFile,
				})
				So(entries(root), ShouldResemble, []string{"output"})
			})

			Convey("Then the files read back as the rendered tables", func() {
				for _, tbl := range report.Tables(f.roster, f.idx, f.cats) {
					So(readCSV(filepath.Join(out, tbl.Name)), ShouldResemble, tbl.Rows)
				}
			})
		})

		Convey("When an error is written", func() {
			path, err := w.WriteError(ctx, "The category Physics did not have enough judges.\n")

			Convey("Then only the diagnostic remains", func() {
				So(err, ShouldBeNil)
				So(filepath.IsAbs(path), ShouldBeTrue)
				So(path, ShouldEqual, filepath.Join(out, "failure.txt"))
				So(entries(out), ShouldResemble, []string{"failure.txt"})
				body, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(body), ShouldEqual, "The category Physics did not have enough judges.\n")
			})
		})

		Convey("When the staging location cannot be created", func() {
			blocked := filepath.Join(root, "file")
			So(os.WriteFile(blocked, []byte("x"), 0o600), ShouldBeNil)
			w := report.NewWriter(filepath.Join(blocked, "output"))

			_, err := w.WriteError(ctx, "boom")

			Convey("Then a write error is returned", func() {
				So(errors.Is(err, report.ErrWriteReport), ShouldBeTrue)
			})
		})
	})
}
