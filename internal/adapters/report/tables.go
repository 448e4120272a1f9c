package report

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/jury/internal/domain/category"
	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/internal/domain/timeindex"
)

// Report file names.
const (
	StudentsFile     = "students.csv"
	PaperJudgesFile  = "paper_judges.csv"
	PosterJudgesFile = "poster_judges.csv"
	JudgesFile       = "judges.csv"
	ScheduleFile     = "presentation_schedule.csv"
)

// Table is one CSV report, header row first.
type Table struct {
	Name string
	Rows [][]string
}

// Tables renders every report for a verified roster.
func Tables(r *model.Roster, idx *timeindex.Index, cats *category.Table) []Table {
	v := view{roster: r, idx: idx, cats: cats}
	return []Table{
		{Name: StudentsFile, Rows: v.students()},
		{Name: PaperJudgesFile, Rows: v.paperJudges()},
		{Name: PosterJudgesFile, Rows: v.posterJudges()},
		{Name: JudgesFile, Rows: v.judges()},
		{Name: ScheduleFile, Rows: v.schedule()},
	}
}

type view struct {
	roster *model.Roster
	idx    *timeindex.Index
	cats   *category.Table
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func (v view) judgeName(ids []model.JudgeID, i int) string {
	if i >= len(ids) {
		return ""
	}
	j, err := v.roster.Judge(ids[i])
	if err != nil {
		return ""
	}
	return j.Name()
}

func (v view) student(id model.StudentID) *model.Student {
	s, err := v.roster.Student(id)
	if err != nil {
		return &model.Student{}
	}
	return s
}

func contact(j *model.Judge) []string {
	return []string{j.First, j.Last, j.Email, j.Phone}
}

func (v view) students() [][]string {
	rows := [][]string{{
		"Submission Number", "Oral/Paper", "Poster", "Category",
		"Paper Judge 1", "Paper Judge 2", "Poster Judge 1", "Poster Date", "Poster Time",
	}}
	for _, s := range v.roster.Students() {
		var date, clock string
		if s.Scheduled {
			date, clock = v.idx.FormatDate(s.Slot), v.idx.FormatClock(s.Slot)
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Submission),
			yesNo(s.Paper),
			yesNo(s.Poster),
			v.cats.Label(s.Category),
			v.judgeName(s.PaperJudges, 0),
			v.judgeName(s.PaperJudges, 1),
			v.judgeName(s.PresentationJudges, 0),
			date,
			clock,
		})
	}
	return rows
}

func (v view) paperJudges() [][]string {
	rows := [][]string{{"First Name", "Last Name", "Email", "Phone", "Assigned Student Number", "Paper PDF"}}
	for _, j := range v.roster.Judges() {
		if !j.PaperReviewer {
			continue
		}
		for _, sid := range j.Papers {
			s := v.student(sid)
			rows = append(rows, append(contact(j), strconv.Itoa(s.Submission), s.PaperPDF))
		}
	}
	return rows
}

// byName returns the judges ordered by first then last name.
func (v view) byName() []*model.Judge {
	judges := slices.Clone(v.roster.Judges())
	slices.SortStableFunc(judges, func(a, b *model.Judge) int {
		return cmp.Or(strings.Compare(a.First, b.First), strings.Compare(a.Last, b.Last))
	})
	return judges
}

// bookings returns the judge's presentations ordered by slot.
func bookings(j *model.Judge) []booking {
	out := make([]booking, len(j.Presentations))
	for i, sid := range j.Presentations {
		out[i] = booking{student: sid, slot: j.PresentationSlots[i]}
	}
	slices.SortStableFunc(out, func(a, b booking) int { return cmp.Compare(a.slot, b.slot) })
	return out
}

type booking struct {
	student model.StudentID
	slot    timeindex.Slot
}

func (v view) posterJudges() [][]string {
	rows := [][]string{{"First Name", "Last Name", "Email", "Phone", "Assigned Student Number", "Date", "Time", "Poster PDF"}}
	for _, j := range v.byName() {
		if j.Capacity() == 0 {
			continue
		}
		for _, b := range bookings(j) {
			s := v.student(b.student)
			rows = append(rows, append(contact(j),
				strconv.Itoa(s.Submission), v.idx.FormatDate(b.slot), v.idx.FormatClock(b.slot), s.PosterPDF))
		}
	}
	return rows
}

func (v view) judges() [][]string {
	rows := [][]string{{"First Name", "Last Name", "Email", "Phone", "Poster Assignments", "Paper Assignments"}}
	for _, j := range v.byName() {
		var posters []string
		for _, b := range bookings(j) {
			posters = append(posters, fmt.Sprintf("Student %d: %s %s",
				v.student(b.student).Submission, v.idx.FormatDate(b.slot), v.idx.FormatClock(b.slot)))
		}
		papers := make([]int, 0, len(j.Papers))
		for _, sid := range j.Papers {
			papers = append(papers, v.student(sid).Submission)
		}
		slices.Sort(papers)
		paperLines := make([]string, len(papers))
		for i, n := range papers {
			paperLines[i] = fmt.Sprintf("Student %d", n)
		}
		rows = append(rows, append(contact(j), strings.Join(posters, "\n"), strings.Join(paperLines, "\n")))
	}
	return rows
}

func (v view) schedule() [][]string {
	rows := [][]string{{
		"Date", "Time", "Student Number",
		"Judge 1 First Name", "Judge 1 Last Name", "Judge 1 Email", "Judge 1 Phone",
	}}
	var posters []*model.Student
	for _, s := range v.roster.Students() {
		if s.Poster && s.Scheduled && len(s.PresentationJudges) > 0 {
			posters = append(posters, s)
		}
	}
	slices.SortFunc(posters, func(a, b *model.Student) int {
		return cmp.Or(cmp.Compare(a.Slot, b.Slot), cmp.Compare(a.Submission, b.Submission))
	})
	for _, s := range posters {
		j, err := v.roster.Judge(s.PresentationJudges[0])
		if err != nil {
			continue
		}
		rows = append(rows, append([]string{
			v.idx.FormatDate(s.Slot), v.idx.FormatClock(s.Slot), strconv.Itoa(s.Submission),
		}, contact(j)...))
	}
	return rows
}
