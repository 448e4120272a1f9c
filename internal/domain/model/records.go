package model

import "time"

// JudgeRecord is one judge row as read from the input, before any parsing.
type JudgeRecord struct {
	// Row is the 1-based data row, header excluded.
	Row        int
	First      string
	Last       string
	Email      string
	Phone      string
	Categories string
	Reviewer   string
	// Availability holds the raw hour-range cell for each configured day,
	// in column order.
	Availability []DayAvailability
}

// DayAvailability is the raw availability cell of one day.
type DayAvailability struct {
	Date time.Time
	Text string
}

// ReviewerAnswer is the exact text that marks a judge as a paper reviewer.
const ReviewerAnswer = "Yes"

// IsReviewer reports whether the record volunteers for paper review.
func (r JudgeRecord) IsReviewer() bool { return r.Reviewer == ReviewerAnswer }

// StudentRecord is one student row as read from the input.
type StudentRecord struct {
	Row           int
	Submission    string
	Participation string
	Category      string
	PosterPDF     string
	PaperPDF      string
}
