package sampledata

// Defaults for the generator.
const (
	DefaultJudges   = 40
	DefaultStudents = 60
	DefaultSeed     = 2021
)

// Participation answers as the registration form offers them.
const (
	AnswerPaper  = "Oral Presentation and Paper"
	AnswerPoster = "Poster Presentation"
	AnswerBoth   = AnswerPaper + ", " + AnswerPoster
)

// Options controls the generated population.
type Options struct {
	Judges   int
	Students int
	Seed     uint64
}

// Sample is a pair of CSV tables, header row first.
type Sample struct {
	Judges   [][]string
	Students [][]string
}
