package category

import "strings"

// Participation tokens on the student form.
const (
	PaperToken  = "Oral"
	PosterToken = "Poster"
)

// Participation reports which evaluations a participation-type answer asks
// for: an "Oral" token means a written paper, a "Poster" token a poster slot.
func Participation(text string) (isPaper, isPoster bool) {
	return strings.Contains(text, PaperToken), strings.Contains(text, PosterToken)
}
