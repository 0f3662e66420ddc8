package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/medicines-search/dataset"
)

// Messages shown instead of results
const (
	MessagePrompt          = "Please enter a word to search."
	MessageNoResults       = "No results found."
	MessageNoLetterResults = "No results found for the selected letter."
)

// Phase is the step of the search session
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseResults
)

func (p Phase) String() string {
	if p == PhaseResults {
		return "results"
	}
	return "idle"
}

// State is the search session: the last query, its matches in dataset order,
// the letter filter ("" for none) and the current page. Transitions return a
// new State and never modify the receiver.
type State struct {
	Phase   Phase
	Query   string
	Matches []dataset.Record
	Letter  string
	Page    int

	slots substituteSlots
}

// NewState returns the idle state of a fresh session
func NewState() State {
	return State{Phase: PhaseIdle, Page: 1}
}

// WithResults returns the results state for a query and its matches, with no
// letter filter and the first page selected
func WithResults(query string, matches []dataset.Record) State {
	return State{
		Phase:   PhaseResults,
		Query:   query,
		Matches: matches,
		Page:    1,
		slots:   allSlots,
	}
}

// withSchema limits substitute swapping to the text columns of schema
func (s State) withSchema(schema dataset.Schema) State {
	s.slots = textualSlots(schema)
	return s
}

// SelectLetter sets the letter filter and goes back to the first page.
// Only the first rune of letter is kept, uppercased. "" clears the filter.
func (s State) SelectLetter(letter string) State {
	if s.Phase != PhaseResults {
		return s
	}
	s.Letter = NormalizeLetter(letter)
	s.Page = 1
	return s
}

// SelectPage moves to page, clamped to the available pages
func (s State) SelectPage(page int) State {
	if s.Phase != PhaseResults {
		return s
	}
	total := TotalPages(len(s.Filtered()), PageSize)
	switch {
	case page < 1 || total == 0:
		page = 1
	case page > total:
		page = total
	}
	s.Page = page
	return s
}

// Filtered returns the matches after the letter filter
func (s State) Filtered() []dataset.Record {
	return FilterByLetter(s.Matches, s.Letter)
}

// View is everything a renderer needs to draw the current state
type View struct {
	Phase        string          `json:"phase"`
	Query        string          `json:"query"`
	Letter       string          `json:"letter,omitempty"`
	Page         int             `json:"page"`
	PageSize     int             `json:"page_size"`
	TotalPages   int             `json:"total_pages"`
	TotalMatches int             `json:"total_matches"`
	TotalResults int             `json:"total_results"`
	Letters      []string        `json:"letters"`
	Records      []DisplayRecord `json:"records"`
	Message      string          `json:"message,omitempty"`
}

// HasResults reports whether the view has records to show
func (v View) HasResults() bool {
	return len(v.Records) > 0
}

// Pages lists the page numbers 1..TotalPages for a page selector
func (v View) Pages() []int {
	pages := make([]int, v.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// View filters by letter, paginates and dedupes the current page
func (s State) View() View {
	view := View{
		Phase:    s.Phase.String(),
		Query:    s.Query,
		Letter:   s.Letter,
		Page:     s.Page,
		PageSize: PageSize,
		Letters:  []string{},
		Records:  []DisplayRecord{},
	}

	if s.Phase != PhaseResults {
		view.Message = MessagePrompt
		return view
	}

	view.TotalMatches = len(s.Matches)
	if view.TotalMatches == 0 {
		view.Message = MessageNoResults
		return view
	}

	// Letter buttons only make sense when there is something to narrow down
	if view.TotalMatches > 1 {
		view.Letters = StartingLetters(s.Matches)
	}

	filtered := s.Filtered()
	view.TotalResults = len(filtered)
	if view.TotalResults == 0 {
		view.Message = MessageNoLetterResults
		return view
	}

	view.TotalPages = TotalPages(view.TotalResults, PageSize)
	page := Paginate(filtered, PageSize, s.Page)
	view.Records = dedupe(page, s.Query, s.slots)

	return view
}

// NormalizeLetter keeps the first rune of letter, uppercased
func NormalizeLetter(letter string) string {
	letter = strings.TrimSpace(letter)
	if letter == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(letter)
	return string(unicode.ToUpper(r))
}
