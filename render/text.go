package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/giygas/medicines-search/interfaces"
	"github.com/giygas/medicines-search/search"
)

var _ interfaces.Renderer = (*TextRenderer)(nil)

// TextRenderer writes a view as plain text for terminals
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *TextRenderer) Render(w io.Writer, view search.View) error {
	bw := bufio.NewWriter(w)

	if view.Message != "" {
		fmt.Fprintln(bw, view.Message)
		if len(view.Letters) > 0 {
			fmt.Fprintf(bw, "Letters: %s\n", strings.Join(view.Letters, " "))
		}
		return bw.Flush()
	}

	fmt.Fprintf(bw, "Search Results for %q: %d", view.Query, view.TotalResults)
	if view.Letter != "" {
		fmt.Fprintf(bw, " starting with %s", view.Letter)
	}
	fmt.Fprintf(bw, " (page %d of %d)\n", view.Page, view.TotalPages)
	if len(view.Letters) > 0 {
		fmt.Fprintf(bw, "Letters: %s\n", strings.Join(view.Letters, " "))
	}

	for _, rec := range view.Records {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, rec.DisplayName)
		fmt.Fprintln(bw, strings.Repeat("=", len([]rune(rec.DisplayName))))
		fmt.Fprintf(bw, "Therapeutic Class: %s\n", rec.TherapeuticClass)
		fmt.Fprintf(bw, "Chemical Class:    %s\n", rec.ChemicalClass)
		fmt.Fprintf(bw, "Action Class:      %s\n", rec.ActionClass)
		fmt.Fprintf(bw, "Habit Forming:     %s\n", rec.HabitForming)
		fmt.Fprintf(bw, "Use Cases:         %s\n", rec.UseCases)
		fmt.Fprintf(bw, "Side Effects:      %s\n", rec.SideEffects)
		fmt.Fprintln(bw, "Substitutes:")
		for _, s := range rec.Substitutes {
			fmt.Fprintf(bw, "  - %s\n", s)
		}
		if rec.MatchedSubstitute != "" {
			fmt.Fprintf(bw, "Note: '%s' was matched as a substitute.\n", rec.MatchedSubstitute)
		}
	}

	return bw.Flush()
}
