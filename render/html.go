// Package render draws search views. The HTML renderer backs the web page,
// the text renderer backs the command line.
package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/giygas/medicines-search/interfaces"
	"github.com/giygas/medicines-search/search"
)

//go:embed templates/search.html
var searchPageSource string

var searchPageTmpl = template.Must(template.New("search").Funcs(template.FuncMap{
	"letterURL": LetterURL,
}).Parse(searchPageSource))

// Compile-time check to ensure HTMLRenderer implements Renderer
var _ interfaces.Renderer = (*HTMLRenderer)(nil)

// HTMLRenderer renders the search page
type HTMLRenderer struct{}

// NewHTMLRenderer creates the HTML renderer
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

func (r *HTMLRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the full page for view
func (r *HTMLRenderer) Render(w io.Writer, view search.View) error {
	if err := searchPageTmpl.Execute(w, view); err != nil {
		return fmt.Errorf("rendering search page: %w", err)
	}
	return nil
}

// LetterURL returns the page URL selecting letter for query. An empty letter
// clears the filter.
func LetterURL(query, letter string) string {
	values := url.Values{}
	values.Set("q", query)
	if letter != "" {
		values.Set("letter", letter)
	}
	return "/?" + values.Encode()
}
