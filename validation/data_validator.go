// Package validation provides input validation and dataset quality reporting
// for the medicines search service.
package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/medicines-search/dataset"
	"github.com/giygas/medicines-search/interfaces"
)

const maxPage = 100000

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// Compile-time check to ensure DataValidatorImpl implements DataValidator
var _ interfaces.DataValidator = (*DataValidatorImpl)(nil)

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateQuery validates a search query. Any text is searchable, output
// is escaped by the renderers, so only input that cannot come from a form is
// refused.
func (v *DataValidatorImpl) ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query cannot be empty")
	}

	if !utf8.ValidString(query) {
		return fmt.Errorf("query is not valid UTF-8")
	}

	for _, r := range query {
		if unicode.IsControl(r) {
			return fmt.Errorf("query contains control characters")
		}
	}

	return nil
}

// ValidateLetter accepts an empty value or a single visible character. Names
// may start with punctuation such as "(" or "-", and those are offered as
// filters too.
func (v *DataValidatorImpl) ValidateLetter(letter string) error {
	if letter == "" {
		return nil
	}

	if utf8.RuneCountInString(letter) != 1 {
		return fmt.Errorf("letter filter must be a single character")
	}

	r, _ := utf8.DecodeRuneInString(letter)
	if r == utf8.RuneError || unicode.IsControl(r) || unicode.IsSpace(r) {
		return fmt.Errorf("letter filter must be a visible character")
	}

	return nil
}

// ParsePage parses a 1-based page number. Pages past the end are clamped by
// the search state, so only malformed values are rejected here.
func (v *DataValidatorImpl) ParsePage(input string) (int, error) {
	if input == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("page must be a number")
	}

	if page < 1 || page > maxPage {
		return 0, fmt.Errorf("page must be between 1 and %d", maxPage)
	}

	return page, nil
}

// ReportDataQuality inspects a dataset and lists its issues
func (v *DataValidatorImpl) ReportDataQuality(ds *dataset.Dataset) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{}
	if ds == nil {
		return report
	}

	report.TotalRecords = ds.Len()

	nameCount := make(map[string]int, ds.Len())
	for _, r := range ds.Records() {
		if r.Name == "" {
			report.RecordsWithoutName++
		} else {
			nameCount[r.Name]++
		}

		for _, s := range r.Substitutes {
			if s != "" {
				report.RecordsWithSubstitutes++
				break
			}
		}
	}

	for name, count := range nameCount {
		if count > 1 {
			report.DuplicateNames = append(report.DuplicateNames, name)
		}
	}
	sort.Strings(report.DuplicateNames)

	schema := ds.Schema()
	report.MissingColumns = schema.Missing()
	for _, f := range dataset.SearchFields {
		if schema.Present(f) && !schema.Textual(f) {
			report.NonTextualSearchColumns = append(report.NonTextualSearchColumns, f.Column())
		}
	}

	return report
}
