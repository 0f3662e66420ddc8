// Package search implements the medicines search: substring matching over the
// searchable columns, substitute name swapping, deduplication, first letter
// filtering and pagination, plus the per-session SearchState built on them.
package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/medicines-search/dataset"
)

// PageSize is the number of records shown per page
const PageSize = 15

// DisplayRecord is a record as shown for one query: its display name is the
// matched substitute when the query hit one of the substitute slots.
type DisplayRecord struct {
	dataset.Record
	DisplayName       string `json:"display_name"`
	MatchedSubstitute string `json:"matched_substitute,omitempty"`
}

// Search returns the records where the query is a case-insensitive substring
// of at least one searchable column, in dataset order.
func Search(ds *dataset.Dataset, query string) []dataset.Record {
	if ds == nil || query == "" {
		return nil
	}

	needle := strings.ToLower(query)
	fields := ds.Schema().Searchable()
	records := ds.Records()

	var matches []dataset.Record
	for i := range records {
		if matchesAny(&records[i], fields, needle) {
			matches = append(matches, records[i])
		}
	}
	return matches
}

func matchesAny(r *dataset.Record, fields []dataset.Field, needle string) bool {
	for _, f := range fields {
		value := r.Value(f)
		if value != "" && strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

// substituteSlots marks the substitute slots a display name may come from
type substituteSlots [dataset.SubstituteSlots]bool

var allSlots = substituteSlots{true, true, true, true, true}

// textualSlots keeps the slots whose column holds text in schema
func textualSlots(schema dataset.Schema) substituteSlots {
	var slots substituteSlots
	for i := range slots {
		slots[i] = schema.Textual(dataset.SubstituteField(i))
	}
	return slots
}

// DeriveDisplayName returns the first substitute (slot 0 to 4) containing the
// query, or the record name when none does. matched is empty in that case.
func DeriveDisplayName(r dataset.Record, query string) (displayName string, matched string) {
	return deriveDisplayName(r, query, allSlots)
}

func deriveDisplayName(r dataset.Record, query string, slots substituteSlots) (string, string) {
	needle := strings.ToLower(query)
	for i, substitute := range r.Substitutes {
		if !slots[i] || substitute == "" {
			continue
		}
		if strings.Contains(strings.ToLower(substitute), needle) {
			return substitute, substitute
		}
	}
	return r.Name, ""
}

// Dedupe converts records to display records and drops every record whose
// display name was already emitted. First occurrences keep their order.
func Dedupe(records []dataset.Record, query string) []DisplayRecord {
	return dedupe(records, query, allSlots)
}

func dedupe(records []dataset.Record, query string, slots substituteSlots) []DisplayRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]DisplayRecord, 0, len(records))

	for _, r := range records {
		name, matched := deriveDisplayName(r, query, slots)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, DisplayRecord{
			Record:            r,
			DisplayName:       name,
			MatchedSubstitute: matched,
		})
	}
	return out
}

// FilterByLetter keeps the records whose name starts with letter, ignoring
// case. An empty letter means no filter and returns matches unchanged.
func FilterByLetter(matches []dataset.Record, letter string) []dataset.Record {
	if letter == "" {
		return matches
	}

	prefix := strings.ToLower(letter)
	filtered := make([]dataset.Record, 0)
	for _, r := range matches {
		if strings.HasPrefix(strings.ToLower(r.Name), prefix) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// TotalPages returns ceil(total/pageSize), 0 when there is nothing to show
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Paginate returns the 1-based page of records. Pages outside
// [1, TotalPages] are empty.
func Paginate(records []dataset.Record, pageSize, pageNumber int) []dataset.Record {
	if pageSize <= 0 || pageNumber < 1 {
		return nil
	}

	start := (pageNumber - 1) * pageSize
	if start >= len(records) {
		return nil
	}
	end := min(start+pageSize, len(records))

	return records[start:end:end]
}

// StartingLetters returns the sorted, unique, uppercased first letters of the
// record names
func StartingLetters(matches []dataset.Record) []string {
	set := make(map[string]struct{})
	for _, r := range matches {
		first, size := utf8.DecodeRuneInString(r.Name)
		if size == 0 || first == utf8.RuneError || unicode.IsSpace(first) || unicode.IsControl(first) {
			continue
		}
		set[string(unicode.ToUpper(first))] = struct{}{}
	}

	letters := make([]string, 0, len(set))
	for l := range set {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return letters
}
