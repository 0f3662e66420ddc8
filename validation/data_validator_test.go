package validation

import (
	"reflect"
	"strings"
	"testing"

	"github.com/giygas/medicines-search/dataset"
)

func TestValidateQuery(t *testing.T) {
	v := NewDataValidator()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple name", "paracetamol", false},
		{"name with dosage", "Dolo 650", false},
		{"brackets and percent", "Betadine 5% (100ml)", false},
		{"single letter", "a", false},
		{"accented", "fièvre", false},
		{"blank", "   ", true},
		{"empty", "", true},
		{"long query", strings.Repeat("ab", 51), false},
		{"many words", "a b c d e f g h i j k", false},
		{"markup", "<b>paracetamol</b>", false},
		{"script scheme", "javascript:alert(1)", false},
		{"repetition", "aaaaaaaaaaaa", false},
		{"control character", "para\x00cetamol", true},
		{"tab", "para\tcetamol", true},
		{"invalid UTF-8", "para\xffcetamol", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateQuery(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuery(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLetter(t *testing.T) {
	v := NewDataValidator()

	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"P", false},
		{"p", false},
		{"É", false},
		{"3", false},
		{"(", false},
		{"-", false},
		{"'", false},
		{"[", false},
		{"PA", true},
		{" ", true},
		{"\t", true},
		{"\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := v.ValidateLetter(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLetter(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	v := NewDataValidator()

	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{"", 1, false},
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"two", 0, true},
		{"1000001", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			page, err := v.ParsePage(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePage(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && page != tt.expected {
				t.Errorf("ParsePage(%q) = %d, want %d", tt.input, page, tt.expected)
			}
		})
	}
}

func TestReportDataQuality(t *testing.T) {
	v := NewDataValidator()

	records := []dataset.Record{
		{Name: "Paracetamol", Substitutes: [dataset.SubstituteSlots]string{"Dolo 650"}},
		{Name: "Paracetamol"},
		{Name: ""},
		{Name: "Panadol", Substitutes: [dataset.SubstituteSlots]string{"", "", "Calpol"}},
	}
	schema := dataset.NewSchema(dataset.FieldName, dataset.FieldSubstitute0, dataset.FieldSubstitute1,
		dataset.FieldSubstitute2, dataset.FieldSubstitute3, dataset.FieldSubstitute4)
	ds := dataset.New(records, schema, "test")

	report := v.ReportDataQuality(ds)

	if report.TotalRecords != 4 {
		t.Errorf("Expected 4 records, got %d", report.TotalRecords)
	}
	if report.RecordsWithoutName != 1 {
		t.Errorf("Expected 1 record without name, got %d", report.RecordsWithoutName)
	}
	if !reflect.DeepEqual(report.DuplicateNames, []string{"Paracetamol"}) {
		t.Errorf("Expected duplicate Paracetamol, got %v", report.DuplicateNames)
	}
	if report.RecordsWithSubstitutes != 2 {
		t.Errorf("Expected 2 records with substitutes, got %d", report.RecordsWithSubstitutes)
	}
	if len(report.MissingColumns) != 6 {
		t.Errorf("Expected 6 missing columns, got %v", report.MissingColumns)
	}
}

func TestReportDataQualityNonTextualColumn(t *testing.T) {
	csv := "name,Use_cases\nAspirin,12\nIbuprofen,\n"
	ds, err := dataset.Parse(strings.NewReader(csv), "inline")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	report := NewDataValidator().ReportDataQuality(ds)

	if !reflect.DeepEqual(report.NonTextualSearchColumns, []string{"Use_cases"}) {
		t.Errorf("Expected Use_cases to be reported as non textual, got %v", report.NonTextualSearchColumns)
	}
}

func TestReportDataQualityNilDataset(t *testing.T) {
	report := NewDataValidator().ReportDataQuality(nil)
	if report == nil || report.TotalRecords != 0 {
		t.Errorf("Expected empty report for nil dataset, got %+v", report)
	}
}
