// Package dataset holds the medicines table: the Record type, the column schema
// detected at load time and the loader that reads a CSV/TSV file into memory.
package dataset

// SubstituteSlots is the number of substitute name columns in the table
const SubstituteSlots = 5

// Field identifies one known column of the medicines table
type Field int

const (
	FieldName Field = iota
	FieldSubstitute0
	FieldSubstitute1
	FieldSubstitute2
	FieldSubstitute3
	FieldSubstitute4
	FieldTherapeuticClass
	FieldChemicalClass
	FieldActionClass
	FieldHabitForming
	FieldUseCases
	FieldSideEffects

	fieldCount
)

// columnNames maps every field to its header in the source file
var columnNames = [fieldCount]string{
	FieldName:             "name",
	FieldSubstitute0:      "substitute0",
	FieldSubstitute1:      "substitute1",
	FieldSubstitute2:      "substitute2",
	FieldSubstitute3:      "substitute3",
	FieldSubstitute4:      "substitute4",
	FieldTherapeuticClass: "Therapeutic Class",
	FieldChemicalClass:    "Chemical Class",
	FieldActionClass:      "Action Class",
	FieldHabitForming:     "Habit Forming",
	FieldUseCases:         "Use_cases",
	FieldSideEffects:      "Side_Effects",
}

// SearchFields are the columns a query is matched against, in match order
var SearchFields = []Field{
	FieldName,
	FieldSubstitute0,
	FieldSubstitute1,
	FieldSubstitute2,
	FieldSubstitute3,
	FieldSubstitute4,
	FieldTherapeuticClass,
	FieldUseCases,
}

// Column returns the header name of the field in the source file
func (f Field) Column() string {
	if f < 0 || f >= fieldCount {
		return ""
	}
	return columnNames[f]
}

func (f Field) String() string {
	return f.Column()
}

// SubstituteField returns the field of the given substitute slot (0-4)
func SubstituteField(slot int) Field {
	return FieldSubstitute0 + Field(slot)
}

// Record is one medicine row. Empty strings stand for absent values.
type Record struct {
	Name             string                  `json:"name"`
	Substitutes      [SubstituteSlots]string `json:"substitutes"`
	TherapeuticClass string                  `json:"therapeutic_class"`
	ChemicalClass    string                  `json:"chemical_class"`
	ActionClass      string                  `json:"action_class"`
	HabitForming     string                  `json:"habit_forming"`
	UseCases         string                  `json:"use_cases"`
	SideEffects      string                  `json:"side_effects"`
}

// Value returns the value stored for a field
func (r *Record) Value(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldSubstitute0, FieldSubstitute1, FieldSubstitute2, FieldSubstitute3, FieldSubstitute4:
		return r.Substitutes[f-FieldSubstitute0]
	case FieldTherapeuticClass:
		return r.TherapeuticClass
	case FieldChemicalClass:
		return r.ChemicalClass
	case FieldActionClass:
		return r.ActionClass
	case FieldHabitForming:
		return r.HabitForming
	case FieldUseCases:
		return r.UseCases
	case FieldSideEffects:
		return r.SideEffects
	}
	return ""
}

// set stores a value for a field
func (r *Record) set(f Field, value string) {
	switch f {
	case FieldName:
		r.Name = value
	case FieldSubstitute0, FieldSubstitute1, FieldSubstitute2, FieldSubstitute3, FieldSubstitute4:
		r.Substitutes[f-FieldSubstitute0] = value
	case FieldTherapeuticClass:
		r.TherapeuticClass = value
	case FieldChemicalClass:
		r.ChemicalClass = value
	case FieldActionClass:
		r.ActionClass = value
	case FieldHabitForming:
		r.HabitForming = value
	case FieldUseCases:
		r.UseCases = value
	case FieldSideEffects:
		r.SideEffects = value
	}
}
