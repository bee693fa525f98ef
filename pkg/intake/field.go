package intake

import (
	"strings"

	"github.com/helmcode/patient-assistant/pkg/model"
)

// Field names one input of the intake form.
type Field int

const (
	FieldAge Field = iota
	FieldSex
	FieldHeight
	FieldWeight
	FieldAllergies
	FieldPreexistingConditions
	FieldMedications
	FieldFamilyHistory
	FieldQuestion
)

var fieldKeys = [...]string{
	FieldAge:                   "age",
	FieldSex:                   "sex",
	FieldHeight:                "height",
	FieldWeight:                "weight",
	FieldAllergies:             "allergies",
	FieldPreexistingConditions: "preexisting_conditions",
	FieldMedications:           "medications",
	FieldFamilyHistory:         "family_history",
	FieldQuestion:              "question",
}

// AllFields returns every field in wire order.
func AllFields() []Field {
	fields := make([]Field, len(fieldKeys))
	for i := range fieldKeys {
		fields[i] = Field(i)
	}
	return fields
}

// TextFields returns the free-text fields in display order.
func TextFields() []Field {
	return []Field{FieldAllergies, FieldPreexistingConditions, FieldMedications, FieldFamilyHistory, FieldQuestion}
}

func (f Field) valid() bool {
	return f >= 0 && int(f) < len(fieldKeys)
}

// IsText reports whether f is one of the free-text fields.
func (f Field) IsText() bool {
	return f >= FieldAllergies && f.valid()
}

// Key is the multipart part name.
func (f Field) Key() string {
	if !f.valid() {
		return ""
	}
	return fieldKeys[f]
}

// ParseField resolves a wire key.
func ParseField(key string) (Field, bool) {
	for i, k := range fieldKeys {
		if k == key {
			return Field(i), true
		}
	}
	return 0, false
}

// Label is the human title. Numeric measurements carry their unit.
func (f Field) Label() string {
	switch f {
	case FieldHeight:
		return "Height (cm)"
	case FieldWeight:
		return "Weight (kg)"
	}
	return Placeholder(f.Key())
}

// Placeholder turns a key like "family_history" into "Family History".
func Placeholder(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Lines is the text area height for free-text fields.
func (f Field) Lines() int {
	if f == FieldQuestion {
		return 4
	}
	return 2
}

// Get reads the field out of a record.
func (f Field) Get(ff model.FormFields) string {
	switch f {
	case FieldAge:
		return string(ff.Age)
	case FieldSex:
		return string(ff.Sex)
	case FieldHeight:
		return string(ff.Height)
	case FieldWeight:
		return string(ff.Weight)
	case FieldAllergies:
		return ff.Allergies
	case FieldPreexistingConditions:
		return ff.PreexistingConditions
	case FieldMedications:
		return ff.Medications
	case FieldFamilyHistory:
		return ff.FamilyHistory
	case FieldQuestion:
		return ff.Question
	}
	return ""
}

// Set returns a copy of ff with this field replaced.
func (f Field) Set(ff model.FormFields, value string) model.FormFields {
	switch f {
	case FieldAge:
		ff.Age = model.Numeric(value)
	case FieldSex:
		ff.Sex = model.Sex(value)
	case FieldHeight:
		ff.Height = model.Numeric(value)
	case FieldWeight:
		ff.Weight = model.Numeric(value)
	case FieldAllergies:
		ff.Allergies = value
	case FieldPreexistingConditions:
		ff.PreexistingConditions = value
	case FieldMedications:
		ff.Medications = value
	case FieldFamilyHistory:
		ff.FamilyHistory = value
	case FieldQuestion:
		ff.Question = value
	}
	return ff
}
