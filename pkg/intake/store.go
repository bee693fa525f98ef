// Package intake holds the intake form state: the field record and the
// attached files. Values change only through user input.
package intake

import (
	"github.com/helmcode/patient-assistant/pkg/model"
)

// Store owns the current form values and file selection.
type Store struct {
	fields model.FormFields
	files  []model.AttachedFile
}

// Snapshot is the frozen state sent by one submission.
type Snapshot struct {
	Fields model.FormFields
	Files  []model.AttachedFile
}

// NewStore returns a store at the form defaults with no files.
func NewStore() *Store {
	return &Store{fields: model.DefaultFields()}
}

// SetField replaces exactly one field. Values are not validated.
func (s *Store) SetField(f Field, value string) {
	if !f.valid() {
		return
	}
	s.Replace(f.Set(s.fields, value))
}

// Replace swaps the whole record.
func (s *Store) Replace(fields model.FormFields) {
	s.fields = fields
}

// SetFiles replaces the selection wholesale.
func (s *Store) SetFiles(files []model.AttachedFile) {
	s.files = append([]model.AttachedFile(nil), files...)
}

func (s *Store) Fields() model.FormFields {
	return s.fields
}

func (s *Store) Files() []model.AttachedFile {
	return append([]model.AttachedFile(nil), s.files...)
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{Fields: s.fields, Files: s.Files()}
}
