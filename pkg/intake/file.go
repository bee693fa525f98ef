package intake

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/helmcode/patient-assistant/pkg/model"
	"gopkg.in/yaml.v3"
)

// File is the YAML form of an intake: the wire keys plus attachment paths.
type File struct {
	model.FormFields `yaml:",inline"`
	Files            []string `yaml:"files,omitempty"`
}

// LoadFile reads an intake file. Relative attachment paths are resolved
// against the file's directory and empty numeric fields get their defaults.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading intake file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing intake file: %w", err)
	}
	f.FormFields = f.FormFields.WithDefaults()

	dir := filepath.Dir(path)
	for i, p := range f.Files {
		if !filepath.IsAbs(p) {
			f.Files[i] = filepath.Join(dir, p)
		}
	}

	return &f, nil
}

// SaveFile writes an intake file.
func SaveFile(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding intake file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing intake file: %w", err)
	}
	return nil
}

// Template is the intake a new file starts from.
func Template() *File {
	return &File{FormFields: model.DefaultFields()}
}
