package prompt

import (
	"fmt"
	"io/fs"
)

// Bundle: a set of prompt files from one directory plus a label for error messages.
type Bundle struct {
	label   string
	prompts map[string]map[string]string
}

// LoadBundle: loads the YAML prompts in dir.
func LoadBundle(fsys fs.FS, dir string, label string, staticFields ...string) (*Bundle, error) {
	loaded, err := LoadYAMLDir(fsys, dir, staticFields...)
	if err != nil {
		return nil, fmt.Errorf("load %s prompts: %w", label, err)
	}
	return &Bundle{label: label, prompts: loaded}, nil
}

// Field: returns field of prompt name.
func (b *Bundle) Field(name string, field string) (string, error) {
	if b == nil || b.prompts == nil {
		return "", fmt.Errorf("prompts not initialized")
	}
	data, ok := b.prompts[name]
	if !ok {
		return "", fmt.Errorf("%s prompt not found: %s", b.label, name)
	}
	value, ok := data[field]
	if !ok {
		return "", fmt.Errorf("%s prompt field missing: %s.%s", b.label, name, field)
	}
	return value, nil
}

// Format: fills the placeholders of field of prompt name.
func (b *Bundle) Format(name string, field string, values map[string]string) (string, error) {
	template, err := b.Field(name, field)
	if err != nil {
		return "", err
	}
	formatted, err := FormatTemplate(template, values)
	if err != nil {
		return "", fmt.Errorf("format %s.%s: %w", name, field, err)
	}
	return formatted, nil
}
