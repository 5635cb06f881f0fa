package prompt

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadYAMLMapping: loads a flat YAML prompt file. Fields named in staticFields must not contain placeholders.
func LoadYAMLMapping(fsys fs.FS, filePath string, staticFields ...string) (map[string]string, error) {
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse prompt yaml: %w", err)
	}

	mapping := make(map[string]string, len(raw))
	for key, value := range raw {
		if value == nil {
			mapping[key] = ""
			continue
		}
		mapping[key] = fmt.Sprint(value)
	}

	for _, field := range staticFields {
		text, ok := mapping[field]
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		if err := ValidateStatic(filePath+"."+field, text); err != nil {
			return nil, err
		}
	}

	return mapping, nil
}

// LoadYAMLDir: loads every *.yml and *.yaml file in dir, keyed by file name without extension.
func LoadYAMLDir(fsys fs.FS, dir string, staticFields ...string) (map[string]map[string]string, error) {
	paths, err := fs.Glob(fsys, path.Join(dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("glob prompt dir: %w", err)
	}
	yamlPaths, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob prompt dir: %w", err)
	}
	paths = append(paths, yamlPaths...)

	prompts := make(map[string]map[string]string, len(paths))
	for _, filePath := range paths {
		name := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
		mapping, err := LoadYAMLMapping(fsys, filePath, staticFields...)
		if err != nil {
			return nil, err
		}
		prompts[name] = mapping
	}
	return prompts, nil
}
