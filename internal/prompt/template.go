package prompt

import (
	"fmt"
	"strings"
)

// FormatTemplate: replaces {key} placeholders with values. "{{" and "}}" emit literal braces.
// Values are inserted verbatim and never re-scanned.
func FormatTemplate(template string, values map[string]string) (string, error) {
	var builder strings.Builder
	builder.Grow(len(template))

	err := scanTemplate(template, &builder, func(key string) error {
		value, ok := values[key]
		if !ok {
			return fmt.Errorf("missing template value for %q", key)
		}
		builder.WriteString(value)
		return nil
	})
	if err != nil {
		return "", err
	}
	return builder.String(), nil
}

// Placeholders: keys referenced by template, in order of appearance.
func Placeholders(template string) ([]string, error) {
	var keys []string
	err := scanTemplate(template, nil, func(key string) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// ValidateStatic: rejects a prompt field that is meant to be sent as-is but contains placeholders.
func ValidateStatic(name string, text string) error {
	keys, err := Placeholders(text)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if len(keys) > 0 {
		return fmt.Errorf("%s: static prompt must not contain template variables %q", name, keys[0])
	}
	return nil
}

func scanTemplate(template string, out *strings.Builder, onKey func(key string) error) error {
	write := func(b byte) {
		if out != nil {
			out.WriteByte(b)
		}
	}
	for i := 0; i < len(template); {
		switch template[i] {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				write('{')
				i += 2
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return fmt.Errorf("invalid template: missing '}'")
			}
			if err := onKey(template[i+1 : i+1+end]); err != nil {
				return err
			}
			i += end + 2
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				write('}')
				i += 2
				continue
			}
			return fmt.Errorf("invalid template: unexpected '}'")
		default:
			write(template[i])
			i++
		}
	}
	return nil
}
