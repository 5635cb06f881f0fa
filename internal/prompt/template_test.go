package prompt

import "testing"

func TestFormatTemplate(t *testing.T) {
	output, err := FormatTemplate("Hello {name} {{test}}", map[string]string{"name": "Alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != "Hello Alice {test}" {
		t.Fatalf("unexpected output: %s", output)
	}
}

func TestFormatTemplateValueNotRescanned(t *testing.T) {
	output, err := FormatTemplate(`info: "{answer}"`, map[string]string{"answer": "{x} }"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output != `info: "{x} }"` {
		t.Fatalf("unexpected output: %s", output)
	}
}

func TestFormatTemplateMissingKey(t *testing.T) {
	if _, err := FormatTemplate("Hello {name}", map[string]string{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFormatTemplateInvalidSyntax(t *testing.T) {
	if _, err := FormatTemplate("Hello {name", map[string]string{"name": "A"}); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := FormatTemplate("Hello }", nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPlaceholders(t *testing.T) {
	keys, err := Placeholders("{a} and {{b}} and {c}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestValidateStatic(t *testing.T) {
	if err := ValidateStatic("prefix", "Hello {name}"); err == nil {
		t.Fatalf("expected error")
	}
	if err := ValidateStatic("prefix", "Hello {{name}}!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateStatic("prefix", "Hello {name"); err == nil {
		t.Fatalf("expected syntax error")
	}
}
