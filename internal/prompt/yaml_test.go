package prompt

import (
	"testing"
	"testing/fstest"
)

func TestLoadYAMLMapping(t *testing.T) {
	fsys := fstest.MapFS{
		"sample.yml": {Data: []byte("prefix: hello\nuser: hi {answer}\ncount: 3\n")},
	}

	mapping, err := LoadYAMLMapping(fsys, "sample.yml", "prefix")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mapping["prefix"] != "hello" {
		t.Fatalf("unexpected prefix: %s", mapping["prefix"])
	}
	if mapping["count"] != "3" {
		t.Fatalf("unexpected count: %s", mapping["count"])
	}
}

func TestLoadYAMLMappingInvalidStatic(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.yml": {Data: []byte("prefix: \"hello {name}\"\n")},
	}
	if _, err := LoadYAMLMapping(fsys, "bad.yml", "prefix"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadYAMLDir(t *testing.T) {
	fsys := fstest.MapFS{
		"prompts/a.yml":  {Data: []byte("user: alpha\n")},
		"prompts/b.yaml": {Data: []byte("user: beta\n")},
	}

	prompts, err := LoadYAMLDir(fsys, "prompts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prompts) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(prompts))
	}
	if prompts["a"]["user"] != "alpha" {
		t.Fatalf("unexpected prompt value")
	}
}

func TestBundle(t *testing.T) {
	fsys := fstest.MapFS{
		"prompts/quiz.yml": {Data: []byte("user: \"about {answer}\"\n")},
	}
	bundle, err := LoadBundle(fsys, "prompts", "quiz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := bundle.Format("quiz", "user", map[string]string{"answer": "Go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "about Go" {
		t.Fatalf("unexpected output: %s", got)
	}
	if _, err := bundle.Field("quiz", "rules"); err == nil {
		t.Fatalf("expected missing field error")
	}
	if _, err := bundle.Field("answer", "prefix"); err == nil {
		t.Fatalf("expected missing prompt error")
	}

	var empty *Bundle
	if _, err := empty.Field("quiz", "user"); err == nil {
		t.Fatalf("expected error for nil bundle")
	}
}
