package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileCreatesParentsAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a", "b", "out.json")
	if err := SafeWriteFile(p, []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != `{"ok":true}` {
		t.Fatalf("read back = %q, %v", b, err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"k": 3})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if string(b) != "{\n  \"k\": 3\n}" {
		t.Fatalf("got %q", b)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/fan")
	got, err := ExpandHome("~/charts")
	if err != nil || got != "/home/fan/charts" {
		t.Fatalf("ExpandHome = %q, %v", got, err)
	}
	if got, _ := ExpandHome("rel/path"); got != "rel/path" {
		t.Fatalf("relative path changed: %q", got)
	}
}
