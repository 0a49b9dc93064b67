package libutil_test

import (
	"learn-gl/libutil"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "shader.frag")
	other := filepath.Join(dir, "other.frag")
	for _, name := range []string{watched, other} {
		if err := os.WriteFile(name, []byte("a"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	w, err := libutil.NewWatcher(10 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Add(watched); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(other, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(watched, []byte("b"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var changed []string
	deadline := time.Now().Add(5 * time.Second)
	for len(changed) == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
		changed = w.Poll()
	}
	if len(changed) != 1 {
		t.Fatalf("exactly one file should be reported but got %v", changed)
	}
	abs, _ := filepath.Abs(watched)
	if changed[0] != abs {
		t.Errorf("changed file should be %q but was %q", abs, changed[0])
	}
}
