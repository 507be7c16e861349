package host

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeRecognizer struct {
	text string
	err  error
	got  []byte
}

func (f *fakeRecognizer) RecognizeText(png []byte) (string, error) {
	f.got = png
	return f.text, f.err
}

func TestRecognizeTextWithoutRecognizer(t *testing.T) {
	l := NewLocal()
	_, err := l.RecognizeText([]byte("png"))
	if !errors.Is(err, errNoRecognizer) {
		t.Fatalf("err = %v, want errNoRecognizer", err)
	}
}

func TestRecognizeTextDelegates(t *testing.T) {
	rec := &fakeRecognizer{text: "hello world"}
	l := NewLocal(WithRecognizer(rec))
	text, err := l.RecognizeText([]byte{1, 2, 3})
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if text != "hello world" {
		t.Errorf("text = %q", text)
	}
	if len(rec.got) != 3 {
		t.Errorf("recognizer received %d bytes, want 3", len(rec.got))
	}
}

func TestRecognizeTextPropagatesError(t *testing.T) {
	sentinel := errors.New("backend down")
	l := NewLocal(WithRecognizer(&fakeRecognizer{err: sentinel}))
	if _, err := l.RecognizeText(nil); !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}
}

func TestSaveToFileCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.png")
	l := NewLocal()
	if err := l.SaveToFile(path, []byte("data")); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "data" {
		t.Errorf("file content = %q", got)
	}
}

func TestSaveToFileEmptyPath(t *testing.T) {
	if err := NewLocal().SaveToFile("", []byte("data")); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestCreatePinnedWindowWithoutSurface(t *testing.T) {
	if err := NewLocal().CreatePinnedWindow(nil, 0, 0, 10, 10); err == nil {
		t.Fatal("expected error without a pin surface")
	}
}

func TestCreatePinnedWindowDelegates(t *testing.T) {
	var gotRect [4]int
	l := NewLocal(WithPinFunc(func(png []byte, x, y, w, h int) error {
		gotRect = [4]int{x, y, w, h}
		return nil
	}))
	if err := l.CreatePinnedWindow([]byte("png"), 5, 6, 70, 80); err != nil {
		t.Fatalf("pin: %v", err)
	}
	if gotRect != [4]int{5, 6, 70, 80} {
		t.Errorf("pin rect = %v", gotRect)
	}
}

func TestHideCaptureSurface(t *testing.T) {
	hidden := 0
	l := NewLocal(WithHideFunc(func() { hidden++ }))
	l.HideCaptureSurface()
	if hidden != 1 {
		t.Errorf("hide calls = %d, want 1", hidden)
	}
	// Without a hide hook the call is a no-op.
	NewLocal().HideCaptureSurface()
}
