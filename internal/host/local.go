package host

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/example/inkshot/internal/clipboard"
	"github.com/example/inkshot/internal/notify"
)

var errNoRecognizer = errors.New("no text recognizer configured")

// Local implements Requests against the machine the process runs on:
// the system clipboard, the local filesystem, and desktop
// notifications. OCR and pinned windows are pluggable because they need
// capabilities the core does not carry itself.
type Local struct {
	recognizer Recognizer
	notifier   *notify.Notifier
	pin        func(png []byte, x, y, w, h int) error
	hide       func()
}

// Option configures a Local host.
type Option func(*Local)

// WithRecognizer installs an OCR backend.
func WithRecognizer(r Recognizer) Option {
	return func(l *Local) { l.recognizer = r }
}

// WithNotifier installs a desktop notifier for save/copy events.
func WithNotifier(n *notify.Notifier) Option {
	return func(l *Local) { l.notifier = n }
}

// WithPinFunc installs the window-spawning callback used by
// CreatePinnedWindow.
func WithPinFunc(pin func(png []byte, x, y, w, h int) error) Option {
	return func(l *Local) { l.pin = pin }
}

// WithHideFunc installs the callback invoked by HideCaptureSurface.
func WithHideFunc(hide func()) Option {
	return func(l *Local) { l.hide = hide }
}

// NewLocal creates a host wired to the local machine.
func NewLocal(opts ...Option) *Local {
	l := &Local{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RecognizeText runs the configured recognizer. Without one it logs and
// returns an empty result.
func (l *Local) RecognizeText(png []byte) (string, error) {
	if l.recognizer == nil {
		log.Printf("recognize text: %v", errNoRecognizer)
		return "", errNoRecognizer
	}
	text, err := l.recognizer.RecognizeText(png)
	if err != nil {
		log.Printf("recognize text: %v", err)
		return "", err
	}
	return text, nil
}

// SaveToFile writes the image to path, creating parent directories as
// needed.
func (l *Local) SaveToFile(path string, png []byte) error {
	if path == "" {
		return fmt.Errorf("save: empty path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	l.notifier.Save(path)
	return nil
}

// CopyToClipboard publishes the PNG to the clipboard, falling back to a
// base64 data-URL text write when the native image channel fails.
func (l *Local) CopyToClipboard(png []byte) error {
	if err := clipboard.WriteImagePNG(png); err != nil {
		log.Printf("clipboard image write: %v, trying fallback", err)
		if fbErr := clipboard.WriteImageFallback(png); fbErr != nil {
			return fmt.Errorf("clipboard write: %w", fbErr)
		}
	}
	l.notifier.Copy("image")
	return nil
}

// CreatePinnedWindow delegates to the configured pin callback.
func (l *Local) CreatePinnedWindow(png []byte, x, y, w, h int) error {
	if l.pin == nil {
		return fmt.Errorf("pin window: no pin surface configured")
	}
	if err := l.pin(png, x, y, w, h); err != nil {
		return err
	}
	l.notifier.Pin("image")
	return nil
}

// HideCaptureSurface invokes the configured hide callback, if any.
func (l *Local) HideCaptureSurface() {
	if l.hide != nil {
		l.hide()
	}
}
