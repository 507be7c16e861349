// Package host is the outbound boundary of the capture session: every
// effect that leaves the annotation engine (clipboard, disk, OCR,
// pinned windows) goes through the Requests interface. Images cross the
// boundary PNG-encoded; window positions are integer screen pixels.
package host

// A Recognizer extracts text from a PNG-encoded image.
type Recognizer interface {
	RecognizeText(png []byte) (string, error)
}

// Requests is the set of fire-and-forget operations the session issues
// to its host environment. Implementations must not panic across the
// boundary; failures come back as errors and leave the caller's state
// untouched.
type Requests interface {
	// RecognizeText runs OCR over the image and returns the recognized
	// text. A failure yields an empty result and an error, never a
	// crash.
	RecognizeText(png []byte) (string, error)

	// SaveToFile persists the image at path.
	SaveToFile(path string, png []byte) error

	// CopyToClipboard publishes the image to the system clipboard. On
	// platform failure the implementation falls back to an alternate
	// channel carrying a base64 payload before reporting an error.
	CopyToClipboard(png []byte) error

	// CreatePinnedWindow asks the host to spawn a borderless
	// always-visible window showing the image at the given screen
	// position and size.
	CreatePinnedWindow(png []byte, x, y, w, h int) error

	// HideCaptureSurface dismisses the capture surface after a
	// terminal action.
	HideCaptureSurface()
}
