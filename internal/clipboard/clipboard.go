// Package clipboard publishes exported images to the system clipboard.
// The primary channel carries PNG data on the native image target; when
// that fails, WriteImageFallback pushes the same payload through the
// text target as a base64 data URL, which survives clipboard managers
// that refuse binary targets.
package clipboard

import (
	"encoding/base64"
	"fmt"
)

// WriteImageFallback publishes the PNG through the text channel as a
// base64 data URL.
func WriteImageFallback(png []byte) error {
	if len(png) == 0 {
		return fmt.Errorf("clipboard fallback: empty image")
	}
	return WriteText(fallbackPayload(png))
}

func fallbackPayload(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
