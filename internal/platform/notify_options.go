package platform

// Options carries per-notification extras whose support varies by
// platform.
type Options struct {
	// IconPath points at an image file to show alongside the
	// notification. Platforms without icon support ignore it.
	IconPath string
}
