package notify

import "testing"

func TestLoadPreferencesEnvOverrides(t *testing.T) {
	t.Setenv("INKSHOT_NOTIFY_TITLE", "Shots")
	t.Setenv("INKSHOT_NOTIFY_SAVE_TEXT", "Stored %s")
	prefs := LoadPreferences()
	if prefs.Title != "Shots" {
		t.Errorf("title = %q, want Shots", prefs.Title)
	}
	if got := prefs.Events[EventSave].Template; got != "Stored %s" {
		t.Errorf("save template = %q", got)
	}
	if got := prefs.Events[EventCopy].Template; got != "Copied %s to clipboard" {
		t.Errorf("copy template changed unexpectedly: %q", got)
	}
}

func TestNewClonesPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	n := New(prefs)
	prefs.Events[EventPin] = EventPreference{Template: "mutated"}
	if got := n.template(EventPin); got != "Pinned %s" {
		t.Errorf("template after caller mutation = %q", got)
	}
}

func TestEventsDisabledByDefault(t *testing.T) {
	n := New(DefaultPreferences())
	for _, event := range []Event{EventCapture, EventSave, EventCopy, EventPin} {
		if n.enabledFor(event) {
			t.Errorf("event %s enabled by default", event)
		}
	}
	n.Enable(EventSave, true)
	if !n.enabledFor(EventSave) {
		t.Errorf("save not enabled after Enable")
	}
	n.Enable(EventSave, false)
	if n.enabledFor(EventSave) {
		t.Errorf("save still enabled after disable")
	}
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *Notifier
	n.Enable(EventCapture, true)
	n.Capture("screen", nil)
	n.Save("/tmp/x.png")
	n.Copy("image")
	n.Pin("image")
}
