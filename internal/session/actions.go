package session

import (
	"log"
)

// Copy exports the annotated selection and places it on the clipboard,
// then ends the session. An export failure aborts the action and keeps
// the scene editable.
func (c *Controller) Copy() {
	png, ok := c.export()
	if !ok {
		return
	}
	if err := c.requests.CopyToClipboard(png); err != nil {
		log.Printf("copy: %v", err)
		return
	}
	c.finish()
}

// Save exports the annotated selection to path, then ends the session.
func (c *Controller) Save(path string) {
	png, ok := c.export()
	if !ok {
		return
	}
	if err := c.requests.SaveToFile(path, png); err != nil {
		log.Printf("save: %v", err)
		return
	}
	c.finish()
}

// Pin exports the annotated selection into a borderless always-visible
// window at the selection's screen position, then ends the session.
func (c *Controller) Pin() {
	png, ok := c.export()
	if !ok {
		return
	}
	sel := c.sel
	if err := c.requests.CreatePinnedWindow(png, sel.X, sel.Y, sel.W, sel.H); err != nil {
		log.Printf("pin: %v", err)
		return
	}
	c.finish()
}

// Recognize exports the annotated selection and sends it for text
// recognition, opening the result view in its pending state. The
// session stays in editing; a response arriving after the view closed
// is dropped.
func (c *Controller) Recognize() {
	png, ok := c.export()
	if !ok {
		return
	}
	c.ocrSeq++
	seq := c.ocrSeq
	c.ocr = &OCRView{Pending: true}
	go func() {
		text, err := c.requests.RecognizeText(png)
		c.dispatch(func() {
			if c.ocrSeq != seq || c.ocr == nil {
				return
			}
			c.ocr.Pending = false
			c.ocr.Text = text
			c.ocr.Failed = err != nil
		})
	}()
}

// export flattens the scene at the configured pixel ratio. Failures are
// logged and abort the calling action without touching session state.
func (c *Controller) export() ([]byte, bool) {
	if c.status != StatusEditing || c.eng == nil {
		return nil, false
	}
	png, err := c.eng.Export(c.pixelRatio)
	if err != nil {
		log.Printf("export: %v", err)
		return nil, false
	}
	return png, true
}

// finish ends the session after a successful terminal action.
func (c *Controller) finish() {
	c.teardown()
	c.requests.HideCaptureSurface()
}
