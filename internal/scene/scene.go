package scene

import (
	"image"

	"github.com/example/inkshot/internal/style"
)

// Kind tags the entity variants the scene can hold.
type Kind string

const (
	KindRect     Kind = "rect"
	KindEllipse  Kind = "ellipse"
	KindLine     Kind = "line"
	KindArrow    Kind = "arrow"
	KindFreehand Kind = "freehand"
	KindText     Kind = "text"
	KindMosaic   Kind = "mosaic"
)

// Entity is one placed annotation. Which geometry fields are meaningful
// depends on Kind: Rect for rect/ellipse/mosaic and the text background,
// P0/P1 for line/arrow, Points for freehand strokes, Pos/Text for text
// labels. Style is the snapshot of the values that applied when the
// entity was last touched.
type Entity struct {
	ID       int
	Kind     Kind
	Style    style.Style
	Rect     image.Rectangle
	P0, P1   image.Point
	Points   []image.Point
	Marker   bool
	Pos      image.Point
	Text     string
	Rotation float64

	// Block holds the pixelated image of a mosaic entity. It is part of
	// the snapshot (as PNG) so undo can restore the irreversible region.
	Block *image.RGBA
}

// Scene is the ordered collection of live entities for one editing
// session. It is owned and mutated exclusively by the draw engine.
type Scene struct {
	entities []*Entity
	nextID   int
}

// New returns an empty scene.
func New() *Scene { return &Scene{nextID: 1} }

// Add appends e to the scene, assigning its ID, and returns it.
func (s *Scene) Add(e *Entity) *Entity {
	e.ID = s.nextID
	s.nextID++
	s.entities = append(s.entities, e)
	return e
}

// Remove deletes the entity with the given ID. It reports whether an
// entity was removed.
func (s *Scene) Remove(id int) bool {
	for i, e := range s.entities {
		if e.ID == id {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			return true
		}
	}
	return false
}

// ByID returns the entity with the given ID, or nil.
func (s *Scene) ByID(id int) *Entity {
	for _, e := range s.entities {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Entities returns the live entities in paint order. The slice is shared;
// callers must not retain it across mutations.
func (s *Scene) Entities() []*Entity { return s.entities }

// Len returns the number of live entities.
func (s *Scene) Len() int { return len(s.entities) }

// Clear drops every entity, releasing their pixel blocks.
func (s *Scene) Clear() {
	for _, e := range s.entities {
		e.Block = nil
		e.Points = nil
	}
	s.entities = nil
}
