// Package design parses the chip-carving design document: a versioned JSON
// file listing leaf and tri-arc shapes with coordinates in millimetres.
package design

import (
	"encoding/json"
	"fmt"

	"github.com/tansell/chipcarve/pkg/geometry"
)

// Version is the only accepted document version; anything else is a fatal
// parse error.
const Version = "2.0"

// Shape type tags recognized in the document.
const (
	TypeLeaf   = "LEAF"
	TypeTriArc = "TRI_ARC"
)

// Metadata is the optional descriptive block of a document.
type Metadata struct {
	Name        string `json:"name,omitempty"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
	Created     string `json:"created,omitempty"`
	Modified    string `json:"modified,omitempty"`
}

// ShapeRecord is one raw shape entry before geometric validation.
type ShapeRecord struct {
	Type       string             `json:"type"`
	Vertices   []geometry.Point2D `json:"vertices"`
	Radius     float64            `json:"radius,omitempty"`
	Curvatures []float64          `json:"curvatures,omitempty"`
}

// Document is the parsed design file.
type Document struct {
	Version  string        `json:"version"`
	Metadata Metadata      `json:"metadata"`
	Shapes   []ShapeRecord `json:"shapes"`
}

// ParseError reports a structural problem in the document. Index is the
// offending shape's position, or -1 for document-level errors.
type ParseError struct {
	Index  int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("design document: %s", e.Reason)
	}
	return fmt.Sprintf("design document: shape %d: %s", e.Index, e.Reason)
}

// Parse decodes and validates a design document. The returned document has
// passed structural checks only; BuildShapes performs the geometric ones.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("design document: %w", err)
	}
	if doc.Version != Version {
		return nil, &ParseError{Index: -1, Reason: fmt.Sprintf("unsupported version %q, need %q", doc.Version, Version)}
	}
	if len(doc.Shapes) == 0 {
		return nil, &ParseError{Index: -1, Reason: "no shapes"}
	}
	for i, s := range doc.Shapes {
		if err := validateRecord(i, s); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

func validateRecord(i int, s ShapeRecord) error {
	switch s.Type {
	case TypeLeaf:
		if len(s.Vertices) != 2 {
			return &ParseError{Index: i, Reason: fmt.Sprintf("leaf needs 2 vertices, got %d", len(s.Vertices))}
		}
		if s.Radius <= 0 {
			return &ParseError{Index: i, Reason: fmt.Sprintf("leaf radius %g must be positive", s.Radius)}
		}
	case TypeTriArc:
		if len(s.Vertices) != 3 {
			return &ParseError{Index: i, Reason: fmt.Sprintf("tri-arc needs 3 vertices, got %d", len(s.Vertices))}
		}
		if len(s.Curvatures) != 3 {
			return &ParseError{Index: i, Reason: fmt.Sprintf("tri-arc needs 3 curvatures, got %d", len(s.Curvatures))}
		}
	case "":
		return &ParseError{Index: i, Reason: "missing shape type"}
	default:
		return &ParseError{Index: i, Reason: fmt.Sprintf("unknown shape type %q", s.Type)}
	}
	return nil
}

// BuildShapes constructs geometry for every record in document order.
// Curvatures outside the bulge range are clamped by the tri-arc
// constructor; collinear tri-arcs and degenerate leaves are rejected here.
func BuildShapes(doc *Document) ([]geometry.Shape, error) {
	shapes := make([]geometry.Shape, 0, len(doc.Shapes))
	for i, s := range doc.Shapes {
		shape, err := buildShape(s)
		if err != nil {
			return nil, &ParseError{Index: i, Reason: err.Error()}
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

func buildShape(s ShapeRecord) (geometry.Shape, error) {
	switch s.Type {
	case TypeLeaf:
		leaf := geometry.NewLeaf(s.Vertices[0], s.Vertices[1], s.Radius)
		if !leaf.IsValid() {
			return nil, fmt.Errorf("degenerate leaf: radius %g smaller than half the focal distance", s.Radius)
		}
		return leaf, nil
	case TypeTriArc:
		var bulges [3]float64
		copy(bulges[:], s.Curvatures)
		ta, err := geometry.NewTriArc(s.Vertices[0], s.Vertices[1], s.Vertices[2], bulges)
		if err != nil {
			return nil, err
		}
		return ta, nil
	}
	return nil, fmt.Errorf("unknown shape type %q", s.Type)
}
