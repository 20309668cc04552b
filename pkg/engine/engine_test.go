package engine

import (
	"strings"
	"testing"

	"github.com/tansell/chipcarve/pkg/design"
)

func TestEvaluateEmptyString(t *testing.T) {
	eng := NewEngine()

	doc, evalErrs, err := eng.Evaluate("")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if doc == nil {
		t.Fatal("expected non-nil document")
	}
	if doc.Version != design.Version {
		t.Errorf("document version = %q", doc.Version)
	}
	if len(doc.Shapes) != 0 {
		t.Errorf("expected empty document, got %d shapes", len(doc.Shapes))
	}
}

func TestEvaluateWhitespaceOnly(t *testing.T) {
	eng := NewEngine()

	doc, evalErrs, err := eng.Evaluate("   \n\t  \n  ")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if doc == nil || len(doc.Shapes) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}
}

func TestEvaluateDesign(t *testing.T) {
	eng := NewEngine()

	source := `
; hook rosette, dimensions in mm
(metadata :name "rosette" :author "tansell")
(leaf :from (point 0 0) :to (point 10 0) :radius 6.5)
(tri-arc (point 0 0) (point 10 0) (point 5 8.66)
         :curvatures (list -0.125 -0.125 -0.125))
`
	doc, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if doc.Metadata.Name != "rosette" || doc.Metadata.Author != "tansell" {
		t.Errorf("metadata = %+v", doc.Metadata)
	}
	if len(doc.Shapes) != 2 {
		t.Fatalf("got %d shapes, want 2", len(doc.Shapes))
	}
	if doc.Shapes[0].Type != design.TypeLeaf || doc.Shapes[0].Radius != 6.5 {
		t.Errorf("shape 0 = %+v", doc.Shapes[0])
	}
	if doc.Shapes[1].Type != design.TypeTriArc || len(doc.Shapes[1].Curvatures) != 3 {
		t.Errorf("shape 1 = %+v", doc.Shapes[1])
	}

	// The document must round-trip through the same validation as the JSON
	// form.
	if _, err := design.BuildShapes(doc); err != nil {
		t.Errorf("BuildShapes rejected engine output: %v", err)
	}
}

func TestEvaluateLeafDefaultRadius(t *testing.T) {
	eng := NewEngine()

	doc, evalErrs, err := eng.Evaluate(`(leaf :from (point 0 0) :to (point 10 0))`)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("evaluate: %v %v", err, evalErrs)
	}
	if got := doc.Shapes[0].Radius; got != 6.5 {
		t.Errorf("default radius = %g, want 6.5", got)
	}
}

func TestEvaluateLeafRejectsDegenerateRadius(t *testing.T) {
	eng := NewEngine()

	_, evalErrs, err := eng.Evaluate(`(leaf :from (point 0 0) :to (point 10 0) :radius 3)`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval error for degenerate leaf")
	}
	if !strings.Contains(evalErrs[0].Message, "focal distance") {
		t.Errorf("error %q does not explain the radius constraint", evalErrs[0].Message)
	}
}

func TestEvaluateTriArcRejectsCollinear(t *testing.T) {
	eng := NewEngine()

	_, evalErrs, err := eng.Evaluate(`(tri-arc (point 0 0) (point 5 0) (point 10 0))`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval error for collinear tri-arc")
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine()

	doc, evalErrs, err := eng.Evaluate("(leaf :from (point 0 0")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if doc != nil {
		t.Error("expected nil document on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
}

func TestParseZygomysErrorExtractsLine(t *testing.T) {
	errs := parseZygomysError(errFromString("Error on line 3: unexpected token"))
	if len(errs) != 1 || errs[0].Line != 3 {
		t.Fatalf("got %+v", errs)
	}
	if errs[0].Message != "unexpected token" {
		t.Errorf("message = %q", errs[0].Message)
	}

	errs = parseZygomysError(errFromString("something opaque happened"))
	if len(errs) != 1 || errs[0].Line != 0 {
		t.Fatalf("got %+v", errs)
	}
}

type errFromString string

func (e errFromString) Error() string { return string(e) }
