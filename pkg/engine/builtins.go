package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/tansell/chipcarve/pkg/design"
	"github.com/tansell/chipcarve/pkg/geometry"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms chipcarve Lisp source code before passing it
// to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: tri-arc -> tri_arc
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus
		// operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a geometry.Point2D so it can be returned from `point` and
// consumed by the shape builtins.
type sexpPoint struct {
	p geometry.Point2D
}

func (s *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(point %g %g)", s.p.X, s.p.Y)
}
func (s *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpShapeRef wraps the index of a shape already appended to the document,
// so designs can refer back to shapes they created.
type sexpShapeRef struct {
	index int
	kind  string
}

func (s *sexpShapeRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(shaperef %d %s)", s.index, s.kind)
}
func (s *sexpShapeRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toPoint extracts a Point2D from a sexpPoint.
func toPoint(s zygo.Sexp) (geometry.Point2D, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	return geometry.Point2D{}, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the chipcarve DSL builtins into a zygomys
// environment. The builtins append shape records to the provided document
// during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, doc *design.Document) {

	// -----------------------------------------------------------------------
	// (metadata :name "rosette" :author "tansell")
	// -----------------------------------------------------------------------
	env.AddFunction("metadata", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("metadata: name: %w", err)
			}
			doc.Metadata.Name = s
		}
		if v, ok := pa.kw["author"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("metadata: author: %w", err)
			}
			doc.Metadata.Author = s
		}
		if v, ok := pa.kw["description"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("metadata: description: %w", err)
			}
			doc.Metadata.Description = s
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (point 10 2.5)
	// -----------------------------------------------------------------------
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("point requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: y: %w", err)
		}
		return &sexpPoint{p: geometry.Point2D{X: x, Y: y}}, nil
	})

	// -----------------------------------------------------------------------
	// (leaf :from (point 0 0) :to (point 10 0) :radius 6.5)
	// -----------------------------------------------------------------------
	env.AddFunction("leaf", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		rec := design.ShapeRecord{Type: design.TypeLeaf}

		from, ok := pa.kw["from"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("leaf: missing :from point")
		}
		to, ok := pa.kw["to"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("leaf: missing :to point")
		}
		f1, err := toPoint(from)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("leaf: from: %w", err)
		}
		f2, err := toPoint(to)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("leaf: to: %w", err)
		}
		rec.Vertices = []geometry.Point2D{f1, f2}

		if v, ok := pa.kw["radius"]; ok {
			r, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("leaf: radius: %w", err)
			}
			rec.Radius = r
		} else {
			// Default radius keeps the leaf shape proportional to its span.
			rec.Radius = geometry.Distance(f1, f2) * geometry.DefaultLeafRadiusFactor
		}
		if rec.Radius <= 0 {
			return zygo.SexpNull, fmt.Errorf("leaf: radius %g must be positive", rec.Radius)
		}
		if rec.Radius < geometry.Distance(f1, f2)/2 {
			return zygo.SexpNull, fmt.Errorf("leaf: radius %g smaller than half the focal distance", rec.Radius)
		}

		doc.Shapes = append(doc.Shapes, rec)
		return &sexpShapeRef{index: len(doc.Shapes) - 1, kind: design.TypeLeaf}, nil
	})

	// -----------------------------------------------------------------------
	// (tri-arc (point 0 0) (point 10 0) (point 5 8.66)
	//          :curvatures (list -0.125 -0.125 -0.125))
	//
	// Note: registered as "tri_arc" because zygomys does not support
	// hyphens in identifiers. The preprocessor converts tri-arc to tri_arc
	// in the source.
	// -----------------------------------------------------------------------
	env.AddFunction("tri_arc", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		rec := design.ShapeRecord{Type: design.TypeTriArc}

		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("tri-arc requires exactly 3 vertex points, got %d", len(pa.positional))
		}
		for i, arg := range pa.positional {
			p, err := toPoint(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tri-arc: vertex %d: %w", i, err)
			}
			rec.Vertices = append(rec.Vertices, p)
		}

		rec.Curvatures = []float64{geometry.DefaultBulge, geometry.DefaultBulge, geometry.DefaultBulge}
		if v, ok := pa.kw["curvatures"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tri-arc: curvatures: %w", err)
			}
			if len(items) != 3 {
				return zygo.SexpNull, fmt.Errorf("tri-arc: curvatures needs 3 entries, got %d", len(items))
			}
			for i, item := range items {
				c, err := toFloat64(item)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("tri-arc: curvature %d: %w", i, err)
				}
				rec.Curvatures[i] = c
			}
		}

		// Reject collinear vertices now so the error carries source context.
		if _, err := geometry.NewTriArc(rec.Vertices[0], rec.Vertices[1], rec.Vertices[2],
			[3]float64{rec.Curvatures[0], rec.Curvatures[1], rec.Curvatures[2]}); err != nil {
			return zygo.SexpNull, fmt.Errorf("tri-arc: %w", err)
		}

		doc.Shapes = append(doc.Shapes, rec)
		return &sexpShapeRef{index: len(doc.Shapes) - 1, kind: design.TypeTriArc}, nil
	})
}
