package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tansell/chipcarve/pkg/design"
	"github.com/tansell/chipcarve/pkg/engine"
	"github.com/tansell/chipcarve/pkg/geometry"
	"github.com/tansell/chipcarve/pkg/medial"
	"github.com/tansell/chipcarve/pkg/render"
	"github.com/tansell/chipcarve/pkg/toolpath"
)

// mmToCM converts design coordinates (mm) into the medial engine's native
// unit (cm). The toolpath package converts back on its side.
const mmToCM = 0.1

// App drives the pipeline: design document -> shapes -> polygons -> medial
// axes -> V-carve toolpaths. It owns the configuration and the logger; one
// App can run many documents in sequence.
type App struct {
	Params  toolpath.Parameters
	Surface toolpath.SurfaceQueryFunc
	RawMode bool // skip the chain sampler, keep the engine's exact points
	Verbose bool
	Logger  *log.Logger

	engine *engine.Engine
}

// JobResult bundles everything one run produces, for output writers and
// inspection.
type JobResult struct {
	Document *design.Document
	Polygons []geometry.Polygon
	Medial   []medial.Results
	Toolpath toolpath.VCarveResults
}

// NewApp creates an App with the given parameters and the standard logger.
func NewApp(params toolpath.Parameters) *App {
	return &App{
		Params: params,
		Logger: log.Default(),
		engine: engine.NewEngine(),
	}
}

func (a *App) logf(format string, args ...interface{}) {
	if a.Verbose && a.Logger != nil {
		a.Logger.Printf(format, args...)
	}
}

// LoadDesign reads a design from path. Files ending in .lisp are evaluated
// through the DSL engine; everything else is parsed as the JSON document
// form.
func (a *App) LoadDesign(path string) (*design.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load design: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".lisp") {
		return a.evaluateLisp(string(data))
	}
	return design.Parse(data)
}

func (a *App) evaluateLisp(source string) (*design.Document, error) {
	doc, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		return nil, fmt.Errorf("design evaluation: %w", err)
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, len(evalErrs))
		for i, e := range evalErrs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("design evaluation: %s", strings.Join(msgs, "; "))
	}
	if len(doc.Shapes) == 0 {
		return nil, fmt.Errorf("design evaluation: document has no shapes")
	}
	return doc, nil
}

// Run executes the full pipeline for a document. Shape-level failures abort
// the job; medial failures are carried in the per-shape results and the job
// fails only if no shape yields toolpaths.
func (a *App) Run(doc *design.Document) (JobResult, error) {
	result := JobResult{Document: doc}

	if err := a.Params.Validate(); err != nil {
		return result, err
	}
	if !a.Params.GenerateVCarveToolpaths {
		return result, fmt.Errorf("v-carve toolpath generation is disabled")
	}

	shapes, err := design.BuildShapes(doc)
	if err != nil {
		return result, err
	}
	a.logf("app: %d shapes in %q", len(shapes), doc.Metadata.Name)

	processor := medial.NewProcessor()
	processor.PolygonTolerance = a.Params.PolygonTolerance
	processor.MedialThreshold = a.Params.MedialThreshold
	processor.WalkPoints = a.Params.MedialAxisWalkPoints
	processor.Verbose = a.Verbose
	processor.Logger = a.Logger

	generator, err := toolpath.NewGenerator(a.Params)
	if err != nil {
		return result, err
	}
	generator.Surface = a.Surface
	generator.Verbose = a.Verbose
	generator.Logger = a.Logger

	var allPaths []toolpath.VCarvePath
	for i, shape := range shapes {
		polygon := shape.Polygonize(a.Params.PolygonTolerance)
		if polygon == nil {
			a.Logger.Printf("app: shape %d produced no polygon, skipping", i)
			continue
		}
		result.Polygons = append(result.Polygons, polygon)

		// The medial engine works in the host CAD unit.
		cm := make(geometry.Polygon, len(polygon))
		for j, p := range polygon {
			cm[j] = p.Scale(mmToCM)
		}

		medialResults := processor.ComputeMedialAxis(cm)
		result.Medial = append(result.Medial, medialResults)
		if !medialResults.Success {
			a.Logger.Printf("app: shape %d medial axis failed: %s", i, medialResults.ErrorMessage)
			continue
		}

		var vc toolpath.VCarveResults
		if a.RawMode {
			vc = generator.FromRawMedialResults(medialResults)
		} else {
			vc = generator.FromMedialResults(medialResults)
		}
		if !vc.Success {
			a.Logger.Printf("app: shape %d toolpath failed: %s", i, vc.ErrorMessage)
			continue
		}
		allPaths = append(allPaths, vc.Paths...)
	}

	if len(allPaths) == 0 {
		result.Toolpath = toolpath.VCarveResults{ErrorMessage: "no shape produced toolpaths"}
		return result, fmt.Errorf("no shape produced toolpaths")
	}

	// Shapes may abut; one more merge pass joins paths across shapes.
	result.Toolpath = toolpath.VCarveResults{Success: true}
	result.Toolpath.Paths = toolpath.MergePaths(allPaths, toolpath.MergeTolerance)
	result.Toolpath.UpdateStatistics()
	a.logf("app: %s", result.Toolpath.Summary())
	return result, nil
}

// WriteGCode emits the job's toolpaths as G-code.
func (a *App) WriteGCode(w io.Writer, result JobResult, opts toolpath.GCodeOptions) error {
	return toolpath.WriteGCode(w, result.Toolpath, opts)
}

// WriteSVG renders the job's stages for debugging. The medial stage is in
// cm while polygons and toolpaths are mm, so medial chains are rescaled
// before drawing.
func (a *App) WriteSVG(w io.Writer, result JobResult) error {
	scene := render.Scene{
		Polygons:  result.Polygons,
		Toolpaths: &result.Toolpath,
	}
	for _, m := range result.Medial {
		if !m.Success {
			continue
		}
		scaled := medial.Results{Success: true}
		for i, chainPoints := range m.Chains {
			pts := make([]geometry.Point2D, len(chainPoints))
			radii := make([]float64, len(chainPoints))
			for j, p := range chainPoints {
				pts[j] = p.Scale(1 / mmToCM)
				radii[j] = m.ClearanceRadii[i][j] / mmToCM
			}
			scaled.Chains = append(scaled.Chains, pts)
			scaled.ClearanceRadii = append(scaled.ClearanceRadii, radii)
		}
		scene.Medial = append(scene.Medial, scaled)
	}
	return render.WriteSVG(w, scene, render.DefaultOptions())
}
