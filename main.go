// chipcarve generates V-carve CNC toolpaths from chip-carving designs.
// A design (JSON document or Lisp DSL) describes leaf and tri-arc shapes;
// the tool computes each shape's medial axis, maps clearance radii to V-bit
// depths, and writes G-code plus optional SVG and STL previews.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tansell/chipcarve/pkg/preview"
	"github.com/tansell/chipcarve/pkg/toolpath"
)

func main() {
	params := toolpath.DefaultParameters()

	designPath := flag.String("design", "", "design file (.json document or .lisp DSL)")
	gcodePath := flag.String("gcode", "", "write G-code to this file")
	svgPath := flag.String("svg", "", "write a debug SVG to this file")
	stlPath := flag.String("stl", "", "write a carve-preview STL to this file")

	flag.Float64Var(&params.ToolAngle, "tool-angle", params.ToolAngle, "V-bit included angle in degrees")
	flag.Float64Var(&params.MaxVCarveDepth, "max-depth", params.MaxVCarveDepth, "maximum carve depth in mm")
	flag.Float64Var(&params.SamplingDistance, "sampling", params.SamplingDistance, "sample spacing along paths in mm")
	flag.Float64Var(&params.PolygonTolerance, "tolerance", params.PolygonTolerance, "polygonization chord tolerance in mm")
	flag.Float64Var(&params.MedialThreshold, "medial-threshold", params.MedialThreshold, "medial-axis filter threshold")
	flag.IntVar(&params.MedialAxisWalkPoints, "walk-points", params.MedialAxisWalkPoints, "interpolated points per medial edge")

	raw := flag.Bool("raw", false, "skip the chain sampler, keep the medial engine's exact points")
	verbose := flag.Bool("v", false, "verbose logging")

	safeHeight := flag.Float64("safe-height", 5, "rapid travel height in mm")
	feedRate := flag.Float64("feed", 600, "cutting feed in mm/min")
	plungeRate := flag.Float64("plunge", 200, "plunge feed in mm/min")

	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("chipcarve: ")

	if *designPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	app := NewApp(params)
	app.RawMode = *raw
	app.Verbose = *verbose

	doc, err := app.LoadDesign(*designPath)
	if err != nil {
		log.Fatal(err)
	}

	result, err := app.Run(doc)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(result.Toolpath.Summary())

	if *gcodePath != "" {
		opts := toolpath.GCodeOptions{
			SafeHeight: *safeHeight,
			FeedRate:   *feedRate,
			PlungeRate: *plungeRate,
		}
		if err := writeFile(*gcodePath, func(f *os.File) error {
			return app.WriteGCode(f, result, opts)
		}); err != nil {
			log.Fatal(err)
		}
	}

	if *svgPath != "" {
		if err := writeFile(*svgPath, func(f *os.File) error {
			return app.WriteSVG(f, result)
		}); err != nil {
			log.Fatal(err)
		}
	}

	if *stlPath != "" {
		if err := writeFile(*stlPath, func(f *os.File) error {
			solid, err := preview.CarveSolid(result.Toolpath, preview.Options{
				ToolAngle: params.ToolAngle,
			})
			if err != nil {
				return err
			}
			mesh, err := preview.ToMesh(solid, 0)
			if err != nil {
				return err
			}
			return preview.WriteSTL(f, mesh)
		}); err != nil {
			log.Fatal(err)
		}
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
