package toolpath

import (
	"fmt"
	"io"
)

// GCodeOptions configures G-code emission. All lengths are millimetres,
// feeds are mm/min.
type GCodeOptions struct {
	SafeHeight float64 // rapid travel height above the sketch plane
	FeedRate   float64 // cutting feed
	PlungeRate float64 // vertical entry feed
}

// DefaultGCodeOptions returns conservative values for small V-bits.
func DefaultGCodeOptions() GCodeOptions {
	return GCodeOptions{SafeHeight: 5, FeedRate: 600, PlungeRate: 200}
}

// gcodeWriter accumulates output and the first write error; every emit
// method is safe to call after a failure.
type gcodeWriter struct {
	w   io.Writer
	err error
}

func (g *gcodeWriter) emit(format string, args ...interface{}) {
	if g.err != nil {
		return
	}
	_, g.err = fmt.Fprintf(g.w, format+"\n", args...)
}

// WriteGCode renders the V-carve paths as G-code: metric, absolute
// coordinates, one plunge-cut-retract cycle per path. Depths are emitted as
// negative Z relative to the sketch plane at Z=0.
func WriteGCode(w io.Writer, results VCarveResults, opts GCodeOptions) error {
	if !results.Success {
		return fmt.Errorf("cannot write gcode for failed results: %s", results.ErrorMessage)
	}
	g := &gcodeWriter{w: w}
	g.emit("G21 ; millimetres")
	g.emit("G90 ; absolute positioning")
	g.emit("G0 Z%.3f", opts.SafeHeight)

	for i, path := range results.Paths {
		if !path.IsValid() {
			continue
		}
		g.emit("; path %d: %d points, %.1f mm", i+1, len(path.Points), path.TotalLength)
		start := path.Start()
		g.emit("G0 X%.3f Y%.3f", start.Position.X, start.Position.Y)
		g.emit("G1 Z%.3f F%.0f", -start.Depth, opts.PlungeRate)
		for _, pt := range path.Points[1:] {
			g.emit("G1 X%.3f Y%.3f Z%.3f F%.0f",
				pt.Position.X, pt.Position.Y, -pt.Depth, opts.FeedRate)
		}
		g.emit("G0 Z%.3f", opts.SafeHeight)
	}

	g.emit("M2 ; end of program")
	return g.err
}
