// Package preview builds a 3D preview of a V-carve job using the
// github.com/deadsy/sdfx SDF-based CAD library: a stock block minus one
// conical cut per toolpath point, meshed with marching cubes. The preview
// is for visual inspection only and plays no part in toolpath generation.
package preview

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/tansell/chipcarve/pkg/toolpath"
)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// stockMargin is the XY border added around the toolpath extents, in mm.
const stockMargin = 5.0

// Options configures the carve preview.
type Options struct {
	ToolAngle      float64 // degrees, matches the job's V-bit
	StockThickness float64 // mm; 0 picks a thickness from the deepest cut
	MeshCells      int     // marching cubes resolution; 0 uses the default
}

// CarveSolid builds the carved stock as an SDF: a box whose top face is at
// z=0 with every toolpath point subtracted as a V-bit cone.
func CarveSolid(results toolpath.VCarveResults, opts Options) (sdf.SDF3, error) {
	if !results.Success {
		return nil, fmt.Errorf("preview: results not successful: %s", results.ErrorMessage)
	}
	if opts.ToolAngle <= 0 || opts.ToolAngle >= 180 {
		return nil, fmt.Errorf("preview: tool angle %g out of range", opts.ToolAngle)
	}

	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, path := range results.Paths {
		for _, pt := range path.Points {
			minX = math.Min(minX, pt.Position.X)
			minY = math.Min(minY, pt.Position.Y)
			maxX = math.Max(maxX, pt.Position.X)
			maxY = math.Max(maxY, pt.Position.Y)
		}
	}
	if minX > maxX {
		return nil, fmt.Errorf("preview: no toolpath points")
	}

	thickness := opts.StockThickness
	if thickness <= 0 {
		thickness = results.MaxDepth*2 + 2
	}

	sizeX := maxX - minX + 2*stockMargin
	sizeY := maxY - minY + 2*stockMargin
	stock, err := sdf.Box3D(v3.Vec{X: sizeX, Y: sizeY, Z: thickness}, 0)
	if err != nil {
		return nil, fmt.Errorf("preview: stock: %w", err)
	}
	// Center the stock on the toolpath extents with its top face at z=0.
	stock = sdf.Transform3D(stock, sdf.Translate3d(v3.Vec{
		X: (minX + maxX) / 2,
		Y: (minY + maxY) / 2,
		Z: -thickness / 2,
	}))

	halfAngle := opts.ToolAngle / 2 * math.Pi / 180
	var cuts []sdf.SDF3
	for _, path := range results.Paths {
		for _, pt := range path.Points {
			if pt.Depth <= 0 {
				continue
			}
			cut, err := bitCone(pt, halfAngle)
			if err != nil {
				return nil, err
			}
			cuts = append(cuts, cut)
		}
	}
	if len(cuts) == 0 {
		return stock, nil
	}
	return sdf.Difference3D(stock, sdf.Union3D(cuts...)), nil
}

// bitCone models the material removed by the V-bit plunged to pt.Depth:
// apex at z=-depth, opening to radius depth*tan(halfAngle) at the surface.
func bitCone(pt toolpath.VCarvePoint, halfAngle float64) (sdf.SDF3, error) {
	r := pt.Depth * math.Tan(halfAngle)
	cone, err := sdf.Cone3D(pt.Depth, 0, r, 0)
	if err != nil {
		return nil, fmt.Errorf("preview: cone at (%g,%g): %w", pt.Position.X, pt.Position.Y, err)
	}
	// Cone3D spans z in [-depth/2, depth/2] with the apex at the bottom;
	// shift the apex down to -depth.
	return sdf.Transform3D(cone, sdf.Translate3d(v3.Vec{
		X: pt.Position.X,
		Y: pt.Position.Y,
		Z: -pt.Depth / 2,
	})), nil
}

// Mesh is a flat triangle mesh suitable for rendering or STL export:
// vertices and normals hold 3 floats per vertex, indices 3 entries per
// triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) / 3 }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Vertices) == 0 }

// ToMesh tessellates a solid with marching cubes.
func ToMesh(s sdf.SDF3, cells int) (*Mesh, error) {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	numVerts := len(triangles) * 3
	mesh := &Mesh{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		Indices:  make([]uint32, 0, numVerts),
	}
	for i, tri := range triangles {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)
		for j := 0; j < 3; j++ {
			v := tri[j]
			mesh.Vertices = append(mesh.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			mesh.Normals = append(mesh.Normals, nx, ny, nz)
			mesh.Indices = append(mesh.Indices, uint32(i*3+j))
		}
	}
	return mesh, nil
}
