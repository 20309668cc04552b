package preview

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// WriteSTL writes the mesh in binary STL format. The sdfx renderers only
// write STL to named files, so streaming to an io.Writer is done here.
func WriteSTL(w io.Writer, mesh *Mesh) error {
	if mesh.IsEmpty() {
		return fmt.Errorf("stl: empty mesh")
	}
	if len(mesh.Indices)%3 != 0 {
		return fmt.Errorf("stl: index count %d not a multiple of 3", len(mesh.Indices))
	}

	var header [80]byte
	copy(header[:], "chipcarve preview")
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	count := uint32(mesh.TriangleCount())
	if err := binary.Write(w, binary.LittleEndian, count); err != nil {
		return err
	}

	var buf [50]byte // normal + 3 vertices + attribute count
	for t := 0; t < mesh.TriangleCount(); t++ {
		putVec(buf[0:], mesh.Normals, int(mesh.Indices[3*t]))
		for j := 0; j < 3; j++ {
			putVec(buf[12+12*j:], mesh.Vertices, int(mesh.Indices[3*t+j]))
		}
		buf[48], buf[49] = 0, 0
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

func putVec(dst []byte, data []float32, vertex int) {
	for c := 0; c < 3; c++ {
		binary.LittleEndian.PutUint32(dst[4*c:], math.Float32bits(data[3*vertex+c]))
	}
}
