package vvg

// VertexSize is the byte stride of a Vertex in GPU memory.
const VertexSize = 16

// Vertex is a tessellated vertex: position followed by texture coordinate.
// Fringe vertices carry the antialiasing coverage in U/V.
type Vertex struct {
	X, Y float32
	U, V float32
}

// V returns a vertex at (x, y) with texture coordinate (u, v).
func V(x, y, u, v float32) Vertex {
	return Vertex{X: x, Y: y, U: u, V: v}
}

// Path is one flattened path as produced by the frontend tessellator.
//
// Fill holds the convex fan of the interior. Stroke holds a triangle strip:
// the antialiasing fringe of a fill or the geometry of a stroke.
type Path struct {
	Fill   []Vertex
	Stroke []Vertex
}
