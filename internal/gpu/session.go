//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/vvg"
	"github.com/gogpu/wgpu/hal"
)

// frameState is the state of a frameSession.
type frameState int

const (
	stateIdle frameState = iota
	stateAccumulating
)

// String returns the state name.
func (s frameState) String() string {
	if s == stateAccumulating {
		return "accumulating"
	}
	return "idle"
}

// pathRange locates one path's fan and strip vertices in the frame's
// shared vertex sequence. Offsets and counts are in vertices.
type pathRange struct {
	fillOffset   int
	fillCount    int
	strokeOffset int
	strokeCount  int
}

// vertexRange locates a triangle list in the shared vertex sequence.
type vertexRange struct {
	offset int
	count  int
}

// drawEntry is one accumulated Fill, Stroke or Triangles call.
type drawEntry struct {
	uniform UniformRecord
	texture int

	// bindGroup is assigned during flush.
	bindGroup hal.BindGroup

	paths     []pathRange
	triangles vertexRange
	isList    bool
}

// frameSession accumulates one frame's draw entries and vertices.
// It performs no GPU work; the renderer realizes the batch on flush.
type frameSession struct {
	state  frameState
	width  int
	height int
	edgeAA bool

	entries  []drawEntry
	vertices []vvg.Vertex

	lookup textureFormatLookup
}

// start opens a frame. Anything accumulated before is discarded; slice
// capacity is kept.
func (s *frameSession) start(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: viewport %dx%d", vvg.ErrInvalidSize, width, height)
	}
	s.clear()
	s.width, s.height = width, height
	s.state = stateAccumulating
	return nil
}

func (s *frameSession) viewSize() [2]float32 {
	return [2]float32{float32(s.width), float32(s.height)}
}

func (s *frameSession) check(op string, fringe float32) error {
	if s.state != stateAccumulating {
		return fmt.Errorf("%w: %s while %v", vvg.ErrInvalidState, op, s.state)
	}
	if !(fringe > 0) {
		return fmt.Errorf("%w: %s with fringe %v", vvg.ErrInvalidFringe, op, fringe)
	}
	return nil
}

// fill records one entry for a set of filled paths. The fringe width is
// also used as the stroke width.
func (s *frameSession) fill(paint *vvg.Paint, scissor *vvg.Scissor, fringe float32, paths []vvg.Path) error {
	if err := s.check("fill", fringe); err != nil {
		return err
	}
	u, err := encodePaint(s.viewSize(), paint, scissor, fringe, fringe, s.lookup)
	if err != nil {
		return err
	}
	e := s.newEntry(u, paint.Image)
	for i := range paths {
		p := &paths[i]
		var r pathRange
		r.fillOffset, r.fillCount = s.appendVertices(p.Fill)
		if s.edgeAA && len(p.Stroke) > 0 {
			r.strokeOffset, r.strokeCount = s.appendVertices(p.Stroke)
		}
		e.paths = append(e.paths, r)
	}
	return nil
}

// stroke records one entry for a set of stroked paths.
func (s *frameSession) stroke(paint *vvg.Paint, scissor *vvg.Scissor, fringe, strokeWidth float32, paths []vvg.Path) error {
	if err := s.check("stroke", fringe); err != nil {
		return err
	}
	u, err := encodePaint(s.viewSize(), paint, scissor, fringe, strokeWidth, s.lookup)
	if err != nil {
		return err
	}
	e := s.newEntry(u, paint.Image)
	for i := range paths {
		var r pathRange
		r.strokeOffset, r.strokeCount = s.appendVertices(paths[i].Stroke)
		e.paths = append(e.paths, r)
	}
	return nil
}

// triangles records one flat-shaded triangle list entry.
func (s *frameSession) triangles(paint *vvg.Paint, scissor *vvg.Scissor, vertices []vvg.Vertex) error {
	if err := s.check("triangles", 1); err != nil {
		return err
	}
	u, err := encodePaint(s.viewSize(), paint, scissor, 1, 1, s.lookup)
	if err != nil {
		return err
	}
	e := s.newEntry(u, paint.Image)
	e.isList = true
	e.triangles.offset, e.triangles.count = s.appendVertices(vertices)
	return nil
}

// cancel drops the open frame.
func (s *frameSession) cancel() {
	s.clear()
}

// clear empties the batch and returns to idle, keeping capacity.
func (s *frameSession) clear() {
	s.entries = s.entries[:0]
	s.vertices = s.vertices[:0]
	s.state = stateIdle
}

// newEntry appends an entry, reusing the path slice of a previous frame's
// entry in the same slot.
func (s *frameSession) newEntry(u UniformRecord, texture int) *drawEntry {
	n := len(s.entries)
	if n < cap(s.entries) {
		s.entries = s.entries[:n+1]
	} else {
		s.entries = append(s.entries, drawEntry{})
	}
	e := &s.entries[n]
	*e = drawEntry{uniform: u, texture: texture, paths: e.paths[:0]}
	return e
}

func (s *frameSession) appendVertices(v []vvg.Vertex) (offset, count int) {
	offset = len(s.vertices)
	s.vertices = append(s.vertices, v...)
	return offset, len(v)
}

// maxFanVertices returns the largest fill fan of the batch.
func (s *frameSession) maxFanVertices() int {
	n := 0
	for i := range s.entries {
		for _, p := range s.entries[i].paths {
			n = max(n, p.fillCount)
		}
	}
	return n
}

// vertexBytes encodes the vertex sequence into dst, growing it as needed.
func (s *frameSession) vertexBytes(dst []byte) []byte {
	size := len(s.vertices) * vvg.VertexSize
	if cap(dst) < size {
		dst = make([]byte, size)
	}
	dst = dst[:size]
	le := binary.LittleEndian
	for i, v := range s.vertices {
		o := i * vvg.VertexSize
		le.PutUint32(dst[o:], math.Float32bits(v.X))
		le.PutUint32(dst[o+4:], math.Float32bits(v.Y))
		le.PutUint32(dst[o+8:], math.Float32bits(v.U))
		le.PutUint32(dst[o+12:], math.Float32bits(v.V))
	}
	return dst
}
