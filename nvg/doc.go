// Package nvg exposes a vvg.Backend through a NanoVG-style render
// parameter table.
//
// The table mirrors the callbacks a NanoVG frontend drives: texture
// management with plain integer handles, viewport, cancel, flush, the three
// draw calls and renderDelete. Results follow NanoVG conventions: 1 for
// success, 0 for failure, and texture handles are positive. Errors that
// cannot cross the table are logged with vvg.Logger and kept for
// [Adapter.Err].
//
// Transforms use NanoVG's layout [a b c d e f], mapping (x, y) to
// (a*x + c*y + e, b*x + d*y + f).
package nvg
