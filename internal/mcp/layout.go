package mcpserver

import (
	"math"

	"dash/internal/domain"
)

const (
	GridSize = 30.0 // matches frontend GRID_SIZE
	Padding  = 60.0 // 2 grid cells between widgets
	MaxRowW  = 1800.0
)

// LayoutEngine handles automatic placement of widgets on the canvas
// so that MCP-created widgets don't overlap existing ones.
type LayoutEngine struct {
	gridSize float64
	padding  float64
	maxRowW  float64
}

func NewLayoutEngine() *LayoutEngine {
	return &LayoutEngine{
		gridSize: GridSize,
		padding:  Padding,
		maxRowW:  MaxRowW,
	}
}

// snap rounds v to the nearest grid point.
func (le *LayoutEngine) snap(v float64) float64 {
	return math.Round(v/le.gridSize) * le.gridSize
}

// rect is a simple axis-aligned bounding box.
type rect struct {
	x, y, w, h float64
}

func (a rect) intersects(b rect) bool {
	return a.x < b.x+b.w && a.x+a.w > b.x &&
		a.y < b.y+b.h && a.y+a.h > b.y
}

// NextPosition finds the next non-overlapping grid position for a widget
// of size (newW, newH) given the existing widgets on the dashboard.
func (le *LayoutEngine) NextPosition(existing []domain.Widget, newW, newH float64) (float64, float64) {
	if len(existing) == 0 {
		return 0, 0
	}

	// Build occupancy set from existing widgets
	occupied := make([]rect, len(existing))
	for i, w := range existing {
		occupied[i] = rect{w.X, w.Y, w.Width, w.Height}
	}

	// Scan rows top-to-bottom, columns left-to-right
	candidate := rect{w: newW, h: newH}
	for y := 0.0; y < 100000; y += le.gridSize {
		for x := 0.0; x < le.maxRowW; x += le.gridSize {
			candidate.x = le.snap(x)
			candidate.y = le.snap(y)

			overlaps := false
			for _, occ := range occupied {
				// Add padding around existing widgets
				padded := rect{
					x: occ.x - le.padding,
					y: occ.y - le.padding,
					w: occ.w + le.padding*2,
					h: occ.h + le.padding*2,
				}
				if candidate.intersects(padded) {
					overlaps = true
					break
				}
			}
			if !overlaps {
				return candidate.x, candidate.y
			}
		}
	}

	// Fallback: place below all existing widgets
	maxY := 0.0
	for _, w := range existing {
		if w.Y+w.Height > maxY {
			maxY = w.Y + w.Height
		}
	}
	return 0, le.snap(maxY + le.padding)
}

// ArrangeGroup places a slice of widgets in a grid layout starting from
// (startX, startY). It modifies widget positions in-place and returns them.
func (le *LayoutEngine) ArrangeGroup(widgets []domain.Widget, startX, startY float64) []domain.Widget {
	x := le.snap(startX)
	y := le.snap(startY)
	rowHeight := 0.0

	for i := range widgets {
		widgets[i].X = x
		widgets[i].Y = y

		if widgets[i].Height > rowHeight {
			rowHeight = widgets[i].Height
		}

		x += le.snap(widgets[i].Width + le.padding)

		// Wrap to next row
		if x+widgets[i].Width > le.maxRowW {
			x = le.snap(startX)
			y += le.snap(rowHeight + le.padding)
			rowHeight = 0
		}
	}

	return widgets
}
