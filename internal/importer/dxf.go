package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/rectopt/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// point2D is a local 2D point used only while measuring shape extents; DXF
// import never carries shape geometry into model.Item, only its bounding box.
type point2D struct {
	x, y float64
}

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into closed shapes.
type segment struct {
	start, end point2D
}

// ImportDXF imports items from a DXF file. Each closed shape (LWPOLYLINE,
// CIRCLE, or chain of connected LINEs/ARCs) becomes a separate rectangular
// Item sized to that shape's axis-aligned bounding box; non-rectangular
// detail is discarded since the optimizer only ever places rectangles.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes [][]point2D
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			pts := lwPolylinePoints(e)
			if len(pts) >= 3 {
				shapes = append(shapes, pts)
			} else {
				result.Warnings = append(result.Warnings, "skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			shapes = append(shapes, circlePoints(e, 64))

		case *entity.Arc:
			pts := arcPoints(e, 32)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point2D{x: e.Start[0], y: e.Start[1]},
				end:   point2D{x: e.End[0], y: e.End[1]},
			})

		default:
			// Unsupported entity types are silently skipped.
		}
	}

	// Chain loose segments (LINEs and ARCs) into closed shapes.
	for _, chain := range chainSegments(segments, 0.01) {
		if len(chain) >= 3 {
			shapes = append(shapes, chain)
		}
	}

	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "no closed shapes found in DXF file")
		return result
	}

	itemNum := 0
	for _, shape := range shapes {
		minX, minY, maxX, maxY := boundingBox(shape)
		width := maxX - minX
		height := maxY - minY

		if width < 0.01 || height < 0.01 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("skipped degenerate shape (%.2f x %.2f mm)", width, height))
			continue
		}

		itemNum++
		result.Items = append(result.Items, model.Item{
			ID:               fmt.Sprintf("dxf-%d", itemNum),
			WidthMM:          width,
			HeightMM:         height,
			Qty:              1,
			Rotation:         model.RotationAllow90,
			PatternDirection: model.PatternNone,
		})
	}

	return result
}

// lwPolylinePoints converts a DXF LWPOLYLINE entity to a point sequence.
// Bulge values on vertices produce interpolated arc segments so curved
// edges still contribute their true extent to the bounding box.
func lwPolylinePoints(lw *entity.LwPolyline) []point2D {
	var pts []point2D

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := point2D{x: v[0], y: v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := point2D{x: lw.Vertices[nextIdx][0], y: lw.Vertices[nextIdx][1]}
			arcPts := bulgeArcPoints(current, next, bulge, 32)
			pts = append(pts, arcPts[:len(arcPts)-1]...)
		} else {
			pts = append(pts, current)
		}
	}

	return pts
}

// bulgeArcPoints generates points along an arc defined by two endpoints and a
// DXF bulge factor. The bulge is the tangent of 1/4 the included angle.
func bulgeArcPoints(p1, p2 point2D, bulge float64, numSegments int) []point2D {
	mx := (p1.x + p2.x) / 2
	my := (p1.y + p2.y) / 2
	dx := p2.x - p1.x
	dy := p2.y - p1.y
	chordLen := math.Sqrt(dx*dx + dy*dy)
	if chordLen < 1e-9 {
		return []point2D{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.y-cy, p1.x-cx)
	endAngle := math.Atan2(p2.y-cy, p2.x-cx)

	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else {
		if endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
	}

	pts := make([]point2D, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, point2D{
			x: cx + radius*math.Cos(angle),
			y: cy + radius*math.Sin(angle),
		})
	}
	return pts
}

// circlePoints approximates a circle as a regular polygon, just to measure
// its bounding box.
func circlePoints(c *entity.Circle, numSegments int) []point2D {
	pts := make([]point2D, numSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := 0; i < numSegments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		pts[i] = point2D{x: cx + r*math.Cos(angle), y: cy + r*math.Sin(angle)}
	}
	return pts
}

// arcPoints converts a DXF ARC entity to a series of line points.
func arcPoints(a *entity.Arc, numSegments int) []point2D {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius
	startDeg := a.Angle[0]
	endDeg := a.Angle[1]

	startRad := startDeg * math.Pi / 180
	endRad := endDeg * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]point2D, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = point2D{x: cx + r*math.Cos(angle), y: cy + r*math.Sin(angle)}
	}
	return pts
}

// pointsToSegments converts a point sequence to a slice of connected segments.
func pointsToSegments(pts []point2D) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments connects individual segments into closed point loops.
// tolerance is the maximum distance between endpoints to consider them connected.
func chainSegments(segs []segment, tolerance float64) [][]point2D {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var shapes [][]point2D

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point2D{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 3 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			chain = chain[:len(chain)-1]
		}

		if len(chain) >= 3 {
			shapes = append(shapes, chain)
		}
	}

	// Sort shapes by area (largest first) for consistent, deterministic ordering.
	sort.Slice(shapes, func(i, j int) bool {
		return shapeArea(shapes[i]) > shapeArea(shapes[j])
	})

	return shapes
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point2D, tolerance float64) bool {
	dx := a.x - b.x
	dy := a.y - b.y
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}

// shapeArea computes the absolute area of a polygon using the shoelace formula.
func shapeArea(pts []point2D) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i].x * pts[j].y
		area -= pts[j].x * pts[i].y
	}
	return math.Abs(area) / 2
}

// boundingBox returns the axis-aligned min/max extent of a point set.
func boundingBox(pts []point2D) (minX, minY, maxX, maxY float64) {
	minX, minY = pts[0].x, pts[0].y
	maxX, maxY = pts[0].x, pts[0].y
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.x)
		minY = math.Min(minY, p.y)
		maxX = math.Max(maxX, p.x)
		maxY = math.Max(maxY, p.y)
	}
	return
}
