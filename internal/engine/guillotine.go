package engine

// guillotineRect is an axis-aligned integer rectangle, stripped down to the
// fields the separability check needs.
type guillotineRect struct {
	x, y, w, h int
}

// isGuillotine tests whether the rectangles in rects, confined to box
// (x0, y0, w, h), can be produced by a sequence of edge-to-edge straight
// cuts. It tries every candidate vertical cut line first, then every
// horizontal one, recursing on each side; a cut line is only considered if
// it falls strictly inside the box and does not pass through any
// rectangle's interior.
func isGuillotine(rects []guillotineRect, x0, y0, w, h int) bool {
	if len(rects) <= 1 {
		return true
	}

	if tryAllVerticalCuts(rects, x0, y0, w, h) {
		return true
	}

	if tryAllHorizontalCuts(rects, x0, y0, w, h) {
		return true
	}

	return false
}

func candidateXs(rects []guillotineRect) []int {
	seen := make(map[int]bool, len(rects)*2)
	var xs []int
	for _, r := range rects {
		if !seen[r.x] {
			seen[r.x] = true
			xs = append(xs, r.x)
		}
		right := r.x + r.w
		if !seen[right] {
			seen[right] = true
			xs = append(xs, right)
		}
	}
	sortInts(xs)
	return xs
}

func candidateYs(rects []guillotineRect) []int {
	seen := make(map[int]bool, len(rects)*2)
	var ys []int
	for _, r := range rects {
		if !seen[r.y] {
			seen[r.y] = true
			ys = append(ys, r.y)
		}
		top := r.y + r.h
		if !seen[top] {
			seen[top] = true
			ys = append(ys, top)
		}
	}
	sortInts(ys)
	return ys
}

func tryAllVerticalCuts(rects []guillotineRect, x0, y0, w, h int) bool {
	for _, x := range candidateXs(rects) {
		if x <= x0 || x >= x0+w {
			continue
		}
		crossesInterior := false
		for _, r := range rects {
			if r.x < x && x < r.x+r.w {
				crossesInterior = true
				break
			}
		}
		if crossesInterior {
			continue
		}

		var left, right []guillotineRect
		for _, r := range rects {
			if r.x+r.w <= x {
				left = append(left, r)
			} else if r.x >= x {
				right = append(right, r)
			}
		}
		if isGuillotine(left, x0, y0, x-x0, h) && isGuillotine(right, x, y0, x0+w-x, h) {
			return true
		}
	}
	return false
}

func tryAllHorizontalCuts(rects []guillotineRect, x0, y0, w, h int) bool {
	for _, y := range candidateYs(rects) {
		if y <= y0 || y >= y0+h {
			continue
		}
		crossesInterior := false
		for _, r := range rects {
			if r.y < y && y < r.y+r.h {
				crossesInterior = true
				break
			}
		}
		if crossesInterior {
			continue
		}

		var bottom, top []guillotineRect
		for _, r := range rects {
			if r.y+r.h <= y {
				bottom = append(bottom, r)
			} else if r.y >= y {
				top = append(top, r)
			}
		}
		if isGuillotine(bottom, x0, y0, w, y-y0) && isGuillotine(top, x0, y, w, y0+h-y) {
			return true
		}
	}
	return false
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
