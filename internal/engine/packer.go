package engine

import (
	"sort"

	"github.com/ForeverZer0/rectpack"
	"github.com/piwi3910/rectopt/internal/model"
)

// packedRect is one accepted placement, in the integer coordinate space of
// its bin.
type packedRect struct {
	binIndex int
	xInt     int
	yInt     int
	wInt     int
	hInt     int
	rectID   int
}

// heuristicFor maps a packer family to the single concrete rectpack
// heuristic the spec treats as contractual for that family, since the
// exact choice determines reproducibility of a restart's output.
func heuristicFor(packer model.Packer) rectpack.Heuristic {
	switch packer {
	case model.PackerMaxRects:
		return rectpack.MaxRectsBSSF
	case model.PackerSkyline:
		return rectpack.SkylineBLF
	default: // guillotine
		return rectpack.GuillotineBSSF | rectpack.SplitShorterAxis
	}
}

// pack runs one offline packing attempt: every rectangle in instances is
// placed into one of bins, in bin order for first_fit or best-fit-scored
// order for best_fit. rectpack's Packer operates on a single bounded
// canvas, so the adapter builds one packer per bin and distributes the
// staged batch across them — first_fit takes bins in the order built by
// buildBins, best_fit tries the batch against the smallest-area bin first
// so a snug sheet is preferred over a larger one when both would fit it.
func pack(bins []binMeta, instances []rectMeta, eng model.Engine) []packedRect {
	heuristic := heuristicFor(eng.Packer)

	binOrder := make([]int, len(bins))
	for i := range bins {
		binOrder[i] = i
	}
	if eng.BinSelect == model.BinSelectBestFit {
		sort.SliceStable(binOrder, func(i, j int) bool {
			a, b := bins[binOrder[i]], bins[binOrder[j]]
			return a.usableWInt*a.usableHInt < b.usableWInt*b.usableHInt
		})
	}

	remaining := make([]rectpack.Size, len(instances))
	for i, inst := range instances {
		remaining[i] = rectpack.NewSizeID(inst.rectID, inst.widthEffInt, inst.heightEffInt)
	}

	var results []packedRect

	for _, binIdx := range binOrder {
		if len(remaining) == 0 {
			break
		}
		b := bins[binIdx]
		if b.usableWInt <= 0 || b.usableHInt <= 0 {
			continue
		}

		p := rectpack.NewPacker(b.usableWInt, b.usableHInt, heuristic)
		// rectpack defaults to SortArea; disable it so the order C6 (the
		// instance builder) staged remaining in is what actually gets packed.
		p.Sorter(nil, false)
		p.Insert(remaining...)
		p.Pack()

		for _, rect := range p.Rects() {
			results = append(results, packedRect{
				binIndex: binIdx,
				xInt:     rect.X,
				yInt:     rect.Y,
				wInt:     rect.Width,
				hInt:     rect.Height,
				rectID:   rect.ID,
			})
		}

		remaining = p.Unpacked()
	}

	return results
}
