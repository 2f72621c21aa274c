package detection

import "image"

// candidate is one raw window the classifier fired on.
type candidate struct {
	rect image.Rectangle
}

// groupCandidates merges overlapping candidate windows and keeps a group only
// when it has more than minNeighbors members, the same confirmation rule the
// OpenCV cascade applies. Grouping itself does not depend on minNeighbors, so
// raising it can only drop groups, never add them.
func groupCandidates(cands []candidate, iouThreshold float64, minNeighbors int) []image.Rectangle {
	if len(cands) == 0 {
		return nil
	}

	parent := make([]int, len(cands))
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}

	for i := 0; i < len(cands); i++ {
		for j := i + 1; j < len(cands); j++ {
			if iou(cands[i].rect, cands[j].rect) > iouThreshold {
				union(i, j)
			}
		}
	}

	type acc struct {
		x0, y0, x1, y1 int
		n              int
	}
	groups := make(map[int]*acc)
	order := make([]int, 0)
	for i, c := range cands {
		root := find(i)
		g, ok := groups[root]
		if !ok {
			g = &acc{}
			groups[root] = g
			order = append(order, root)
		}
		g.x0 += c.rect.Min.X
		g.y0 += c.rect.Min.Y
		g.x1 += c.rect.Max.X
		g.y1 += c.rect.Max.Y
		g.n++
	}

	var out []image.Rectangle
	for _, root := range order {
		g := groups[root]
		if g.n <= minNeighbors {
			continue
		}
		out = append(out, image.Rect(
			roundDiv(g.x0, g.n),
			roundDiv(g.y0, g.n),
			roundDiv(g.x1, g.n),
			roundDiv(g.y1, g.n),
		))
	}
	return out
}

func iou(a, b image.Rectangle) float64 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0
	}
	ia := float64(inter.Dx() * inter.Dy())
	ua := float64(a.Dx()*a.Dy()+b.Dx()*b.Dy()) - ia
	if ua <= 0 {
		return 0
	}
	return ia / ua
}

func roundDiv(sum, n int) int {
	if sum >= 0 {
		return (sum + n/2) / n
	}
	return (sum - n/2) / n
}
