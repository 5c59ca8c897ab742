package simplify

import (
	"fmt"

	"github.com/Faultbox/proxymesh/pkg/math"
)

// VertexSplit reverses one contraction of a progressive mesh. All ids live
// in the extended id space of a Result: 0..M-1 are the simplified
// vertices, M and up are the vertices reintroduced by splits.
type VertexSplit struct {
	// S is the vertex that is split.
	S int
	// T is the vertex the split reintroduces.
	T int
	// SPosition is the position of S after the split.
	SPosition math.Vec3
	// TPosition is the position of T.
	TPosition math.Vec3
	// Faces were incident to T before the contraction. Faces that also
	// contain S collapsed and are restored; the others were re-pointed
	// from T to S and are handed back to T.
	Faces []math.Triangle
}

// pendingSplit keeps original vertex ids until the final numbering is
// known.
type pendingSplit struct {
	s, t       int
	sPos, tPos math.Vec3
	faces      []math.Triangle
}

func (s *simplifier) recordSplit(v1, v2 int) {
	split := pendingSplit{
		s:    v1,
		t:    v2,
		sPos: s.points[v1],
		tPos: s.points[v2],
	}
	for _, fi := range sortedFaces(s.incident[v2]) {
		split.faces = append(split.faces, s.faces[fi].tri)
	}
	s.splits = append(s.splits, split)
}

// resolveSplits numbers removed vertices after the survivors in reverse
// contraction order, then rewrites every record through the completed
// mapping.
func (s *simplifier) resolveSplits(remap []int, survivors int) []VertexSplit {
	next := survivors
	for i := len(s.splits) - 1; i >= 0; i-- {
		remap[s.splits[i].t] = next
		next++
	}

	out := make([]VertexSplit, 0, len(s.splits))
	for i := len(s.splits) - 1; i >= 0; i-- {
		ps := s.splits[i]
		vs := VertexSplit{
			S:         remap[ps.s],
			T:         remap[ps.t],
			SPosition: ps.sPos,
			TPosition: ps.tPos,
			Faces:     make([]math.Triangle, len(ps.faces)),
		}
		for j, f := range ps.faces {
			vs.Faces[j] = remapTriangle(f, remap)
		}
		out = append(out, vs)
	}
	return out
}

// Refine applies the first n splits to a simplified mesh and returns the
// refined points and triangles. The inputs are not modified.
func Refine(points []math.Vec3, triangles []math.Triangle, splits []VertexSplit, n int) ([]math.Vec3, []math.Triangle, error) {
	if n < 0 || n > len(splits) {
		return nil, nil, fmt.Errorf("simplify: refine %d of %d splits", n, len(splits))
	}
	pts := make([]math.Vec3, len(points), len(points)+n)
	copy(pts, points)
	tris := make([]math.Triangle, len(triangles))
	copy(tris, triangles)

	lookup := make(map[math.Triangle][]int, len(tris))
	for i, t := range tris {
		lookup[t] = append(lookup[t], i)
	}

	for i, vs := range splits[:n] {
		if vs.T != len(pts) {
			return nil, nil, fmt.Errorf("simplify: split %d reintroduces vertex %d, want %d", i, vs.T, len(pts))
		}
		if vs.S < 0 || vs.S >= len(pts) {
			return nil, nil, fmt.Errorf("simplify: split %d splits unknown vertex %d", i, vs.S)
		}
		pts = append(pts, vs.TPosition)
		pts[vs.S] = vs.SPosition

		for _, f := range vs.Faces {
			moved := f.Replace(vs.T, vs.S)
			if moved.HasDuplicate() {
				tris = append(tris, f)
				lookup[f] = append(lookup[f], len(tris)-1)
				continue
			}
			slots := lookup[moved]
			if len(slots) == 0 {
				return nil, nil, fmt.Errorf("simplify: split %d: face %v not found", i, moved)
			}
			fi := slots[len(slots)-1]
			lookup[moved] = slots[:len(slots)-1]
			tris[fi] = f
			lookup[f] = append(lookup[f], fi)
		}
	}
	return pts, tris, nil
}
