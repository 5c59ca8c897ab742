// Package simplify reduces triangle meshes with quadric error metric pair
// contraction (Garland and Heckbert, "Surface Simplification Using Quadric
// Error Metrics").
//
// The simplifier is single-threaded: each contraction depends on the
// state left by the previous one.
package simplify

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/proxymesh/pkg/math"
	"github.com/Faultbox/proxymesh/pkg/mesh"
)

var (
	// ErrInvalidGeometry is returned in strict mode when an input face is
	// degenerate.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrNegativeTarget is returned for a negative target face count.
	ErrNegativeTarget = errors.New("negative target face count")
)

// foldPenalty is added to the cost of a contraction that would flip a
// surviving face or stack two faces on the same corners.
const foldPenalty = 1e6

// Options controls a simplification run.
type Options struct {
	// TargetFaceCount stops contraction once the face count is at or
	// below it.
	TargetFaceCount int
	// DistanceThreshold additionally pairs vertices closer than this
	// distance. Zero disables the rule.
	DistanceThreshold float64
	// Strict fails on degenerate input faces instead of discarding them.
	Strict bool
	// EmitSplitRecords records a VertexSplit per contraction.
	EmitSplitRecords bool
	// Logger receives diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns strict, edge-only options for the given target.
func DefaultOptions(target int) Options {
	return Options{TargetFaceCount: target, Strict: true}
}

// Result is a simplified mesh.
type Result struct {
	Points    []math.Vec3
	Triangles []math.Triangle
	// Splits reverse the contractions, most recent first. Nil unless
	// split records were requested.
	Splits []VertexSplit
	// Contractions is the number of pairs contracted.
	Contractions int
}

// Mesh returns the simplified geometry as a mesh.
func (r *Result) Mesh() *mesh.Mesh {
	return mesh.New(r.Points, r.Triangles)
}

// Simplify contracts vertex pairs of least quadric error until at most
// opts.TargetFaceCount faces remain or no valid pair is left. Surviving
// vertices are renumbered densely in their original order.
func Simplify(points []math.Vec3, triangles []math.Triangle, opts Options) (*Result, error) {
	if opts.TargetFaceCount < 0 {
		return nil, fmt.Errorf("simplify: %w: %d", ErrNegativeTarget, opts.TargetFaceCount)
	}
	if err := mesh.ValidateTriangles(len(points), triangles); err != nil {
		return nil, fmt.Errorf("simplify: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if opts.TargetFaceCount >= len(triangles) {
		m := mesh.New(points, triangles).Clone()
		return &Result{Points: m.Points, Triangles: m.Triangles}, nil
	}

	s := newSimplifier(points, triangles, opts, log)
	if err := s.computeQuadrics(); err != nil {
		return nil, fmt.Errorf("simplify: %w", err)
	}
	s.computePairs()

	contractions := 0
	for s.faceCount > opts.TargetFaceCount && s.queue.Len() > 0 {
		s.contract(s.queue.popMin())
		contractions++
	}

	res := s.build()
	res.Contractions = contractions
	log.Debug("simplified mesh",
		zap.Int("vertices_in", len(points)),
		zap.Int("faces_in", len(triangles)),
		zap.Int("vertices_out", len(res.Points)),
		zap.Int("faces_out", len(res.Triangles)),
		zap.Int("contractions", contractions),
		zap.Int("target", opts.TargetFaceCount),
	)
	return res, nil
}

// face is an arena slot; incidence sets refer to faces by slot index.
type face struct {
	tri     math.Triangle
	removed bool
}

type simplifier struct {
	opts Options
	log  *zap.Logger

	points   []math.Vec3
	alive    []bool
	quadrics []math.Quadric

	faces     []face
	faceCount int
	incident  []map[int]struct{}

	pairs       map[pairKey]*pair
	vertexPairs []map[*pair]struct{}
	queue       pairQueue

	splits []pendingSplit
}

func newSimplifier(points []math.Vec3, triangles []math.Triangle, opts Options, log *zap.Logger) *simplifier {
	if log == nil {
		log = zap.NewNop()
	}
	s := &simplifier{
		opts:        opts,
		log:         log,
		points:      make([]math.Vec3, len(points)),
		alive:       make([]bool, len(points)),
		quadrics:    make([]math.Quadric, len(points)),
		faces:       make([]face, len(triangles)),
		incident:    make([]map[int]struct{}, len(points)),
		pairs:       make(map[pairKey]*pair),
		vertexPairs: make([]map[*pair]struct{}, len(points)),
	}
	copy(s.points, points)
	for v := range points {
		s.alive[v] = true
		s.incident[v] = make(map[int]struct{})
		s.vertexPairs[v] = make(map[*pair]struct{})
	}
	for i, t := range triangles {
		s.faces[i] = face{tri: t}
	}
	return s
}

// computeQuadrics sums the plane quadric of every face into its three
// vertices and builds the face incidence sets. Degenerate faces either
// abort the run or are dropped, depending on opts.Strict.
func (s *simplifier) computeQuadrics() error {
	degenerate := 0
	for i := range s.faces {
		f := &s.faces[i]
		a, b, c := f.tri.Corners(s.points)
		kp, ok := math.FaceQuadric(a, b, c)
		if f.tri.HasDuplicate() {
			ok = false
		}
		if !ok {
			if s.opts.Strict {
				return fmt.Errorf("%w: degenerate face %d (%d %d %d): vertex 1 %v, vertex 2 %v, vertex 3 %v",
					ErrInvalidGeometry, i, f.tri.A, f.tri.B, f.tri.C, a, b, c)
			}
			s.log.Debug("discarding degenerate face",
				zap.Int("face", i),
				zap.Stringer("vertex1", a),
				zap.Stringer("vertex2", b),
				zap.Stringer("vertex3", c),
			)
			f.removed = true
			degenerate++
			continue
		}
		for _, v := range f.tri.Indices() {
			s.quadrics[v] = s.quadrics[v].Add(kp)
			s.incident[v][i] = struct{}{}
		}
	}
	if degenerate > 0 {
		s.log.Warn("degenerate faces discarded", zap.Int("count", degenerate))
	}
	s.faceCount = len(s.faces) - degenerate
	return nil
}

// computePairs queues every mesh edge and, with a positive distance
// threshold, every vertex pair closer than it.
func (s *simplifier) computePairs() {
	for i := range s.faces {
		if s.faces[i].removed {
			continue
		}
		t := s.faces[i].tri
		s.addPair(t.A, t.B)
		s.addPair(t.B, t.C)
		s.addPair(t.C, t.A)
	}
	if s.opts.DistanceThreshold > 0 {
		near := thresholdPairs(s.points, s.opts.DistanceThreshold)
		for _, k := range near {
			s.addPair(k[0], k[1])
		}
		s.log.Debug("distance pairs", zap.Int("count", len(near)))
	}
}

func (s *simplifier) addPair(a, b int) {
	key := makePairKey(a, b)
	if _, ok := s.pairs[key]; ok {
		return
	}
	p := &pair{v1: key[0], v2: key[1], index: -1}
	s.evaluate(p)
	s.pairs[key] = p
	s.vertexPairs[p.v1][p] = struct{}{}
	s.vertexPairs[p.v2][p] = struct{}{}
	s.queue.insert(p)
}

// evaluate computes the pair's optimal target and its cost under the
// combined quadric. A singular system falls back to the cheapest of the
// two endpoints and their midpoint. Targets that fold the surface are
// penalized so they are contracted last.
func (s *simplifier) evaluate(p *pair) {
	q := s.quadrics[p.v1].Add(s.quadrics[p.v2])
	if target, ok := q.Optimal(); ok {
		p.target = target
		p.cost = q.Eval(target)
	} else {
		a, b := s.points[p.v1], s.points[p.v2]
		candidates := [3]math.Vec3{a, b, a.Midpoint(b)}
		p.target = candidates[0]
		p.cost = q.Eval(candidates[0])
		for _, c := range candidates[1:] {
			if e := q.Eval(c); e < p.cost {
				p.target = c
				p.cost = e
			}
		}
	}
	if s.folds(p.v1, p.v2, p.target) {
		p.cost += foldPenalty
	}
}

// folds reports whether merging v1 and v2 at target would reverse the
// normal of a face that survives the contraction, or leave two faces on
// the same three vertices.
func (s *simplifier) folds(v1, v2 int, target math.Vec3) bool {
	at := func(id int) math.Vec3 {
		if id == v1 {
			return target
		}
		return s.points[id]
	}
	seen := make(map[[3]int]struct{})
	for _, v := range [2]int{v1, v2} {
		for fi := range s.incident[v] {
			t := s.faces[fi].tri
			if t.Contains(v1) && t.Contains(v2) {
				continue
			}
			moved := t.Replace(v2, v1)
			before := t.Normal(s.points)
			after := at(moved.B).Sub(at(moved.A)).Cross(at(moved.C).Sub(at(moved.A)))
			if before.Dot(after) <= 0 {
				return true
			}
			key := moved.Indices()
			sort.Ints(key[:])
			if _, dup := seen[key]; dup {
				return true
			}
			seen[key] = struct{}{}
		}
	}
	return false
}

// contract merges p.v2 into p.v1 at p.target.
func (s *simplifier) contract(p *pair) {
	v1, v2 := p.v1, p.v2
	if s.opts.EmitSplitRecords {
		s.recordSplit(v1, v2)
	}

	s.points[v1] = p.target
	s.quadrics[v1] = s.quadrics[v1].Add(s.quadrics[v2])

	// Faces of v2 either move to v1 or, when they already touch v1,
	// collapse.
	touched := make(map[int]struct{})
	for _, fi := range sortedFaces(s.incident[v2]) {
		if _, shared := s.incident[v1][fi]; shared {
			for _, x := range s.faces[fi].tri.Indices() {
				touched[x] = struct{}{}
			}
			s.removeFace(fi)
			continue
		}
		s.faces[fi].tri = s.faces[fi].tri.Replace(v2, v1)
		s.incident[v1][fi] = struct{}{}
	}
	s.incident[v2] = nil
	s.alive[v2] = false

	merged := s.vertexPairs[v1]
	for q := range s.vertexPairs[v2] {
		merged[q] = struct{}{}
	}
	s.vertexPairs[v2] = nil

	for _, q := range sortedPairs(merged) {
		s.queue.remove(q)
		if s.pairs[q.key()] == q {
			delete(s.pairs, q.key())
		}

		a, b := q.v1, q.v2
		if a == v2 {
			a = v1
		}
		if b == v2 {
			b = v1
		}
		if a == b {
			delete(merged, q)
			continue
		}

		key := makePairKey(a, b)
		if _, dup := s.pairs[key]; dup {
			other := key[0]
			if other == v1 {
				other = key[1]
			}
			delete(merged, q)
			delete(s.vertexPairs[other], q)
			continue
		}
		q.v1, q.v2 = key[0], key[1]
		s.pairs[key] = q
		s.evaluate(q)
		s.queue.insert(q)
	}

	for fi := range s.incident[v1] {
		for _, x := range s.faces[fi].tri.Indices() {
			touched[x] = struct{}{}
		}
	}
	delete(touched, v1)
	delete(touched, v2)
	s.reevaluate(v1, touched)
}

// reevaluate refreshes the pairs of every touched vertex, since their
// faces moved or vanished and their fold checks are stale. Pairs of v
// itself were evaluated by the caller.
func (s *simplifier) reevaluate(v int, touched map[int]struct{}) {
	done := make(map[*pair]struct{})
	for x := range touched {
		for q := range s.vertexPairs[x] {
			if q.v1 == v || q.v2 == v {
				continue
			}
			if _, ok := done[q]; ok {
				continue
			}
			done[q] = struct{}{}
			s.evaluate(q)
			s.queue.fix(q)
		}
	}
}

func (s *simplifier) removeFace(fi int) {
	for _, v := range s.faces[fi].tri.Indices() {
		delete(s.incident[v], fi)
	}
	s.faces[fi].removed = true
	s.faceCount--
}

// build compacts surviving vertices into 0..M-1 and resolves split
// records into the extended id space.
func (s *simplifier) build() *Result {
	remap := make([]int, len(s.points))
	points := make([]math.Vec3, 0, len(s.points))
	for v, p := range s.points {
		remap[v] = -1
		if s.alive[v] {
			remap[v] = len(points)
			points = append(points, p)
		}
	}

	triangles := make([]math.Triangle, 0, s.faceCount)
	for _, f := range s.faces {
		if f.removed {
			continue
		}
		triangles = append(triangles, remapTriangle(f.tri, remap))
	}

	res := &Result{Points: points, Triangles: triangles}
	if s.opts.EmitSplitRecords {
		res.Splits = s.resolveSplits(remap, len(points))
	}
	return res
}

func remapTriangle(t math.Triangle, remap []int) math.Triangle {
	return math.Triangle{A: remap[t.A], B: remap[t.B], C: remap[t.C]}
}

func sortedFaces(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for fi := range set {
		out = append(out, fi)
	}
	sort.Ints(out)
	return out
}

func sortedPairs(set map[*pair]struct{}) []*pair {
	out := make([]*pair, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].v1 != out[j].v1 {
			return out[i].v1 < out[j].v1
		}
		return out[i].v2 < out[j].v2
	})
	return out
}
