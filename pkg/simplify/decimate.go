package simplify

import (
	"context"

	"go.uber.org/zap"
)

// scratch holds the per-collapse deletion marks, reused across attempts.
type scratch struct {
	deleted0 []bool
	deleted1 []bool
}

func resizeMarks(marks []bool, n int) []bool {
	if cap(marks) < n {
		return make([]bool, n)
	}
	return marks[:n]
}

// live returns the number of triangles not yet deleted.
func (g *graph) live() int {
	return len(g.triangles) - g.deleted
}

// run performs greedy collapse sweeps until the live triangle count reaches
// target or MaxIterations sweeps have been made. The context is only checked
// between sweeps, where the graph is consistent.
func (g *graph) run(ctx context.Context, target int, stats *Stats) error {
	log := g.opts.logger()
	var s scratch

	for iteration := 0; iteration < g.opts.MaxIterations; iteration++ {
		if g.live() <= target {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		for i := range g.triangles {
			g.triangles[i].dirty = false
		}
		if f := g.opts.RefCompactFactor; f > 0 && len(g.refs) > f*g.liveRefs() {
			g.rebuildRefs()
		}

		threshold := g.opts.threshold(iteration)
		collapsed := stats.Collapses

		for i := range g.triangles {
			t := &g.triangles[i]
			if t.err[3] > threshold || t.deleted || t.dirty {
				continue
			}

			for j := 0; j < 3; j++ {
				if t.err[j] > threshold {
					continue
				}
				if g.collapse(t.v[j], t.v[(j+1)%3], &s, stats) {
					break
				}
			}

			if g.live() <= target {
				break
			}
		}

		stats.Iterations++
		log.Debug("sweep done",
			zap.Int("iteration", iteration),
			zap.Float64("threshold", threshold),
			zap.Int("collapses", stats.Collapses-collapsed),
			zap.Int("live", g.live()),
			zap.Int("target", target),
		)
	}
	return nil
}

// collapse merges i1 into i0 if the edge passes every validity check.
// It reports whether the collapse was committed.
func (g *graph) collapse(i0, i1 int32, s *scratch, stats *Stats) bool {
	if i0 == i1 {
		return false
	}
	v0 := &g.vertices[i0]
	v1 := &g.vertices[i1]
	if !borderCompatible(v0, v1) {
		stats.BorderSkips++
		return false
	}

	_, p := g.calculateError(i0, i1)

	s.deleted0 = resizeMarks(s.deleted0, v0.count)
	s.deleted1 = resizeMarks(s.deleted1, v1.count)
	if g.flipped(p, i0, i1, v0, s.deleted0) || g.flipped(p, i1, i0, v1, s.deleted1) {
		stats.FlipSkips++
		return false
	}

	v0.p = p
	v0.q = v0.q.Add(v1.q)

	start := len(g.refs)
	g.updateTriangles(i0, v0, s.deleted0)
	g.updateTriangles(i0, v1, s.deleted1)
	count := len(g.refs) - start

	if count <= v0.count {
		// Reuse v0's old window and drop the appended copy.
		copy(g.refs[v0.start:v0.start+count], g.refs[start:])
		g.refs = g.refs[:start]
	} else {
		v0.start = start
	}
	v0.count = count

	stats.Collapses++
	return true
}

// updateTriangles rewires the live triangles of v onto i0, deletes the ones
// marked in deleted, refreshes edge errors and appends the survivors' refs.
func (g *graph) updateTriangles(i0 int32, v *vertex, deleted []bool) {
	for k := 0; k < v.count; k++ {
		r := g.refs[v.start+k]
		t := &g.triangles[r.tid]
		if t.deleted {
			continue
		}
		if deleted[k] {
			t.deleted = true
			g.deleted++
			continue
		}
		t.v[r.slot] = i0
		t.dirty = true
		g.updateErrors(t)
		g.refs = append(g.refs, r)
	}
}
