package iso

import (
	"errors"
	"slices"

	"github.com/matzehuels/graphwfc/pkg/graph"
)

// ErrMixedDirectedness is returned when the host and query graphs do not
// agree on directedness. Matching across the two edge models is undefined.
var ErrMixedDirectedness = errors.New("host and query graphs must share directedness")

// Image is an injective mapping of query nodes to host nodes, represented as
// host node IDs aligned with the query's fixed node order (see [QueryOrder]).
type Image []string

// Options configures subgraph isomorphism enumeration.
type Options struct {
	// EdgeAttr is the edge attribute that must be equal on corresponding
	// edges. Empty means edges match on adjacency alone. An edge that lacks
	// the attribute only matches edges that also lack it.
	EdgeAttr string
}

// QueryOrder returns the fixed node order of a query graph: node IDs sorted
// ascending. Pattern tuples and images are both indexed by this order, so it
// is part of the public contract of the package.
func QueryOrder(q *graph.Graph) []string {
	return q.Nodes()
}

// Enumerate returns every node-induced subgraph isomorphism of query into
// host. The result order is deterministic: it depends only on the node IDs of
// the two graphs and the options.
func Enumerate(host, query *graph.Graph, opts Options) ([]Image, error) {
	var images []Image
	err := Visit(host, query, opts, func(img Image) bool {
		images = append(images, img)
		return true
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// Visit calls fn for each node-induced subgraph isomorphism of query into
// host, in deterministic order. Enumeration stops early when fn returns
// false. Each Image passed to fn is a freshly allocated slice that fn may
// retain.
func Visit(host, query *graph.Graph, opts Options, fn func(Image) bool) error {
	if host.Directed() != query.Directed() {
		return ErrMixedDirectedness
	}
	m := newMatcher(host, query, opts)
	if len(m.order) == 0 {
		return nil
	}
	m.match(0, fn)
	return nil
}

// matcher holds the immutable search inputs plus the mutable partial mapping
// of one backtracking enumeration.
type matcher struct {
	host     *graph.Graph
	query    *graph.Graph
	opts     Options
	directed bool

	qorder []string       // fixed query order (sorted IDs); the pattern index space
	qpos   map[string]int // query node -> position in qorder
	order  []string       // matching sequence, most-constrained first
	hosts  []string       // all host nodes, sorted

	assigned map[string]string // query node -> host node
	used     map[string]bool   // host nodes already in the mapping
	image    Image             // scratch image, aligned with qorder
	stopped  bool
}

func newMatcher(host, query *graph.Graph, opts Options) *matcher {
	qorder := QueryOrder(query)
	qpos := make(map[string]int, len(qorder))
	for i, id := range qorder {
		qpos[id] = i
	}
	return &matcher{
		host:     host,
		query:    query,
		opts:     opts,
		directed: host.Directed(),
		qorder:   qorder,
		qpos:     qpos,
		order:    matchOrder(query),
		hosts:    host.Nodes(),
		assigned: make(map[string]string, len(qorder)),
		used:     make(map[string]bool),
		image:    make(Image, len(qorder)),
	}
}

// matchOrder picks the sequence in which query nodes are matched: highest
// degree first, then greatest connectivity to already-ordered nodes, ties
// broken by ID so the sequence is stable.
func matchOrder(q *graph.Graph) []string {
	nodes := q.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	placed := make(map[string]bool, len(nodes))
	order := make([]string, 0, len(nodes))

	pickBest := func(candidates []string) string {
		best := ""
		bestConn, bestDeg := -1, -1
		for _, id := range candidates {
			if placed[id] {
				continue
			}
			conn := 0
			for _, n := range q.Successors(id) {
				if placed[n] {
					conn++
				}
			}
			for _, n := range q.Predecessors(id) {
				if placed[n] && !q.HasEdge(id, n) {
					conn++
				}
			}
			deg := q.Degree(id)
			if conn > bestConn || (conn == bestConn && deg > bestDeg) ||
				(conn == bestConn && deg == bestDeg && (best == "" || id < best)) {
				best, bestConn, bestDeg = id, conn, deg
			}
		}
		return best
	}

	for len(order) < len(nodes) {
		next := pickBest(nodes)
		placed[next] = true
		order = append(order, next)
	}
	return order
}

// match extends the partial mapping with a host node for order[depth].
func (m *matcher) match(depth int, fn func(Image) bool) {
	if m.stopped {
		return
	}
	if depth == len(m.order) {
		for qnode, hnode := range m.assigned {
			m.image[m.qpos[qnode]] = hnode
		}
		out := make(Image, len(m.image))
		copy(out, m.image)
		if !fn(out) {
			m.stopped = true
		}
		return
	}

	qnode := m.order[depth]
	for _, hnode := range m.candidates(qnode) {
		if m.used[hnode] || !m.feasible(qnode, hnode) {
			continue
		}
		m.assigned[qnode] = hnode
		m.used[hnode] = true
		m.match(depth+1, fn)
		delete(m.assigned, qnode)
		delete(m.used, hnode)
		if m.stopped {
			return
		}
	}
}

// candidates returns host nodes worth trying for qnode. When qnode already
// has a matched neighbor, only the host neighborhood of that neighbor's
// assignment can work; otherwise every host node is a candidate.
func (m *matcher) candidates(qnode string) []string {
	for _, n := range m.query.Successors(qnode) {
		if h, ok := m.assigned[n]; ok {
			// qnode -> n exists, so the candidate must have an edge into h.
			return m.host.Predecessors(h)
		}
	}
	for _, n := range m.query.Predecessors(qnode) {
		if h, ok := m.assigned[n]; ok {
			return m.host.Successors(h)
		}
	}
	return m.hosts
}

// feasible checks that mapping qnode to hnode preserves adjacency,
// non-adjacency, and edge labels against every already-matched pair, and
// prunes candidates whose host degrees cannot cover the query's.
func (m *matcher) feasible(qnode, hnode string) bool {
	if m.host.OutDegree(hnode) < m.query.OutDegree(qnode) ||
		m.host.InDegree(hnode) < m.query.InDegree(qnode) {
		return false
	}
	if !m.edgeOK(qnode, qnode, hnode, hnode) {
		return false
	}
	for prev, ph := range m.assigned {
		if !m.pairOK(qnode, hnode, prev, ph) {
			return false
		}
	}
	return true
}

// pairOK verifies the induced-subgraph condition for one matched pair: the
// edge between the query nodes exists exactly when the edge between the host
// nodes does, in each direction, with matching labels.
func (m *matcher) pairOK(q1, h1, q2, h2 string) bool {
	if !m.edgeOK(q1, q2, h1, h2) {
		return false
	}
	if m.directed {
		return m.edgeOK(q2, q1, h2, h1)
	}
	return true
}

func (m *matcher) edgeOK(qa, qb, ha, hb string) bool {
	if m.query.HasEdge(qa, qb) != m.host.HasEdge(ha, hb) {
		return false
	}
	if !m.query.HasEdge(qa, qb) || m.opts.EdgeAttr == "" {
		return true
	}
	qv, qok := m.query.EdgeAttr(qa, qb, m.opts.EdgeAttr)
	hv, hok := m.host.EdgeAttr(ha, hb, m.opts.EdgeAttr)
	return qok == hok && qv == hv
}

// Count returns the number of isomorphism images without retaining them.
func Count(host, query *graph.Graph, opts Options) (int, error) {
	n := 0
	err := Visit(host, query, opts, func(Image) bool {
		n++
		return true
	})
	return n, err
}

// Sorted returns a copy of images in lexicographic order. Enumerate already
// yields a deterministic order; Sorted is for callers that need a canonical
// one independent of the matching heuristic.
func Sorted(images []Image) []Image {
	out := make([]Image, len(images))
	copy(out, images)
	slices.SortFunc(out, func(a, b Image) int {
		return slices.Compare(a, b)
	})
	return out
}
