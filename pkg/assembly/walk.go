package assembly

// VisitFunc is called once per reachable part. via is the joint on the
// visited part through which it was reached, or nil for the root.
type VisitFunc func(p *Part, via *Joint) error

// Walk visits every part reachable from root through connected joints in
// breadth-first order. Each part is visited once even if the graph contains
// closing edges. A non-nil error from fn stops the walk and is returned.
func Walk(root *Part, fn VisitFunc) error {
	if root == nil {
		return nil
	}

	type item struct {
		part *Part
		via  *Joint
	}

	visited := map[*Part]bool{root: true}
	queue := []item{{part: root}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if err := fn(cur.part, cur.via); err != nil {
			return err
		}

		for _, j := range cur.part.joints {
			peer := j.Peer()
			if peer == nil || visited[peer.part] {
				continue
			}
			visited[peer.part] = true
			queue = append(queue, item{part: peer.part, via: peer})
		}
	}
	return nil
}

// Parts returns every part reachable from root in breadth-first order.
func Parts(root *Part) []*Part {
	var out []*Part
	_ = Walk(root, func(p *Part, _ *Joint) error {
		out = append(out, p)
		return nil
	})
	return out
}

// Edge is one connected joint pair, reported from the parent side.
type Edge struct {
	Parent *Joint
	Child  *Joint
}

// Edges returns every connected joint pair reachable from root, each once.
func Edges(root *Part) []Edge {
	var out []Edge
	_ = Walk(root, func(p *Part, _ *Joint) error {
		for _, j := range p.joints {
			if j.IsParent() {
				out = append(out, Edge{Parent: j, Child: j.Peer()})
			}
		}
		return nil
	})
	return out
}
