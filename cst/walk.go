package cst

// Walk visits n and its descendants depth first, parents before children.
// If fn returns false the node's children are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Rules returns the outermost applications of the named rule within n.
// Applications nested inside a match are not included.
func Rules(n Node, name string) []*RuleNode {
	var out []*RuleNode
	Walk(n, func(c Node) bool {
		if r, ok := c.(*RuleNode); ok && r.Name() == name {
			out = append(out, r)
			return false
		}
		return true
	})
	return out
}

// FirstRule returns the first application of the named rule within n.
func FirstRule(n Node, name string) *RuleNode {
	var found *RuleNode
	Walk(n, func(c Node) bool {
		if found != nil {
			return false
		}
		if r, ok := c.(*RuleNode); ok && r.Name() == name {
			found = r
			return false
		}
		return true
	})
	return found
}

// RuleChildren returns the named-rule applications directly below n,
// looking through sequences, choices and repetitions but not into other
// rules.
func RuleChildren(n Node) []*RuleNode {
	var out []*RuleNode
	for _, c := range n.Children() {
		Walk(c, func(d Node) bool {
			if r, ok := d.(*RuleNode); ok {
				out = append(out, r)
				return false
			}
			return true
		})
	}
	return out
}
