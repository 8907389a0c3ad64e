package grammar

import (
	"errors"
	"fmt"
)

// Verify checks that every referenced rule is defined, that every rule is
// reachable from start, and that no rule is left recursive. The parser
// fails the inner application of a left-recursive rule, so such a rule
// can never use its recursive alternatives. An empty start skips the
// reachability check.
func Verify(g *Grammar, start string) error {
	var errs []error
	for _, p := range g.Productions() {
		walkRefs(p.Expr, func(r Ref) {
			if !g.Has(r.Name) {
				errs = append(errs, &Error{Pos: p.Pos, Msg: fmt.Sprintf("rule %s: undefined rule %s", p.Name, r.Name)})
			}
		})
	}

	if start != "" {
		if !g.Has(start) {
			errs = append(errs, &Error{Msg: "undefined start rule " + start})
		} else {
			reached := Reachable(g, start)
			for _, p := range g.Productions() {
				if !reached[key(p.Name)] {
					errs = append(errs, &Error{Pos: p.Pos, Msg: fmt.Sprintf("rule %s is unreachable from %s", p.Name, start)})
				}
			}
		}
	}

	for _, name := range LeftRecursive(g) {
		p := g.Get(name)
		errs = append(errs, &Error{Pos: p.Pos, Msg: fmt.Sprintf("rule %s is left recursive", p.Name)})
	}
	return errors.Join(errs...)
}

// Reachable returns the set of rules, by lower-cased name, that start
// refers to directly or indirectly, including start itself.
func Reachable(g *Grammar, start string) map[string]bool {
	seen := make(map[string]bool)
	var visit func(name string)
	visit = func(name string) {
		k := key(name)
		p, ok := g.prods[k]
		if !ok || seen[k] {
			return
		}
		seen[k] = true
		walkRefs(p.Expr, func(r Ref) { visit(r.Name) })
	}
	visit(start)
	return seen
}

// LeftRecursive returns the names of rules that can apply themselves
// again without consuming input.
func LeftRecursive(g *Grammar) []string {
	nullable := Nullable(g)
	edges := make(map[string][]string, g.Len())
	for _, p := range g.Productions() {
		k := key(p.Name)
		leftRefs(p.Expr, nullable, func(r Ref) {
			edges[k] = append(edges[k], key(r.Name))
		})
	}

	var out []string
	for _, p := range g.Productions() {
		k := key(p.Name)
		seen := make(map[string]bool)
		var reaches func(from string) bool
		reaches = func(from string) bool {
			for _, to := range edges[from] {
				if to == k {
					return true
				}
				if !seen[to] {
					seen[to] = true
					if reaches(to) {
						return true
					}
				}
			}
			return false
		}
		if reaches(k) {
			out = append(out, p.Name)
		}
	}
	return out
}

// Nullable returns the set of rules, by lower-cased name, that can match
// the empty string.
func Nullable(g *Grammar) map[string]bool {
	null := make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for _, p := range g.Productions() {
			k := key(p.Name)
			if !null[k] && nullable(p.Expr, null) {
				null[k] = true
				changed = true
			}
		}
	}
	return null
}

func nullable(e Expression, null map[string]bool) bool {
	switch e := e.(type) {
	case Literal:
		return e.Text == ""
	case Sequence:
		for _, x := range e {
			if !nullable(x, null) {
				return false
			}
		}
		return true
	case Alternative:
		for _, x := range e {
			if nullable(x, null) {
				return true
			}
		}
		return false
	case Repeat:
		return e.Min == 0 || nullable(e.Body, null)
	case Option, nil:
		return true
	case Ref:
		return null[key(e.Name)]
	}
	return false
}

// leftRefs calls fn for each reference that may be applied at the position
// e starts at.
func leftRefs(e Expression, null map[string]bool, fn func(Ref)) {
	switch e := e.(type) {
	case Sequence:
		for _, x := range e {
			leftRefs(x, null, fn)
			if !nullable(x, null) {
				return
			}
		}
	case Alternative:
		for _, x := range e {
			leftRefs(x, null, fn)
		}
	case Repeat:
		if e.Max != 0 {
			leftRefs(e.Body, null, fn)
		}
	case Option:
		leftRefs(e.Body, null, fn)
	case Ref:
		fn(e)
	}
}

func walkRefs(e Expression, fn func(Ref)) {
	switch e := e.(type) {
	case Sequence:
		for _, x := range e {
			walkRefs(x, fn)
		}
	case Alternative:
		for _, x := range e {
			walkRefs(x, fn)
		}
	case Repeat:
		walkRefs(e.Body, fn)
	case Option:
		walkRefs(e.Body, fn)
	case Ref:
		fn(e)
	}
}

// ProseRules returns the names of rules that contain a prose value and so
// can never match.
func ProseRules(g *Grammar) []string {
	var out []string
	for _, p := range g.Productions() {
		if hasProse(p.Expr) {
			out = append(out, p.Name)
		}
	}
	return out
}

func hasProse(e Expression) bool {
	switch e := e.(type) {
	case Prose:
		return true
	case Sequence:
		for _, x := range e {
			if hasProse(x) {
				return true
			}
		}
	case Alternative:
		for _, x := range e {
			if hasProse(x) {
				return true
			}
		}
	case Repeat:
		return hasProse(e.Body)
	case Option:
		return hasProse(e.Body)
	}
	return false
}
