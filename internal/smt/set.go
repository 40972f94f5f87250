package smt

// Set is an insertion-ordered set of terms keyed by identity.
type Set struct {
	elements map[*Term]struct{}
	order    []*Term
}

func NewSet(elements ...*Term) *Set {
	s := &Set{
		elements: make(map[*Term]struct{}, len(elements)),
	}
	for _, elem := range elements {
		s.Add(elem)
	}
	return s
}

func (set *Set) Add(term *Term) {
	if _, ok := set.elements[term]; ok {
		return
	}
	set.elements[term] = struct{}{}
	set.order = append(set.order, term)
}

func (set *Set) Contains(term *Term) bool {
	_, ok := set.elements[term]
	return ok
}

func (set *Set) Len() int {
	return len(set.order)
}

func (set *Set) GetElements() []*Term {
	result := make([]*Term, len(set.order))
	copy(result, set.order)
	return result
}

// Symbols collects the free constants of terms in first-occurrence order.
func Symbols(terms ...*Term) *Set {
	var (
		symbols = NewSet()
		visited = make(map[*Term]struct{})
		stack   = make([]*Term, 0, len(terms))
	)
	for i := len(terms) - 1; i >= 0; i-- {
		stack = append(stack, terms[i])
	}
	for len(stack) > 0 {
		term := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[term]; ok {
			continue
		}
		visited[term] = struct{}{}
		if term.op == OpSymbol {
			symbols.Add(term)
			continue
		}
		for i := len(term.args) - 1; i >= 0; i-- {
			stack = append(stack, term.args[i])
		}
	}
	return symbols
}
