package smt

var (
	trueTerm  = newTerm(OpTrue, BoolSort())
	falseTerm = newTerm(OpFalse, BoolSort())
)

type Bool struct {
	value *Term
}

func NewBoolVal(value bool) *Bool {
	if value {
		return &Bool{value: trueTerm}
	}
	return &Bool{value: falseTerm}
}

// NewBool allocates a fresh boolean constant.
func NewBool(name string) *Bool {
	return &Bool{value: NewSymbol(name, BoolSort())}
}

func (b *Bool) GetRaw() *Term {
	return b.value
}

func (b *Bool) Sort() Sort {
	return BoolSort()
}

func (b *Bool) String() string {
	return b.value.String()
}

func (b *Bool) IsTrue() bool {
	return b.value.op == OpTrue
}

func (b *Bool) IsFalse() bool {
	return b.value.op == OpFalse
}

func (b *Bool) IsSymbolic() bool {
	return !b.IsTrue() && !b.IsFalse()
}

func (b *Bool) Not() *Bool {
	return &Bool{value: newTerm(OpNot, BoolSort(), b.value)}
}

// And is the conjunction of b and others.
func (b *Bool) And(others ...*Bool) *Bool {
	if len(others) == 0 {
		return b
	}
	return &Bool{value: newTerm(OpAnd, BoolSort(), boolTerms(b, others)...)}
}

// Or is the disjunction of b and others.
func (b *Bool) Or(others ...*Bool) *Bool {
	if len(others) == 0 {
		return b
	}
	return &Bool{value: newTerm(OpOr, BoolSort(), boolTerms(b, others)...)}
}

// Eq is boolean equivalence.
func (b *Bool) Eq(other *Bool) *Bool {
	return &Bool{value: newTerm(OpEq, BoolSort(), b.value, other.value)}
}

// IteBool selects t when b holds and e otherwise.
func (b *Bool) IteBool(t, e *Bool) *Bool {
	return &Bool{value: newTerm(OpIte, BoolSort(), b.value, t.value, e.value)}
}

func (b *Bool) IteBitVec(t, e *BitVec) *BitVec {
	mustSort(OpIte, t.Sort(), e.value)
	return &BitVec{value: newTerm(OpIte, t.Sort(), b.value, t.value, e.value)}
}

func (b *Bool) IteFloat(t, e *Float) *Float {
	mustSort(OpIte, t.Sort(), e.value)
	return &Float{value: newTerm(OpIte, t.Sort(), b.value, t.value, e.value)}
}

// And folds a conjunction over terms; the empty conjunction is true.
func And(terms ...*Bool) *Bool {
	switch len(terms) {
	case 0:
		return NewBoolVal(true)
	case 1:
		return terms[0]
	}
	return terms[0].And(terms[1:]...)
}

// Or folds a disjunction over terms; the empty disjunction is false.
func Or(terms ...*Bool) *Bool {
	switch len(terms) {
	case 0:
		return NewBoolVal(false)
	case 1:
		return terms[0]
	}
	return terms[0].Or(terms[1:]...)
}

func boolTerms(first *Bool, rest []*Bool) []*Term {
	terms := make([]*Term, 0, len(rest)+1)
	terms = append(terms, first.value)
	for _, b := range rest {
		terms = append(terms, b.value)
	}
	return terms
}
