package prover

import (
	"github.com/pkg/errors"

	"streamprover/internal/stream"
	"streamprover/internal/symbolic"
)

// Translator turns stream expressions into symbolic values. An offset of -k
// means the expression is evaluated k steps before the present instant.
type Translator struct {
	registry *stream.Registry
	cache    *Cache
	// unrolling holds the (stream, offset) pairs whose recurrence is being
	// translated.
	unrolling map[pastKey]bool
}

func NewTranslator(registry *stream.Registry, cache *Cache) *Translator {
	return &Translator{
		registry:  registry,
		cache:     cache,
		unrolling: make(map[pastKey]bool),
	}
}

func (t *Translator) Translate(expr stream.Expr, offset int) (symbolic.Value, error) {
	if offset > 0 {
		return nil, internalf("expression %v translated at future offset %d", expr, offset)
	}
	switch e := expr.(type) {
	case *stream.Const:
		v, err := symbolic.EncodeConstant(e.Typ, e.Value)
		if err != nil {
			return nil, &InternalError{Msg: err.Error()}
		}
		return v, nil

	case *stream.Drop:
		return t.drop(e, offset)

	case *stream.ExternVar:
		return t.cache.External(e.Name, e.Typ, offset)

	case *stream.Op1:
		x, err := t.Translate(e.Arg, offset)
		if err != nil {
			return nil, err
		}
		v, err := encodeUnary(e, x)
		if err != nil {
			return nil, err
		}
		return checkTag(e, v)

	case *stream.Op2:
		x, err := t.Translate(e.Left, offset)
		if err != nil {
			return nil, err
		}
		y, err := t.Translate(e.Right, offset)
		if err != nil {
			return nil, err
		}
		v, err := encodeBinary(e, x, y, offset)
		if err != nil {
			return nil, err
		}
		return checkTag(e, v)

	case *stream.Op3:
		x, err := t.Translate(e.First, offset)
		if err != nil {
			return nil, err
		}
		y, err := t.Translate(e.Second, offset)
		if err != nil {
			return nil, err
		}
		z, err := t.Translate(e.Third, offset)
		if err != nil {
			return nil, err
		}
		v, err := encodeTernary(e, x, y, z)
		if err != nil {
			return nil, err
		}
		return checkTag(e, v)

	case *stream.Local:
		return nil, unsupported("local binding %q", e.Name)
	case *stream.Var:
		return nil, unsupported("variable reference %q", e.Name)
	case *stream.Label:
		return nil, unsupported("label %q", e.Text)
	}
	return nil, internalf("unknown expression %T", expr)
}

func (t *Translator) drop(e *stream.Drop, offset int) (symbolic.Value, error) {
	if e.Index < 0 {
		return nil, internalf("negative drop %d of stream %d", e.Index, e.Stream)
	}
	total := offset + e.Index
	if total < 0 {
		v, err := t.cache.PastStream(e.Stream, total)
		if err != nil {
			return nil, err
		}
		return checkTag(e, v)
	}

	s, ok := t.registry.Lookup(e.Stream)
	if !ok {
		return nil, errors.Wrapf(ErrMissingStream, "stream %d", e.Stream)
	}
	if s.Expr == nil {
		return nil, internalf("stream %d has no recurrence", e.Stream)
	}
	inner := total - len(s.Buffer)
	if inner > 0 {
		return nil, internalf("drop %d of stream %d exceeds its buffer of %d", e.Index, e.Stream, len(s.Buffer))
	}

	key := pastKey{id: e.Stream, offset: total}
	if t.unrolling[key] {
		return nil, errors.Wrapf(ErrNonProductive, "stream %d at offset %d", e.Stream, total)
	}
	t.unrolling[key] = true
	defer delete(t.unrolling, key)

	v, err := t.Translate(s.Expr, inner)
	if err != nil {
		return nil, err
	}
	return checkTag(e, v)
}

func checkTag(expr stream.Expr, v symbolic.Value) (symbolic.Value, error) {
	if !v.Type().Equal(expr.Type()) {
		return nil, internalf("%v has type %s but translated to %s", expr, expr.Type(), v.Type())
	}
	return v, nil
}
