package stream

import (
	"github.com/pkg/errors"
)

// Stream is a literal prefix followed by a recurrence.
type Stream struct {
	ID     ID
	Buffer []interface{}
	Expr   Expr
	Type   Type
}

// Property is a named boolean expression to prove.
type Property struct {
	Name string
	Expr Expr
}

// Spec is a complete stream network with the properties stated over it.
type Spec struct {
	Streams    []*Stream
	Properties []*Property
}

// Registry is the read-only id lookup shared by every property of a run.
type Registry struct {
	streams map[ID]*Stream
}

func NewRegistry(streams []*Stream) (*Registry, error) {
	r := &Registry{
		streams: make(map[ID]*Stream, len(streams)),
	}
	for _, s := range streams {
		if _, ok := r.streams[s.ID]; ok {
			return nil, errors.Errorf("duplicate stream id %d", s.ID)
		}
		r.streams[s.ID] = s
	}
	return r, nil
}

// Lookup returns the definition of id.
func (r *Registry) Lookup(id ID) (*Stream, bool) {
	s, ok := r.streams[id]
	return s, ok
}

func (r *Registry) Len() int {
	return len(r.streams)
}
