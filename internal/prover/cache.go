package prover

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"streamprover/internal/stream"
	"streamprover/internal/symbolic"
)

type pastKey struct {
	id     stream.ID
	offset int
}

type externKey struct {
	name   string
	offset int
}

// Cache holds the free constants of one property's translation. Entries are
// inserted once and never replaced, so equal keys always yield the same terms.
type Cache struct {
	registry *stream.Registry
	past     map[pastKey]symbolic.Value
	extern   map[externKey]symbolic.Value
}

func NewCache(registry *stream.Registry) *Cache {
	return &Cache{
		registry: registry,
		past:     make(map[pastKey]symbolic.Value),
		extern:   make(map[externKey]symbolic.Value),
	}
}

// PastStream returns the opaque value of stream id at offset, which must be
// negative.
func (c *Cache) PastStream(id stream.ID, offset int) (symbolic.Value, error) {
	if offset >= 0 {
		return nil, internalf("past value of stream %d requested at offset %d", id, offset)
	}
	key := pastKey{id: id, offset: offset}
	if v, ok := c.past[key]; ok {
		return v, nil
	}
	s, ok := c.registry.Lookup(id)
	if !ok {
		return nil, errors.Wrapf(ErrMissingStream, "stream %d", id)
	}
	v, err := symbolic.Fresh(s.Type, fmt.Sprintf("s%d@%d", id, offset))
	if err != nil {
		return nil, errors.Wrapf(err, "Fresh")
	}
	log.Debugf("new constant for stream %d at offset %d", id, offset)
	c.past[key] = v
	return v, nil
}

// External returns the opaque value of input name at offset.
func (c *Cache) External(name string, typ stream.Type, offset int) (symbolic.Value, error) {
	key := externKey{name: name, offset: offset}
	if v, ok := c.extern[key]; ok {
		if !v.Type().Equal(typ) {
			return nil, internalf("external %s used as %s and %s", name, v.Type(), typ)
		}
		return v, nil
	}
	v, err := symbolic.Fresh(typ, fmt.Sprintf("%s@%d", name, offset))
	if err != nil {
		return nil, errors.Wrapf(err, "Fresh")
	}
	log.Debugf("new constant for external %s at offset %d", name, offset)
	c.extern[key] = v
	return v, nil
}

// Len is the number of cached entries.
func (c *Cache) Len() int {
	return len(c.past) + len(c.extern)
}
