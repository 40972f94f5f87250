package smtlib

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Sexp is one solver response: an atom or a list.
type Sexp struct {
	Atom   string
	List   []*Sexp
	IsList bool
}

func (s *Sexp) String() string {
	if !s.IsList {
		return s.Atom
	}
	parts := make([]string, len(s.List))
	for i, item := range s.List {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Head is the first atom of a list, or "".
func (s *Sexp) Head() string {
	if !s.IsList || len(s.List) == 0 || s.List[0].IsList {
		return ""
	}
	return s.List[0].Atom
}

// Unquote returns the contents of a string literal atom.
func (s *Sexp) Unquote() string {
	a := s.Atom
	if len(a) >= 2 && a[0] == '"' && a[len(a)-1] == '"' {
		return strings.ReplaceAll(a[1:len(a)-1], `""`, `"`)
	}
	return a
}

// Reader parses whitespace-separated S-expressions from a solver's output.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Read returns the next complete expression. It returns io.EOF only when the
// stream ends between expressions.
func (r *Reader) Read() (*Sexp, error) {
	if err := r.skipSpace(); err != nil {
		return nil, err
	}
	return r.read()
}

func (r *Reader) skipSpace() error {
	for {
		c, err := r.r.ReadByte()
		if err != nil {
			return err
		}
		switch {
		case c == ';':
			if _, err := r.r.ReadString('\n'); err != nil {
				return err
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
		default:
			return r.r.UnreadByte()
		}
	}
}

func (r *Reader) read() (*Sexp, error) {
	c, err := r.r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch c {
	case '(':
		list := &Sexp{IsList: true}
		for {
			if err := r.skipSpace(); err != nil {
				return nil, unexpected(err)
			}
			next, err := r.r.ReadByte()
			if err != nil {
				return nil, unexpected(err)
			}
			if next == ')' {
				return list, nil
			}
			if err := r.r.UnreadByte(); err != nil {
				return nil, err
			}
			item, err := r.read()
			if err != nil {
				return nil, unexpected(err)
			}
			list.List = append(list.List, item)
		}
	case ')':
		return nil, errors.New("unbalanced ')' in solver output")
	case '|':
		s, err := r.r.ReadString('|')
		if err != nil {
			return nil, unexpected(err)
		}
		return &Sexp{Atom: "|" + s}, nil
	case '"':
		var sb strings.Builder
		sb.WriteByte('"')
		for {
			s, err := r.r.ReadString('"')
			if err != nil {
				return nil, unexpected(err)
			}
			sb.WriteString(s)
			// "" is an escaped quote inside a string literal.
			next, err := r.r.ReadByte()
			if err != nil || next != '"' {
				if err == nil {
					_ = r.r.UnreadByte()
				}
				return &Sexp{Atom: sb.String()}, nil
			}
			sb.WriteByte('"')
		}
	}

	var sb strings.Builder
	sb.WriteByte(c)
	for {
		c, err := r.r.ReadByte()
		if err == io.EOF {
			return &Sexp{Atom: sb.String()}, nil
		}
		if err != nil {
			return nil, err
		}
		if c == '(' || c == ')' || c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ';' {
			if err := r.r.UnreadByte(); err != nil {
				return nil, err
			}
			return &Sexp{Atom: sb.String()}, nil
		}
		sb.WriteByte(c)
	}
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
