// Package catalog implements the Message Catalog mechanism (§4.2): each
// server declares its message set once, as a []catalog.Spec, and this
// package mechanically derives the type codes, the packed body
// constructors, the tagged union membership, and the name table from that
// single list via reflection. Each server package also declares named Go
// constants for its type codes (an iota block in the same order as its
// list); Build neither generates nor checks those constants.
//
// This re-expresses the original's repeated-#include X-macro catalog (one
// header listing every message, included once per derived artefact) as a
// single Go slice consumed once at init() time.
package catalog

import (
	"reflect"

	"roboone/internal/errs"
	"roboone/internal/logging"
)

// Body is implemented by every request/confirmation/indication struct in a
// server's catalog. Marshalling is explicit (§9's "packed structs on the
// wire" design note) rather than relying on in-memory layout.
type Body interface {
	MarshalBinary() ([]byte, error)
	UnmarshalBinary([]byte) error
}

// Spec is one catalog declaration: a message kind's union member name plus
// zero-value instances of its request/confirmation/(optional) indication
// bodies. Req/Cnf/Ind must be non-nil pointers to structs implementing Body;
// Ind may be nil for servers whose catalog has no indications for this kind.
type Spec struct {
	Member string
	Req    Body
	Cnf    Body
	Ind    Body
}

// Entry is a fully-resolved catalog row: a Spec plus its mechanically
// assigned type code.
type Entry struct {
	Code uint8
	Spec Spec
}

// Catalog is the derived artefact set built from a server's declaration
// list: the enum (codes assigned by position), the name table, and
// constructors that hand back fresh, independent Body instances per call so
// concurrent decodes never alias state.
type Catalog struct {
	entries []Entry
	byCode  map[uint8]Entry
	names   []string
}

// Build derives a Catalog from specs, assigning type codes 0..len(specs)-1
// in declaration order (the enum), and validates via reflection that every
// Req/Cnf body is a non-nil pointer to a struct implementing Body. It is
// meant to be called once from a server package's init(), so any
// inconsistency is a startup-time failure, not a request-path one.
func Build(specs []Spec) (*Catalog, error) {
	if len(specs) == 0 {
		return nil, errs.ErrEmptyCatalog
	}

	entries := make([]Entry, len(specs))
	byCode := make(map[uint8]Entry, len(specs))
	names := make([]string, len(specs))

	for i, s := range specs {
		if len(specs) > 256 {
			return nil, errs.ErrDuplicateTypeCode
		}
		code := uint8(i)
		if err := validateBody(s.Member, "Req", s.Req); err != nil {
			return nil, err
		}
		if err := validateBody(s.Member, "Cnf", s.Cnf); err != nil {
			return nil, err
		}
		if s.Ind != nil {
			if err := validateBody(s.Member, "Ind", s.Ind); err != nil {
				return nil, err
			}
		}

		e := Entry{Code: code, Spec: s}
		entries[i] = e
		if _, dup := byCode[code]; dup {
			return nil, errs.ErrDuplicateTypeCode
		}
		byCode[code] = e
		names[i] = s.Member
	}

	return &Catalog{entries: entries, byCode: byCode, names: names}, nil
}

// MustBuild is Build, halting the process on error — the appropriate choice
// for a catalog assembled once at init() time (§7's universal assertion).
func MustBuild(specs []Spec) *Catalog {
	c, err := Build(specs)
	if err != nil {
		logging.Halt("building message catalog: %v", err)
	}
	return c
}

// MaxNum is the catalog's MAX_NUM_* sentinel: the count of declared
// messages.
func (c *Catalog) MaxNum() int { return len(c.entries) }

// Names returns the parallel array of printable names, indexed by type code.
func (c *Catalog) Names() []string { return c.names }

// Name returns the printable name for a type code, or "UNKNOWN" if absent.
func (c *Catalog) Name(code uint8) string {
	if e, ok := c.byCode[uint8(code)]; ok {
		return e.Spec.Member
	}
	return "UNKNOWN"
}

// Lookup returns the catalog entry for a type code.
func (c *Catalog) Lookup(code uint8) (Entry, bool) {
	e, ok := c.byCode[code]
	return e, ok
}

// NewReq returns a fresh, zeroed Req body instance for the given type code,
// suitable for UnmarshalBinary, or nil if the code is unknown.
func (c *Catalog) NewReq(code uint8) Body {
	e, ok := c.byCode[code]
	if !ok {
		return nil
	}
	return freshInstance(e.Spec.Req)
}

// NewCnf is NewReq's analogue for confirmation bodies.
func (c *Catalog) NewCnf(code uint8) Body {
	e, ok := c.byCode[code]
	if !ok {
		return nil
	}
	return freshInstance(e.Spec.Cnf)
}

// NewInd is NewReq's analogue for indication bodies; returns nil if the
// kind declares none.
func (c *Catalog) NewInd(code uint8) Body {
	e, ok := c.byCode[code]
	if !ok || e.Spec.Ind == nil {
		return nil
	}
	return freshInstance(e.Spec.Ind)
}

func validateBody(member, direction string, b Body) error {
	if b == nil {
		logging.Halt("catalog entry %s: %s body is nil", member, direction)
	}
	v := reflect.ValueOf(b)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		logging.Halt("catalog entry %s: %s body must be a pointer to a struct, got %s", member, direction, v.Kind())
	}
	return nil
}

// freshInstance reflects a new zero-value instance of the same concrete
// type as proto, so repeated decodes never share mutable state.
func freshInstance(proto Body) Body {
	t := reflect.TypeOf(proto).Elem()
	return reflect.New(t).Interface().(Body)
}
