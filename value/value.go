// Package value implements the interpreter's tagged value cell: the
// 16-byte-in-spirit union the allocator and the array engine both
// depend on. It is an external collaborator per the runtime's design
// (the opcode dispatcher and object model own its full semantics);
// this package specifies only the layout the heap and array rely on.
package value

import (
	"math"
	"unsafe"
)

// Type is the discriminant of a Cell's payload.
type Type uint8

const (
	Undef Type = iota
	Null
	Bool
	Int
	Double
	String
	Array
	Object
	Resource
	Reference
	AST
	// Indirect cells point at another cell (typically a stack-frame
	// slot) rather than owning a payload. See §4.7.8.
	Indirect
)

func (t Type) String() string {
	switch t {
	case Undef:
		return "undef"
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Double:
		return "double"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	case Resource:
		return "resource"
	case Reference:
		return "reference"
	case AST:
		return "ast"
	case Indirect:
		return "indirect"
	default:
		return "unknown"
	}
}

// Flags holds the two per-value flag bytes the spec assigns to the
// tag: whether the payload is refcounted and whether it is
// copy-on-write-able.
type Flags uint8

const (
	FlagRefcounted Flags = 1 << iota
	FlagCOWable
)

// Cell is the fundamental value: an inline scalar or a pointer to a
// refcounted payload, tagged by Type, plus the u2 word the array
// engine threads its hash-chain "next" pointer and iterator cursors
// through.
//
// Go has no true union, so the scalar payload is carried in num as a
// raw bit pattern (reinterpreted by Bool/Int/Double accessors) and
// refcounted payloads are carried in ptr. Exactly one of num/ptr is
// meaningful for a given Type.
type Cell struct {
	typ   Type
	flags Flags
	// u2 is reused for context-dependent bookkeeping: the next index
	// in an array bucket's hash collision chain, a foreach cursor, or
	// a constant cache slot id, per the value it currently tags.
	u2  uint32
	num uint64
	ptr unsafe.Pointer
}

// RefcountedHeader is the 8-byte header every refcounted payload
// (string, array, object, resource, reference, AST node) carries.
type RefcountedHeader struct {
	Refcount uint32
	TypeTag  uint8
	Flags    uint8
	GCInfo   uint16
}

func Undefined() Cell { return Cell{typ: Undef} }

func NewBool(b bool) Cell {
	var n uint64
	if b {
		n = 1
	}
	return Cell{typ: Bool, num: n}
}

func NewInt(i int64) Cell { return Cell{typ: Int, num: uint64(i)} }

func NewDouble(f float64) Cell { return Cell{typ: Double, num: doubleBits(f)} }

// NewPointer builds a cell referencing a refcounted payload (string,
// array, object, resource, reference, or AST node).
func NewPointer(t Type, p unsafe.Pointer, cow bool) Cell {
	f := FlagRefcounted
	if cow {
		f |= FlagCOWable
	}
	return Cell{typ: t, flags: f, ptr: p}
}

// NewIndirect builds a cell pointing at another cell, typically a
// stack-frame slot, per §4.7.8.
func NewIndirect(target *Cell) Cell {
	return Cell{typ: Indirect, ptr: unsafe.Pointer(target)}
}

func (c Cell) Type() Type   { return c.typ }
func (c Cell) Flags() Flags { return c.flags }
func (c Cell) IsUndef() bool { return c.typ == Undef }

func (c Cell) IsRefcounted() bool { return c.flags&FlagRefcounted != 0 }
func (c Cell) IsCOWable() bool    { return c.flags&FlagCOWable != 0 }

func (c Cell) Bool() bool       { return c.num != 0 }
func (c Cell) Int() int64       { return int64(c.num) }
func (c Cell) Double() float64  { return doubleFromBits(c.num) }
func (c Cell) Pointer() unsafe.Pointer { return c.ptr }

// U2 returns the context-dependent scratch word.
func (c Cell) U2() uint32      { return c.u2 }
func (c *Cell) SetU2(v uint32) { c.u2 = v }

// IndirectTarget dereferences an Indirect cell.
func (c Cell) IndirectTarget() *Cell {
	return (*Cell)(c.ptr)
}

// Deref follows an Indirect cell one level to the cell actually holding
// a usable value; any other cell is returned as is. An Indirect cell
// with a nil target yields Undefined().
func (c Cell) Deref() Cell {
	if c.typ != Indirect {
		return c
	}
	t := c.IndirectTarget()
	if t == nil {
		return Undefined()
	}
	return *t
}

func doubleBits(f float64) uint64      { return math.Float64bits(f) }
func doubleFromBits(u uint64) float64  { return math.Float64frombits(u) }
