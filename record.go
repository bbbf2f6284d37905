package rdbstream

// RecordKind tags the variant carried by a Record.
type RecordKind uint8

const (
	RecordVersion RecordKind = iota
	RecordSelectDB
	RecordResizeDB
	RecordAux
	RecordEntry
	RecordEOF
)

func (k RecordKind) String() string {
	switch k {
	case RecordVersion:
		return "version"
	case RecordSelectDB:
		return "selectdb"
	case RecordResizeDB:
		return "resizedb"
	case RecordAux:
		return "aux"
	case RecordEntry:
		return "entry"
	case RecordEOF:
		return "eof"
	default:
		return "unknown"
	}
}

// ExpireUnit distinguishes the two expiration encodings an Entry may carry.
type ExpireUnit uint8

const (
	ExpireNone ExpireUnit = iota
	ExpireSeconds
	ExpireMillis
)

// Record is one decoded unit of an RDB byte stream, emitted in file order.
// Exactly one of the fields below is meaningful, selected by Kind.
type Record struct {
	Kind RecordKind

	// RecordVersion
	Version int

	// RecordSelectDB
	DBID uint8

	// RecordResizeDB
	ResizeMain    uint64
	ResizeExpires uint64

	// RecordAux
	AuxKey   Element
	AuxValue Element

	// RecordEntry
	Key        []byte
	Value      Value
	ExpireUnit ExpireUnit
	// ExpireSeconds is valid when ExpireUnit == ExpireSeconds.
	ExpireSeconds uint32
	// ExpireMillis is valid when ExpireUnit == ExpireMillis.
	ExpireMillis uint64

	// RecordEOF
	Checksum [8]byte
}

// ValueKind tags the logical type carried by a Value.
type ValueKind uint8

const (
	ValueBytes ValueKind = iota
	ValueInteger
	ValueList
	ValueSet
	ValueHash
)

// Element is a list/set element or a hash key/value: either a byte string
// or a signed integer, per spec.md's Bytes|Integer element type.
type Element struct {
	IsInt   bool
	Bytes   []byte
	Integer int64
}

// BytesElement builds a byte-string Element.
func BytesElement(b []byte) Element { return Element{Bytes: b} }

// IntElement builds an integer Element.
func IntElement(v int64) Element { return Element{IsInt: true, Integer: v} }

// HashField is one key/value pair of a Hash value.
type HashField struct {
	Key   Element
	Value Element
}

// Value is the polymorphic payload of an Entry record. Exactly one set of
// fields is meaningful, selected by Kind.
type Value struct {
	Kind ValueKind

	Bytes   []byte
	Integer int64
	List    []Element
	Set     []Element
	Hash    []HashField
}
