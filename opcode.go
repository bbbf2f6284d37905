package rdbstream

// valueType tags the wire encoding of an Entry's value, read as the type
// byte preceding its key (spec.md §4.5, §6). Only the types spec.md
// requires are enumerated; anything else is rejected by the dispatcher.
type valueType uint8

const (
	valTypeString        valueType = 0
	valTypeList          valueType = 1
	valTypeSet           valueType = 2
	valTypeHash          valueType = 4
	valTypeListZiplist   valueType = 10
	valTypeSetIntset     valueType = 11
	valTypeHashZiplist   valueType = 13
	valTypeListQuicklist valueType = 14
)

// opcode tags a stream-control byte, as opposed to a value type. Opcodes
// and value types share one byte-wide namespace; 0xFA..0xFF are reserved
// for opcodes, so a value type byte can never collide with one.
type opcode uint8

const (
	opAux          opcode = 0xFA
	opResizeDB     opcode = 0xFB
	opExpireTimeMS opcode = 0xFC
	opExpireTime   opcode = 0xFD
	opSelectDB     opcode = 0xFE
	opEOF          opcode = 0xFF
)

// maxKnownOpcodeRangeType is the highest value-type byte the real RDB
// format defines. A byte below this that isn't one of the valType*
// constants above is a supported-format/unsupported-type byte (e.g. ZSet,
// Stream, Module, Zipmap, Listpack) rather than a framing violation — it
// gets a distinct diagnostic from a genuinely out-of-range byte.
const maxKnownOpcodeRangeType = 25
