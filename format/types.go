// Package format holds the small typed constants shared by the on-disk
// codec, the direct descendant of the teacher's EncodingType/CompressionType
// enum pattern applied to this format's per-field type tag instead of a
// per-blob encoding strategy.
package format

// FieldType is the 1-byte tag prefixing every field in a Record.
type FieldType uint8

const (
	TagInt64   FieldType = 0x1 // TagInt64 marks an 8-byte big-endian signed integer field.
	TagFloat64 FieldType = 0x2 // TagFloat64 marks an 8-byte big-endian IEEE-754 float field.
)

func (f FieldType) String() string {
	switch f {
	case TagInt64:
		return "Int64"
	case TagFloat64:
		return "Float64"
	default:
		return "Unknown"
	}
}

// Identifier is the 4-byte magic written at the start of every .stmdb file.
const Identifier = "STMD"

const (
	HeaderSize = 24 // identifier(4) + file_id(4) + start(8) + end(8)
	RecordSize = 54 // 6 fields * (1-byte tag + 8-byte value)
	FieldCount = 6
)
