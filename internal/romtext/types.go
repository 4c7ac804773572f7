package romtext

import "errors"

// ErrUnmappableRune reports that text contains a character absent from the
// table. Encoding fails hard on it: dropping characters silently would
// corrupt a binary reinsertion.
var ErrUnmappableRune = errors.New("text contains a character not present in the table")

// TableEntry is one byte-to-characters mapping of a table file. Hex is the
// uppercase hex form of the byte value; Char is one or more output
// characters.
type TableEntry struct {
	Hex  string
	Char string
}

// Table is a parsed byte↔character mapping used to decode and encode
// proprietary ROM text encodings. Platform, Name and Encoding are
// descriptive only.
type Table struct {
	Name     string
	Platform string
	Encoding string
	Entries  []TableEntry

	byteToChar map[byte]string
	charToByte map[string]byte
	maxCharLen int
}

// TextBlock is a run of table-mapped text extracted from a byte range.
// Offset is the absolute position of the run's first byte. MaxLength, when
// non-zero, is the byte budget available for reinsertion.
type TextBlock struct {
	Offset         int
	OriginalText   string
	TranslatedText string
	MaxLength      int
	Encoding       string
}

// Region is a candidate text stretch found by the printable-byte heuristic.
// Preview holds at most 50 characters and only the ASCII-printable bytes of
// the region contribute to it.
type Region struct {
	Start   int
	End     int
	Length  int
	Preview string
}

// InsertResult is the outcome of writing text back into a ROM buffer copy.
// Overflow is set when the encoded text was truncated to the byte budget.
type InsertResult struct {
	Data         []byte
	Overflow     bool
	BytesWritten int
}
