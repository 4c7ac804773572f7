package romtext

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gametrans/batchloc/pkg/log"
)

var tableLinePattern = regexp.MustCompile(`^([0-9A-Fa-f]+)=(.*)$`)

// ParseTable parses table-file content: one HEXBYTE=characters mapping per
// line, with blank lines and // or # comments ignored. Hex is normalized
// to uppercase. Duplicate byte values keep the first mapping; later
// duplicates are logged and ignored so extraction stays deterministic.
// Entries longer than one byte are kept on the table but excluded from the
// byte maps (the engine is single-byte).
func ParseTable(content string) *Table {
	t := &Table{
		byteToChar: make(map[byte]string),
		charToByte: make(map[string]byte),
	}

	for _, raw := range strings.Split(content, "\n") {
		// only the line ending is stripped: a trailing space after '=' is a
		// legitimate space mapping
		line := strings.TrimSuffix(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
			continue
		}

		m := tableLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		entry := TableEntry{
			Hex:  strings.ToUpper(m[1]),
			Char: m[2],
		}
		t.Entries = append(t.Entries, entry)

		if len(entry.Hex) != 2 || entry.Char == "" {
			continue
		}
		value, err := strconv.ParseUint(entry.Hex, 16, 8)
		if err != nil {
			continue
		}
		t.addMapping(byte(value), entry.Char)
	}

	return t
}

func (t *Table) addMapping(b byte, char string) {
	if existing, ok := t.byteToChar[b]; ok {
		log.Warn("table %s: duplicate mapping for %02X (%q kept, %q ignored)", t.Name, b, existing, char)
		return
	}
	t.byteToChar[b] = char
	if _, ok := t.charToByte[char]; !ok {
		t.charToByte[char] = b
	}
	if len(char) > t.maxCharLen {
		t.maxCharLen = len(char)
	}
}

// GenerateASCIITable maps the printable ASCII range 0x20–0x7E onto byte
// values shifted by offset.
func GenerateASCIITable(offset int) *Table {
	t := &Table{
		Name:       fmt.Sprintf("ascii+%#02x", offset),
		Encoding:   "ascii",
		byteToChar: make(map[byte]string),
		charToByte: make(map[string]byte),
	}

	for c := 0x20; c <= 0x7E; c++ {
		value := c + offset
		if value < 0 || value > 0xFF {
			continue
		}
		entry := TableEntry{
			Hex:  fmt.Sprintf("%02X", value),
			Char: string(rune(c)),
		}
		t.Entries = append(t.Entries, entry)
		t.addMapping(byte(value), entry.Char)
	}

	return t
}

var italianAccents = []string{"à", "è", "é", "ì", "ò", "ù", "À", "È", "É", "Ì", "Ò", "Ù"}

// GenerateItalianTable is the ASCII table plus the accented Italian
// characters appended at consecutive byte values starting at baseOffset
// (0x80 when zero).
func GenerateItalianTable(baseOffset int) *Table {
	if baseOffset <= 0 {
		baseOffset = 0x80
	}

	t := GenerateASCIITable(0)
	t.Name = fmt.Sprintf("italian+%#02x", baseOffset)
	t.Encoding = "custom"

	for i, char := range italianAccents {
		value := baseOffset + i
		if value > 0xFF {
			break
		}
		entry := TableEntry{
			Hex:  fmt.Sprintf("%02X", value),
			Char: char,
		}
		t.Entries = append(t.Entries, entry)
		t.addMapping(byte(value), entry.Char)
	}

	return t
}

// CharFor returns the characters mapped to b.
func (t *Table) CharFor(b byte) (string, bool) {
	char, ok := t.byteToChar[b]
	return char, ok
}

// spaceByte returns the byte mapped to the space character, falling back
// to 0x20 when the table does not map a space.
func (t *Table) spaceByte() byte {
	if b, ok := t.charToByte[" "]; ok {
		return b
	}
	return 0x20
}

// TextToBytes encodes text through the inverse char→byte mapping, matching
// the longest mapped character sequence at each position. Any unmappable
// character fails the whole encoding with ErrUnmappableRune.
func (t *Table) TextToBytes(text string) ([]byte, error) {
	encoded := make([]byte, 0, len(text))

	for i := 0; i < len(text); {
		matched := false
		max := t.maxCharLen
		if max > len(text)-i {
			max = len(text) - i
		}
		for l := max; l >= 1; l-- {
			if b, ok := t.charToByte[text[i:i+l]]; ok {
				encoded = append(encoded, b)
				i += l
				matched = true
				break
			}
		}
		if !matched {
			return nil, fmt.Errorf("%w: %q at byte %d", ErrUnmappableRune, text, i)
		}
	}

	return encoded, nil
}

// Decode maps a byte slice back to text, skipping unmapped bytes.
func (t *Table) Decode(data []byte) string {
	var b strings.Builder
	for _, v := range data {
		if char, ok := t.byteToChar[v]; ok {
			b.WriteString(char)
		}
	}
	return b.String()
}
