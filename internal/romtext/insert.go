package romtext

// InsertText encodes text with the table and writes it into a copy of data
// at offset. The input buffer is never mutated; concurrent edits of the
// same ROM stay safe without locking.
//
// With maxLength > 0 an encoding longer than the budget is truncated to
// exactly maxLength bytes and Overflow is set; the caller decides whether
// that fails the operation. When the encoding fits with room to spare, a
// terminator byte follows the text and the remainder up to maxLength-1 is
// padded with the table's space byte. The terminator is skipped when it
// would run past the buffer end.
func InsertText(data []byte, offset int, text string, t *Table, maxLength int, terminator byte) (*InsertResult, error) {
	encoded, err := t.TextToBytes(text)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(data))
	copy(out, data)

	result := &InsertResult{Data: out}

	if maxLength > 0 && len(encoded) > maxLength {
		encoded = encoded[:maxLength]
		result.Overflow = true
	}

	for i, b := range encoded {
		pos := offset + i
		if pos >= len(out) {
			return result, nil
		}
		out[pos] = b
		result.BytesWritten++
	}

	if result.Overflow {
		return result, nil
	}

	termPos := offset + len(encoded)
	if termPos < len(out) {
		out[termPos] = terminator
	}

	if maxLength > len(encoded) {
		space := t.spaceByte()
		for pos := termPos + 1; pos < offset+maxLength && pos < len(out); pos++ {
			out[pos] = space
		}
	}

	return result, nil
}
