package romtext

import "strings"

// ExtractText scans data[start:end] for runs of table-mapped bytes. The
// terminator byte or any byte absent from the table ends the current run
// and scanning resumes looking for the next one. Only non-empty runs are
// emitted, so consecutive terminators never yield empty blocks.
func ExtractText(data []byte, t *Table, start, end int, terminator byte) []TextBlock {
	if start < 0 {
		start = 0
	}
	if end > len(data) {
		end = len(data)
	}

	var blocks []TextBlock
	var run strings.Builder
	runStart := -1

	flush := func(pos int) {
		if run.Len() == 0 {
			return
		}
		blocks = append(blocks, TextBlock{
			Offset:       runStart,
			OriginalText: run.String(),
			MaxLength:    pos - runStart,
			Encoding:     t.Name,
		})
		run.Reset()
		runStart = -1
	}

	for i := start; i < end; i++ {
		b := data[i]
		if b == terminator {
			flush(i)
			continue
		}
		char, ok := t.byteToChar[b]
		if !ok {
			flush(i)
			continue
		}
		if run.Len() == 0 {
			runStart = i
		}
		run.WriteString(char)
	}
	flush(end)

	return blocks
}

// printableROMByte reports whether b falls in the ASCII-printable range or
// the 0x80–0xDF stretch common to half-width Japanese encodings.
func printableROMByte(b byte) bool {
	return (b >= 0x20 && b <= 0x7E) || (b >= 0x80 && b <= 0xDF)
}

const regionPreviewLimit = 50

// FindTextRegions flags contiguous stretches of printable-looking bytes of
// at least minLength. The preview is ASCII-only: extended bytes count
// toward region length but contribute no preview characters.
func FindTextRegions(data []byte, minLength int) []Region {
	if minLength < 1 {
		minLength = 1
	}

	var regions []Region
	regionStart := -1

	flush := func(end int) {
		if regionStart < 0 {
			return
		}
		length := end - regionStart
		if length >= minLength {
			var preview strings.Builder
			for _, b := range data[regionStart:end] {
				if preview.Len() >= regionPreviewLimit {
					break
				}
				if b >= 0x20 && b <= 0x7E {
					preview.WriteByte(b)
				}
			}
			regions = append(regions, Region{
				Start:   regionStart,
				End:     end,
				Length:  length,
				Preview: preview.String(),
			})
		}
		regionStart = -1
	}

	for i, b := range data {
		if printableROMByte(b) {
			if regionStart < 0 {
				regionStart = i
			}
			continue
		}
		flush(i)
	}
	flush(len(data))

	return regions
}
