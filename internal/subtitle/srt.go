package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	srtBlockSplit   = regexp.MustCompile(`\n\s*\n`)
	srtTimeLine     = regexp.MustCompile(`^(\d{1,2}:\d{2}:\d{2}[,.]\d{1,3})\s*-->\s*(\d{1,2}:\d{2}:\d{2}[,.]\d{1,3})`)
)

// ParseSRT parses SubRip content into a document. Blocks whose index line
// is not an integer or whose timestamp line does not match the SRT shape
// are silently skipped; a best-effort document is always returned.
func ParseSRT(content string) *Document {
	doc := &Document{Format: FormatSRT}

	normalized := strings.ReplaceAll(strings.TrimPrefix(content, "\uFEFF"), "\r\n", "\n")
	for _, block := range srtBlockSplit.Split(normalized, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			continue
		}

		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			continue
		}

		m := srtTimeLine.FindStringSubmatch(strings.TrimSpace(lines[1]))
		if m == nil {
			continue
		}
		startMs, err := SRTTimeToMs(m[1])
		if err != nil {
			continue
		}
		endMs, err := SRTTimeToMs(m[2])
		if err != nil {
			continue
		}

		doc.Entries = append(doc.Entries, Entry{
			Index: index,
			Start: time.Duration(startMs) * time.Millisecond,
			End:   time.Duration(endMs) * time.Millisecond,
			Text:  strings.Join(lines[2:], "\n"),
		})
	}

	return doc
}

// SerializeSRT emits SubRip syntax, re-numbering entries 1..N regardless of
// their original indices.
func SerializeSRT(doc *Document) string {
	blocks := make([]string, 0, len(doc.Entries))
	for i, entry := range doc.Entries {
		blocks = append(blocks, fmt.Sprintf("%d\n%s --> %s\n%s",
			i+1,
			MsToSRTTime(entry.Start.Milliseconds()),
			MsToSRTTime(entry.End.Milliseconds()),
			entry.OutputText(),
		))
	}
	return strings.Join(blocks, "\n\n")
}
