package subtitle

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var vttTimeLine = regexp.MustCompile(`^((?:\d{1,2}:)?\d{2}:\d{2}\.\d{3})\s*-->\s*((?:\d{1,2}:)?\d{2}:\d{2}\.\d{3})`)

// ParseVTT parses WebVTT content. The WEBVTT header line and its key/value
// metadata lines are optional; of the metadata only the language is kept.
// A cue whose expected timestamp line does not parse is skipped one line at
// a time rather than aborting the rest of the file.
func ParseVTT(content string) *Document {
	doc := &Document{Format: FormatVTT}

	normalized := strings.ReplaceAll(strings.TrimPrefix(content, "\uFEFF"), "\r\n", "\n")
	lines := strings.Split(normalized, "\n")

	i := 0
	if i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "WEBVTT") {
		i++
		// header metadata runs until the first blank line
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			key, value, found := strings.Cut(lines[i], ":")
			if found && strings.EqualFold(strings.TrimSpace(key), "language") {
				doc.Meta.Language = strings.TrimSpace(value)
			}
			i++
		}
	}

	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}

		timeLine := line
		m := vttTimeLine.FindStringSubmatch(timeLine)
		if m == nil {
			// optional cue identifier line; the timestamp must follow
			if i+1 < len(lines) {
				m = vttTimeLine.FindStringSubmatch(strings.TrimSpace(lines[i+1]))
				if m != nil {
					i++
				}
			}
		}
		if m == nil {
			i++
			continue
		}

		startMs, err1 := VTTTimeToMs(m[1])
		endMs, err2 := VTTTimeToMs(m[2])
		if err1 != nil || err2 != nil {
			i++
			continue
		}
		i++

		var textLines []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			textLines = append(textLines, lines[i])
			i++
		}
		if len(textLines) == 0 {
			continue
		}

		doc.Entries = append(doc.Entries, Entry{
			Index: len(doc.Entries) + 1,
			Start: time.Duration(startMs) * time.Millisecond,
			End:   time.Duration(endMs) * time.Millisecond,
			Text:  strings.Join(textLines, "\n"),
		})
	}

	return doc
}

// SerializeVTT emits WebVTT syntax with an optional language header line.
func SerializeVTT(doc *Document) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n")
	if doc.Meta.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", doc.Meta.Language)
	}

	for _, entry := range doc.Entries {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s --> %s\n", MsToVTTTime(entry.Start.Milliseconds()), MsToVTTTime(entry.End.Milliseconds()))
		b.WriteString(entry.OutputText())
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}
