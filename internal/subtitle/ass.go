package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var assOverrideTag = regexp.MustCompile(`\{[^}]*\}`)

const assDefaultStyleFormat = "Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding"

const assDefaultStyle = "Default,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,0,2,10,10,10,1"

// ParseASS parses ASS/SSA content with a section state machine keyed by
// [Section] headers. Within styles and events, a Format: line defines the
// positional field names for the Style:/Dialogue: lines that follow. The
// dialogue text field is rebuilt from every comma token at and after the
// text position, since text legitimately contains commas.
//
// Override tags ({...} blocks) are stripped and literal \N / \n sequences
// become real newlines; the raw tag content is not preserved. Comment:
// lines are dropped.
func ParseASS(content string) *Document {
	doc := &Document{Format: FormatSSA}

	var section string
	var eventFormat []string

	normalized := strings.ReplaceAll(strings.TrimPrefix(content, "\uFEFF"), "\r\n", "\n")
	for _, raw := range strings.Split(normalized, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			if section == "v4+ styles" {
				doc.Format = FormatASS
			}
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch section {
		case "script info":
			doc.Meta.ScriptInfo = append(doc.Meta.ScriptInfo, ScriptInfoField{Key: key, Value: value})
			switch strings.ToLower(key) {
			case "title":
				doc.Meta.Title = value
			case "original script":
				doc.Meta.Author = value
			}

		case "v4+ styles", "v4 styles":
			switch key {
			case "Format":
				doc.Meta.StyleFormat = splitFormatFields(value)
			case "Style":
				if style, ok := parseStyleLine(value, doc.Meta.StyleFormat); ok {
					doc.Meta.Styles = append(doc.Meta.Styles, style)
				}
			}

		case "events":
			switch key {
			case "Format":
				eventFormat = splitFormatFields(value)
			case "Dialogue":
				if entry, ok := parseDialogueLine(value, eventFormat); ok {
					entry.Index = len(doc.Entries) + 1
					doc.Entries = append(doc.Entries, entry)
				}
			}
		}
	}

	return doc
}

// splitFormatFields turns a Format: value into trimmed lowercase field names.
func splitFormatFields(value string) []string {
	parts := strings.Split(value, ",")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		fields = append(fields, strings.ToLower(strings.TrimSpace(part)))
	}
	return fields
}

func parseStyleLine(value string, format []string) (Style, bool) {
	if len(format) == 0 {
		return Style{}, false
	}
	parts := strings.Split(value, ",")
	style := Style{Fields: make(map[string]string, len(format))}
	for i, name := range format {
		if i >= len(parts) {
			break
		}
		v := strings.TrimSpace(parts[i])
		style.Fields[name] = v
		if name == "name" {
			style.Name = v
		}
	}
	if style.Name == "" {
		return Style{}, false
	}
	return style, true
}

func parseDialogueLine(value string, format []string) (Entry, bool) {
	if len(format) == 0 {
		return Entry{}, false
	}

	textIdx := -1
	for i, name := range format {
		if name == "text" {
			textIdx = i
			break
		}
	}
	if textIdx < 0 {
		return Entry{}, false
	}

	parts := strings.Split(value, ",")
	if len(parts) < textIdx+1 {
		return Entry{}, false
	}

	field := func(name string) string {
		for i, n := range format {
			if n == name && i < len(parts) {
				return strings.TrimSpace(parts[i])
			}
		}
		return ""
	}

	startMs, err := ASSTimeToMs(field("start"))
	if err != nil {
		return Entry{}, false
	}
	endMs, err := ASSTimeToMs(field("end"))
	if err != nil {
		return Entry{}, false
	}

	// Everything from the text position onward belongs to the text.
	text := strings.Join(parts[textIdx:], ",")
	text = assOverrideTag.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, `\N`, "\n")
	text = strings.ReplaceAll(text, `\n`, "\n")

	return Entry{
		Start:   time.Duration(startMs) * time.Millisecond,
		End:     time.Duration(endMs) * time.Millisecond,
		Text:    text,
		Style:   field("style"),
		Actor:   field("name"),
		MarginL: atoiDefault(field("marginl")),
		MarginR: atoiDefault(field("marginr")),
		MarginV: atoiDefault(field("marginv")),
		Effect:  field("effect"),
	}, true
}

func atoiDefault(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// SerializeASS emits a minimal but complete ASS/SSA file: script info,
// styles (parsed styles when present, one synthesized default otherwise)
// and events. Newlines in text become \N.
func SerializeASS(doc *Document) string {
	var b strings.Builder

	ssa := doc.Format == FormatSSA

	b.WriteString("[Script Info]\n")
	title := doc.Meta.Title
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintf(&b, "Title: %s\n", title)
	if ssa {
		b.WriteString("ScriptType: v4.00\n")
	} else {
		b.WriteString("ScriptType: v4.00+\n")
	}
	for _, field := range doc.Meta.ScriptInfo {
		switch strings.ToLower(field.Key) {
		case "title", "scripttype":
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", field.Key, field.Value)
	}

	if ssa {
		b.WriteString("\n[V4 Styles]\n")
	} else {
		b.WriteString("\n[V4+ Styles]\n")
	}
	if len(doc.Meta.Styles) > 0 && len(doc.Meta.StyleFormat) > 0 {
		fmt.Fprintf(&b, "Format: %s\n", strings.Join(titledFields(doc.Meta.StyleFormat), ", "))
		for _, style := range doc.Meta.Styles {
			values := make([]string, len(doc.Meta.StyleFormat))
			for i, name := range doc.Meta.StyleFormat {
				values[i] = style.Fields[name]
			}
			fmt.Fprintf(&b, "Style: %s\n", strings.Join(values, ","))
		}
	} else {
		fmt.Fprintf(&b, "Format: %s\n", assDefaultStyleFormat)
		fmt.Fprintf(&b, "Style: %s\n", assDefaultStyle)
	}

	b.WriteString("\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, entry := range doc.Entries {
		style := entry.Style
		if style == "" {
			style = "Default"
		}
		text := strings.ReplaceAll(entry.OutputText(), "\n", `\N`)
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,%s,%s,%d,%d,%d,%s,%s\n",
			MsToASSTime(entry.Start.Milliseconds()),
			MsToASSTime(entry.End.Milliseconds()),
			style,
			entry.Actor,
			entry.MarginL,
			entry.MarginR,
			entry.MarginV,
			entry.Effect,
			text,
		)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// titledFields restores the conventional capitalization of ASS format
// field names for output (the parser lowercases them).
func titledFields(fields []string) []string {
	known := map[string]string{
		"name": "Name", "fontname": "Fontname", "fontsize": "Fontsize",
		"primarycolour": "PrimaryColour", "secondarycolour": "SecondaryColour",
		"tertiarycolour": "TertiaryColour", "outlinecolour": "OutlineColour",
		"backcolour": "BackColour", "bold": "Bold", "italic": "Italic",
		"underline": "Underline", "strikeout": "StrikeOut", "scalex": "ScaleX",
		"scaley": "ScaleY", "spacing": "Spacing", "angle": "Angle",
		"borderstyle": "BorderStyle", "outline": "Outline", "shadow": "Shadow",
		"alignment": "Alignment", "marginl": "MarginL", "marginr": "MarginR",
		"marginv": "MarginV", "alphalevel": "AlphaLevel", "encoding": "Encoding",
	}
	ret := make([]string, len(fields))
	for i, f := range fields {
		if titled, ok := known[f]; ok {
			ret[i] = titled
		} else {
			ret[i] = f
		}
	}
	return ret
}
