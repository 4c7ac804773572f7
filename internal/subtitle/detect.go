package subtitle

import (
	"regexp"
	"strings"
)

var srtHeadPattern = regexp.MustCompile(`^\s*\d+\s*\r?\n\s*\d{1,2}:\d{2}:\d{2}[,.]\d{1,3}\s*-->`)

// Detect classifies raw subtitle content by structural signature. It never
// fails on garbage input; unrecognized content yields FormatUnknown and the
// caller must supply the format explicitly or reject the file.
//
// Precedence: WEBVTT marker, then ASS/SSA section headers, then the SRT
// index-plus-timestamp block shape.
func Detect(content string) Format {
	trimmed := strings.TrimPrefix(content, "\uFEFF")

	if strings.HasPrefix(strings.TrimLeft(trimmed, " \t\r\n"), "WEBVTT") {
		return FormatVTT
	}

	if strings.Contains(trimmed, "[Script Info]") ||
		strings.Contains(trimmed, "[V4+ Styles]") ||
		strings.Contains(trimmed, "[V4 Styles]") {
		if strings.Contains(trimmed, "[V4+ Styles]") {
			return FormatASS
		}
		return FormatSSA
	}

	if srtHeadPattern.MatchString(trimmed) {
		return FormatSRT
	}

	return FormatUnknown
}

// DetectByExtension maps a file extension (with or without the leading dot)
// to a format, for callers that classified the file by name only.
func DetectByExtension(ext string) Format {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "srt":
		return FormatSRT
	case "vtt":
		return FormatVTT
	case "ass":
		return FormatASS
	case "ssa":
		return FormatSSA
	default:
		return FormatUnknown
	}
}
