package batch

import (
	"io"
	"os"
	"strings"
)

// estimateReadLimit caps how much of a file the estimator reads. Counts on
// larger files are scaled by the sampled fraction; they are estimates
// either way.
const estimateReadLimit = 2 * 1024 * 1024

// estimateEntryCount cheaply approximates how many translatable entries a
// file holds, by counting format markers rather than building a document
// model. Returns nil when the file cannot be read.
func estimateEntryCount(path string, size int64, fileType FileType) *int {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, estimateReadLimit))
	if err != nil {
		return nil
	}
	content := string(raw)

	count := countMarkers(content, fileType)
	if size > estimateReadLimit {
		count = int(float64(count) * float64(size) / float64(estimateReadLimit))
	}
	return &count
}

func countMarkers(content string, fileType FileType) int {
	switch fileType {
	case TypeJSON:
		return strings.Count(content, `":`)
	case TypePO:
		count := strings.Count(content, `msgid "`) - 1 // minus the header
		if count < 0 {
			count = 0
		}
		return count
	case TypeSRT, TypeVTT:
		count := 0
		for _, block := range strings.Split(content, "\n\n") {
			if strings.TrimSpace(block) != "" {
				count++
			}
		}
		return count
	case TypeASS:
		return strings.Count(content, "Dialogue:")
	case TypeCSV:
		count := len(strings.Split(strings.TrimSpace(content), "\n")) - 1 // minus the header
		if count < 0 {
			count = 0
		}
		return count
	case TypeRESX:
		return strings.Count(content, "<data")
	case TypeProperties:
		count := 0
		for _, line := range strings.Split(content, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" && !strings.HasPrefix(trimmed, "#") && !strings.HasPrefix(trimmed, "!") {
				count++
			}
		}
		return count
	default:
		count := 0
		for _, line := range strings.Split(content, "\n") {
			if strings.TrimSpace(line) != "" {
				count++
			}
		}
		return count
	}
}
