package batch

import "strings"

// FileType tags a scanned file with its localization format family.
type FileType string

const (
	TypeJSON       FileType = "json"
	TypePO         FileType = "po"
	TypeRESX       FileType = "resx"
	TypeCSV        FileType = "csv"
	TypeTXT        FileType = "txt"
	TypeSRT        FileType = "srt"
	TypeVTT        FileType = "vtt"
	TypeASS        FileType = "ass"
	TypeXML        FileType = "xml"
	TypeYAML       FileType = "yaml"
	TypeProperties FileType = "properties"
	TypeINI        FileType = "ini"
	TypeUnknown    FileType = "unknown"
)

// TypeFromExtension classifies a file extension (without dot) into a
// format tag.
func TypeFromExtension(ext string) FileType {
	switch strings.ToLower(ext) {
	case "json":
		return TypeJSON
	case "po", "pot":
		return TypePO
	case "resx":
		return TypeRESX
	case "csv":
		return TypeCSV
	case "txt":
		return TypeTXT
	case "srt":
		return TypeSRT
	case "vtt":
		return TypeVTT
	case "ass", "ssa":
		return TypeASS
	case "xml":
		return TypeXML
	case "yaml", "yml":
		return TypeYAML
	case "properties":
		return TypeProperties
	case "ini", "cfg":
		return TypeINI
	default:
		return TypeUnknown
	}
}

// Translatable reports whether files of this type carry extractable text.
func (ft FileType) Translatable() bool {
	return ft != TypeUnknown
}

// File is one classified file of a scan manifest. EntryCount is nil when
// the file was classified by extension only; when set it is an estimate,
// never an exact post-translation count.
type File struct {
	Path         string   `json:"path"`
	RelativePath string   `json:"relativePath"`
	FileName     string   `json:"fileName"`
	Extension    string   `json:"extension"`
	SizeBytes    int64    `json:"sizeBytes"`
	FileType     FileType `json:"fileType"`
	EntryCount   *int     `json:"entryCount"`
}

// TypeCount aggregates files of one type.
type TypeCount struct {
	FileType  FileType `json:"fileType"`
	Count     int      `json:"count"`
	TotalSize int64    `json:"totalSize"`
}

// ScanResult is the immutable manifest of one scan invocation. Re-scanning
// produces a brand-new result.
type ScanResult struct {
	RootPath         string      `json:"rootPath"`
	Files            []File      `json:"files"`
	TotalFiles       int         `json:"totalFiles"`
	TotalSizeBytes   int64       `json:"totalSizeBytes"`
	TypeCounts       []TypeCount `json:"fileTypeCounts"`
	EstimatedEntries int         `json:"estimatedEntries"`
}

// FileByRelativePath looks a manifest entry up by its scan-relative path.
func (r *ScanResult) FileByRelativePath(rel string) (File, bool) {
	for _, f := range r.Files {
		if f.RelativePath == rel {
			return f, true
		}
	}
	return File{}, false
}
