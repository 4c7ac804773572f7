package service

// FileStatus tracks one file through a translation run.
type FileStatus string

const (
	StatusPending     FileStatus = "pending"
	StatusTranslating FileStatus = "translating"
	StatusCompleted   FileStatus = "completed"
	StatusError       FileStatus = "error"
)

// FileResult is the per-file outcome of a translation run.
type FileResult struct {
	RelativePath    string     `json:"relativePath"`
	Status          FileStatus `json:"status"`
	OutputPath      string     `json:"outputPath,omitempty"`
	SourceLanguage  string     `json:"sourceLanguage,omitempty"`
	EntryCount      int        `json:"entryCount"`
	TranslatedCount int        `json:"translatedCount"`
	CacheHits       int        `json:"cacheHits"`
	Error           string     `json:"error,omitempty"`
}
