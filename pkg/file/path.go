package file

import (
	"path/filepath"
	"strings"
)

func ReplaceExt(path, ext string) string {
	if path == "" {
		return path
	}

	dir := filepath.Dir(path)
	filename := filepath.Base(path)

	lastDot := strings.LastIndex(filename, ".")

	if lastDot <= 0 {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return filepath.Join(dir, filename+ext)
	}

	nameWithoutExt := filename[:lastDot]

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return filepath.Join(dir, nameWithoutExt+ext)
}

// WithLangSuffix inserts a language code before the file extension.
// e.g. "movie.srt" + "it" -> "movie.it.srt"
func WithLangSuffix(path, lang string) string {
	if path == "" || lang == "" {
		return path
	}

	dir := filepath.Dir(path)
	filename := filepath.Base(path)
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	return filepath.Join(dir, stem+"."+lang+ext)
}

// Mirror maps a path relative to root onto outputDir, preserving the
// intermediate directory structure.
// e.g. Mirror("/src", "/src/sub/a.srt", "/out") -> "/out/sub/a.srt"
func Mirror(root, path, outputDir string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Join(outputDir, filepath.Base(path))
	}
	return filepath.Join(outputDir, rel)
}
