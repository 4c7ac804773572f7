package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/gametrans/batchloc/pkg/log"
)

// Scan walks root, classifies every file it keeps and returns one
// immutable manifest. No file handles stay open afterwards; translation
// passes re-open files themselves.
func Scan(ctx context.Context, root string, opts Options) (*ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root is not a directory: %s", root)
	}

	ret := &ScanResult{
		RootPath: root,
		Files:    make([]File, 0),
	}

	maxDepth := opts.MaxDepth
	if !opts.Recursive {
		maxDepth = 1
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn("Skipping unreadable entry %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}

		name := d.Name()
		hidden := opts.SkipHidden && strings.HasPrefix(name, ".")
		excluded := matchesAny(path, opts.ExcludePatterns)

		if d.IsDir() {
			if hidden || excluded {
				return filepath.SkipDir
			}
			if maxDepth > 0 && depthOf(rel) >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if hidden || excluded {
			return nil
		}

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
		if len(opts.IncludeExtensions) > 0 && !slices.Contains(opts.IncludeExtensions, ext) {
			return nil
		}

		fi, statErr := d.Info()
		if statErr != nil {
			return nil
		}
		size := fi.Size()
		if opts.MinSizeBytes > 0 && size < opts.MinSizeBytes {
			return nil
		}
		if opts.MaxSizeBytes > 0 && size > opts.MaxSizeBytes {
			return nil
		}

		fileType := TypeFromExtension(ext)
		if !fileType.Translatable() {
			return nil
		}

		var entryCount *int
		if opts.Estimate {
			entryCount = estimateEntryCount(path, size, fileType)
		}

		ret.Files = append(ret.Files, File{
			Path:         path,
			RelativePath: rel,
			FileName:     name,
			Extension:    ext,
			SizeBytes:    size,
			FileType:     fileType,
			EntryCount:   entryCount,
		})
		ret.TotalSizeBytes += size
		return nil
	})
	if err != nil {
		return nil, err
	}

	ret.TotalFiles = len(ret.Files)
	ret.TypeCounts = countByType(ret.Files)
	for _, f := range ret.Files {
		if f.EntryCount != nil {
			ret.EstimatedEntries += *f.EntryCount
		}
	}

	log.Info("Scanned %s: %d files, %d estimated entries", root, ret.TotalFiles, ret.EstimatedEntries)
	return ret, nil
}

func depthOf(rel string) int {
	return strings.Count(rel, string(filepath.Separator)) + 1
}

func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern != "" && strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

func countByType(files []File) []TypeCount {
	byType := make(map[FileType]*TypeCount)
	for _, f := range files {
		tc, ok := byType[f.FileType]
		if !ok {
			tc = &TypeCount{FileType: f.FileType}
			byType[f.FileType] = tc
		}
		tc.Count++
		tc.TotalSize += f.SizeBytes
	}

	ret := make([]TypeCount, 0, len(byType))
	for _, tc := range byType {
		ret = append(ret, *tc)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].FileType < ret[j].FileType
	})
	return ret
}
