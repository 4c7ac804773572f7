package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestScan_ClassifiesAndAggregates(t *testing.T) {
	tmp := t.TempDir()
	writeFiles(t, tmp, map[string]string{
		"subs/movie.srt":        "1\n00:00:01,000 --> 00:00:02,000\nHi\n\n2\n00:00:03,000 --> 00:00:04,000\nThere\n",
		"strings/ui.json":       `{"play": "Play", "stop": "Stop"}`,
		"strings/it.properties": "play=Gioca\n# comment\nstop=Ferma\n",
		"readme.docx":           "binary-ish",
	})

	result, err := Scan(context.Background(), tmp, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, tmp, result.RootPath)
	assert.Equal(t, 3, result.TotalFiles)
	require.Len(t, result.Files, 3)

	srt, ok := result.FileByRelativePath(filepath.Join("subs", "movie.srt"))
	require.True(t, ok)
	assert.Equal(t, TypeSRT, srt.FileType)
	assert.Equal(t, "movie.srt", srt.FileName)
	assert.Equal(t, "srt", srt.Extension)
	require.NotNil(t, srt.EntryCount)
	assert.Equal(t, 2, *srt.EntryCount)

	js, ok := result.FileByRelativePath(filepath.Join("strings", "ui.json"))
	require.True(t, ok)
	require.NotNil(t, js.EntryCount)
	assert.Equal(t, 2, *js.EntryCount)

	props, ok := result.FileByRelativePath(filepath.Join("strings", "it.properties"))
	require.True(t, ok)
	require.NotNil(t, props.EntryCount)
	assert.Equal(t, 2, *props.EntryCount)

	assert.Equal(t, 6, result.EstimatedEntries)
	assert.Len(t, result.TypeCounts, 3)

	var total int64
	for _, tc := range result.TypeCounts {
		total += tc.TotalSize
	}
	assert.Equal(t, result.TotalSizeBytes, total)
}

func TestScan_SkipsHiddenAndExcluded(t *testing.T) {
	tmp := t.TempDir()
	writeFiles(t, tmp, map[string]string{
		"keep.txt":                  "hello\n",
		".hidden.txt":               "hidden\n",
		".git/config.txt":           "vcs\n",
		"node_modules/pkg/a.json":   `{"k": "v"}`,
		"assets/strings/deep.json":  `{"k": "v"}`,
	})

	result, err := Scan(context.Background(), tmp, DefaultOptions())
	require.NoError(t, err)

	rels := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		rels = append(rels, f.RelativePath)
	}
	assert.ElementsMatch(t, []string{
		"keep.txt",
		filepath.Join("assets", "strings", "deep.json"),
	}, rels)
}

func TestScan_SizeFilters(t *testing.T) {
	tmp := t.TempDir()
	writeFiles(t, tmp, map[string]string{
		"small.txt": "x",
		"big.txt":   strings.Repeat("line\n", 100),
	})

	opts := DefaultOptions()
	opts.MinSizeBytes = 10
	result, err := Scan(context.Background(), tmp, opts)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "big.txt", result.Files[0].FileName)

	opts = DefaultOptions()
	opts.MaxSizeBytes = 10
	result, err = Scan(context.Background(), tmp, opts)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "small.txt", result.Files[0].FileName)
}

func TestScan_MaxDepthAndNonRecursive(t *testing.T) {
	tmp := t.TempDir()
	writeFiles(t, tmp, map[string]string{
		"top.txt":         "a\n",
		"l1/mid.txt":      "b\n",
		"l1/l2/deep.txt":  "c\n",
	})

	opts := DefaultOptions()
	opts.MaxDepth = 1
	result, err := Scan(context.Background(), tmp, opts)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "top.txt", result.Files[0].FileName)

	opts = DefaultOptions()
	opts.Recursive = false
	result, err = Scan(context.Background(), tmp, opts)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
}

func TestScan_NoEstimateLeavesCountsNil(t *testing.T) {
	tmp := t.TempDir()
	writeFiles(t, tmp, map[string]string{"a.txt": "x\ny\n"})

	opts := DefaultOptions()
	opts.Estimate = false
	result, err := Scan(context.Background(), tmp, opts)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Nil(t, result.Files[0].EntryCount)
	assert.Zero(t, result.EstimatedEntries)
}

func TestScan_ErrorsOnBadRoot(t *testing.T) {
	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "missing"), DefaultOptions())
	assert.Error(t, err)

	tmp := t.TempDir()
	file := filepath.Join(tmp, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = Scan(context.Background(), file, DefaultOptions())
	assert.Error(t, err)
}

func TestTypeFromExtension(t *testing.T) {
	assert.Equal(t, TypePO, TypeFromExtension("pot"))
	assert.Equal(t, TypeASS, TypeFromExtension("ssa"))
	assert.Equal(t, TypeYAML, TypeFromExtension("yml"))
	assert.Equal(t, TypeINI, TypeFromExtension("cfg"))
	assert.Equal(t, TypeUnknown, TypeFromExtension("exe"))
	assert.False(t, TypeUnknown.Translatable())
	assert.True(t, TypeSRT.Translatable())
}

func TestLoadOptions_LayersOverDefaults(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "scan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth: 3\nskip_hidden: false\n"), 0o644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, 3, opts.MaxDepth)
	assert.False(t, opts.SkipHidden)
	// untouched fields keep their defaults
	assert.Equal(t, int64(50*1024*1024), opts.MaxSizeBytes)
	assert.Contains(t, opts.ExcludePatterns, "node_modules")

	_, err = LoadOptions(filepath.Join(tmp, "missing.yaml"))
	assert.Error(t, err)

	defaults, err := LoadOptions("")
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), defaults)
}
