// Package service orchestrates batch folder translation: scanning,
// routing files through the batch processor, calling the translation
// provider, and writing translated output.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gametrans/batchloc/internal/batch"
	"github.com/gametrans/batchloc/internal/config"
	"github.com/gametrans/batchloc/internal/persistence"
	"github.com/gametrans/batchloc/internal/processor"
	"github.com/gametrans/batchloc/internal/subtitle"
	"github.com/gametrans/batchloc/internal/translator"
	"github.com/gametrans/batchloc/pkg/file"
	"github.com/gametrans/batchloc/pkg/log"
)

// ErrNoFiles means the scan and selection produced nothing to translate.
var ErrNoFiles = errors.New("no translatable files selected")

// Service wires the scanner, the batch processor, the translation
// provider and the persistence layer into the folder translation
// pipeline. One Service runs one translation batch at a time.
type Service struct {
	cfg      *config.Config
	provider translator.Translator
	store    *persistence.SQLiteStore
	cache    *persistence.TranslationCache
	proc     *processor.Processor[batch.File, FileResult]

	mu       sync.RWMutex
	statuses map[string]FileStatus
}

// New builds a Service. The store may be nil; caching then stays in
// memory and run reports are not archived.
func New(cfg *config.Config, provider translator.Translator, store *persistence.SQLiteStore) *Service {
	opts := PolicyFor(OpTranslate)
	opts.RetryDelay = cfg.Processor.RetryDelayDuration()
	opts.Timeout = cfg.Processor.TimeoutDuration()
	if cfg.Processor.Concurrency > 0 {
		opts.Concurrency = cfg.Processor.Concurrency
	}
	if cfg.Processor.RetryAttempts > 0 {
		opts.RetryAttempts = cfg.Processor.RetryAttempts
	}
	s := &Service{
		cfg:      cfg,
		provider: provider,
		store:    store,
		cache:    persistence.NewTranslationCache(store),
		statuses: make(map[string]FileStatus),
	}
	opts.OnProgress = func(percent float64, status string) {
		log.Info("translation progress %.0f%%: %s", percent, status)
	}
	s.proc = processor.New[batch.File, FileResult](opts)
	return s
}

// ScanFolder scans the configured input folder with the configured scan
// options.
func (s *Service) ScanFolder(ctx context.Context) (*batch.ScanResult, error) {
	opts, err := batch.LoadOptions(s.cfg.Batch.ScanOptionsFile)
	if err != nil {
		return nil, fmt.Errorf("load scan options: %w", err)
	}
	return batch.Scan(ctx, s.cfg.Batch.InputDir, opts)
}

// FileStatuses returns a snapshot of per-file statuses for the current
// or most recent run.
func (s *Service) FileStatuses() map[string]FileStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]FileStatus, len(s.statuses))
	for k, v := range s.statuses {
		out[k] = v
	}
	return out
}

// Cancel requests cancellation of the running translation batch.
func (s *Service) Cancel() {
	s.proc.Cancel()
}

// State reports the processor run state.
func (s *Service) State() processor.State {
	return s.proc.State()
}

func (s *Service) setStatus(rel string, st FileStatus) {
	s.mu.Lock()
	s.statuses[rel] = st
	s.mu.Unlock()
}

// TranslateFolder scans the input folder and translates the selected
// files into the configured target language. An empty selection means
// every supported file in the scan. Output goes to a language-suffixed
// sibling, or into the configured output folder with the source
// structure mirrored; the source file is never touched.
func (s *Service) TranslateFolder(ctx context.Context, selected []string) (*processor.Result[FileResult], error) {
	scan, err := s.ScanFolder(ctx)
	if err != nil {
		return nil, err
	}
	return s.TranslateScan(ctx, scan, selected)
}

// TranslateScan translates files out of an existing scan manifest.
func (s *Service) TranslateScan(ctx context.Context, scan *batch.ScanResult, selected []string) (*processor.Result[FileResult], error) {
	targetLang := s.cfg.Translate.TargetLanguage.String()
	files := s.pickFiles(scan, selected, targetLang)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, scan.RootPath)
	}

	s.mu.Lock()
	s.statuses = make(map[string]FileStatus, len(files))
	for _, f := range files {
		s.statuses[f.RelativePath] = StatusPending
	}
	s.mu.Unlock()

	items := make([]processor.Item[batch.File], 0, len(files))
	for _, f := range files {
		items = append(items, processor.Item[batch.File]{ID: f.RelativePath, Data: f})
	}

	result, err := s.proc.Process(ctx, string(OpTranslate), items, func(ctx context.Context, item processor.Item[batch.File]) (FileResult, error) {
		s.setStatus(item.ID, StatusTranslating)
		return s.translateFile(ctx, scan.RootPath, item.Data, targetLang)
	})
	if err != nil {
		return nil, err
	}

	for _, ir := range result.Results {
		if ir.Success {
			s.setStatus(ir.ItemID, StatusCompleted)
		} else {
			s.setStatus(ir.ItemID, StatusError)
		}
	}

	archiveRun(ctx, s.store, result)
	return result, nil
}

// pickFiles resolves the selection against the manifest. Unknown paths
// and unsupported types are skipped with a warning, not an error, so a
// stale selection never sinks the whole run.
func (s *Service) pickFiles(scan *batch.ScanResult, selected []string, targetLang string) []batch.File {
	supported := func(f batch.File) bool {
		switch f.FileType {
		case batch.TypeSRT, batch.TypeVTT, batch.TypeASS, batch.TypeTXT:
			return true
		}
		return false
	}

	var files []batch.File
	if len(selected) == 0 {
		for _, f := range scan.Files {
			if supported(f) && !isTranslatedArtifact(f.RelativePath, targetLang) {
				files = append(files, f)
			}
		}
		return files
	}

	for _, rel := range selected {
		f, ok := scan.FileByRelativePath(rel)
		if !ok {
			log.Warn("selected file %s not in scan manifest, skipping", rel)
			continue
		}
		if !supported(f) {
			log.Warn("selected file %s has unsupported type %s, skipping", rel, f.FileType)
			continue
		}
		if isTranslatedArtifact(rel, targetLang) {
			log.Debug("skipping translated artifact %s", rel)
			continue
		}
		files = append(files, f)
	}
	return files
}

// isTranslatedArtifact reports whether a path already carries the target
// language suffix, i.e. it is output of an earlier suffix-mode run.
func isTranslatedArtifact(rel string, targetLang string) bool {
	base := filepath.Base(rel)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.HasSuffix(stem, "."+targetLang)
}

func (s *Service) translateFile(ctx context.Context, root string, f batch.File, targetLang string) (FileResult, error) {
	switch f.FileType {
	case batch.TypeSRT, batch.TypeVTT, batch.TypeASS:
		return s.translateSubtitle(ctx, root, f, targetLang)
	case batch.TypeTXT:
		return s.translateTextFile(ctx, root, f, targetLang)
	default:
		return FileResult{}, fmt.Errorf("no translator for %s files", f.FileType)
	}
}

func (s *Service) translateSubtitle(ctx context.Context, root string, f batch.File, targetLang string) (FileResult, error) {
	doc, err := subtitle.NewReader(f.Path).Read()
	if err != nil {
		return FileResult{}, err
	}

	res := FileResult{
		RelativePath:   f.RelativePath,
		Status:         StatusCompleted,
		SourceLanguage: doc.Meta.Language,
		EntryCount:     len(doc.Entries),
	}
	for i := range doc.Entries {
		entry := &doc.Entries[i]
		if strings.TrimSpace(entry.Text) == "" {
			continue
		}
		translated, hit, err := s.translateUnit(ctx, entry.Text, targetLang)
		if err != nil {
			return FileResult{}, fmt.Errorf("translate entry %d of %s: %w", entry.Index, f.RelativePath, err)
		}
		entry.TranslatedText = translated
		res.TranslatedCount++
		if hit {
			res.CacheHits++
		}
	}

	out, err := s.outputPath(root, f.Path, targetLang)
	if err != nil {
		return FileResult{}, err
	}
	if err := subtitle.NewWriter().Write(out, doc); err != nil {
		return FileResult{}, err
	}
	res.OutputPath = out
	return res, nil
}

// translateTextFile handles plain text: the whole file is one
// translation unit.
func (s *Service) translateTextFile(ctx context.Context, root string, f batch.File, targetLang string) (FileResult, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return FileResult{}, fmt.Errorf("read %s: %w", f.RelativePath, err)
	}

	res := FileResult{
		RelativePath: f.RelativePath,
		Status:       StatusCompleted,
		EntryCount:   1,
	}
	content := string(raw)
	if strings.TrimSpace(content) != "" {
		translated, hit, err := s.translateUnit(ctx, content, targetLang)
		if err != nil {
			return FileResult{}, fmt.Errorf("translate %s: %w", f.RelativePath, err)
		}
		content = translated
		res.TranslatedCount = 1
		if hit {
			res.CacheHits = 1
		}
	}

	out, err := s.outputPath(root, f.Path, targetLang)
	if err != nil {
		return FileResult{}, err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return FileResult{}, fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
		return FileResult{}, fmt.Errorf("write %s: %w", out, err)
	}
	res.OutputPath = out
	return res, nil
}

// translateUnit consults the cache before the provider. Cache write
// failures are logged, never fatal.
func (s *Service) translateUnit(ctx context.Context, text string, targetLang string) (string, bool, error) {
	if cached, ok, err := s.cache.Get(ctx, text, targetLang); err != nil {
		log.Warn("translation cache read failed: %v", err)
	} else if ok {
		return cached, true, nil
	}

	translated, err := s.provider.Translate(ctx, text, targetLang)
	if err != nil {
		return "", false, err
	}
	if err := s.cache.Put(ctx, text, targetLang, translated); err != nil {
		log.Warn("translation cache write failed: %v", err)
	}
	return translated, false, nil
}

// outputPath decides where a translated file lands and refuses to ever
// point back at the source.
func (s *Service) outputPath(root string, srcPath string, targetLang string) (string, error) {
	var out string
	if s.cfg.Batch.OutputDir != "" {
		out = file.Mirror(root, srcPath, s.cfg.Batch.OutputDir)
	} else {
		out = file.WithLangSuffix(srcPath, targetLang)
	}
	if out == srcPath {
		return "", fmt.Errorf("output path %s would overwrite the source", srcPath)
	}
	return out, nil
}

// archiveRun persists the run report. Best effort: a failed archive
// never fails the run that produced it.
func archiveRun[R any](ctx context.Context, store *persistence.SQLiteStore, result *processor.Result[R]) {
	if store == nil {
		return
	}
	payload, err := json.Marshal(result.Results)
	if err != nil {
		log.Warn("marshal run results: %v", err)
		return
	}
	report := persistence.RunReport{
		OperationID:   result.OperationID,
		OperationType: result.OperationType,
		TotalItems:    result.TotalItems,
		SuccessCount:  result.SuccessCount,
		FailureCount:  result.FailureCount,
		Duration:      result.Duration,
		CompletedAt:   result.CompletedAt,
		Results:       payload,
	}
	if err := store.SaveRunReport(ctx, report); err != nil {
		log.Warn("archive run report %s: %v", result.OperationID, err)
	}
}
