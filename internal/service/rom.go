package service

import (
	"context"
	"fmt"
	"os"

	"github.com/gametrans/batchloc/internal/processor"
	"github.com/gametrans/batchloc/internal/romtext"
	"github.com/gametrans/batchloc/pkg/log"
)

// TranslateROM extracts table-mapped text runs from a ROM image,
// translates them through the batch processor and writes a patched copy
// to outPath. The source image is never modified. Runs that cannot be
// re-encoded within their byte budget are truncated; runs whose
// translation uses characters missing from the table keep their original
// bytes.
func (s *Service) TranslateROM(ctx context.Context, romPath string, outPath string, table *romtext.Table, start, end int, terminator byte) (*processor.Result[romtext.TextBlock], error) {
	if outPath == "" || outPath == romPath {
		return nil, fmt.Errorf("output path must differ from the ROM image %s", romPath)
	}

	data, err := os.ReadFile(romPath)
	if err != nil {
		return nil, fmt.Errorf("read ROM image: %w", err)
	}
	if end <= 0 || end > len(data) {
		end = len(data)
	}

	blocks := romtext.ExtractText(data, table, start, end, terminator)
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: no table-mapped text in %s", ErrNoFiles, romPath)
	}
	log.Info("found %d text runs in %s [%#x..%#x)", len(blocks), romPath, start, end)

	targetLang := s.cfg.Translate.TargetLanguage.String()
	items := make([]processor.Item[romtext.TextBlock], 0, len(blocks))
	for _, b := range blocks {
		items = append(items, processor.Item[romtext.TextBlock]{ID: fmt.Sprintf("0x%06X", b.Offset), Data: b})
	}

	proc := processor.New[romtext.TextBlock, romtext.TextBlock](PolicyFor(OpTranslate))
	result, err := proc.Process(ctx, "rom-translate", items, func(ctx context.Context, item processor.Item[romtext.TextBlock]) (romtext.TextBlock, error) {
		block := item.Data
		translated, _, err := s.translateUnit(ctx, block.OriginalText, targetLang)
		if err != nil {
			return romtext.TextBlock{}, err
		}
		block.TranslatedText = translated
		return block, nil
	})
	if err != nil {
		return nil, err
	}

	// Reinsertion is sequential on purpose: each insert works on a fresh
	// copy of the previous buffer.
	buf := data
	for _, ir := range result.Results {
		if !ir.Success {
			continue
		}
		block := ir.Result
		ins, err := romtext.InsertText(buf, block.Offset, block.TranslatedText, table, block.MaxLength, terminator)
		if err != nil {
			log.Warn("keeping original bytes at %#x: %v", block.Offset, err)
			continue
		}
		if ins.Overflow {
			log.Warn("translation at %#x truncated to %d bytes", block.Offset, ins.BytesWritten)
		}
		buf = ins.Data
	}

	if err := os.WriteFile(outPath, buf, 0o644); err != nil {
		return nil, fmt.Errorf("write patched ROM: %w", err)
	}
	log.Info("patched ROM written to %s", outPath)

	archiveRun(ctx, s.store, result)
	return result, nil
}
