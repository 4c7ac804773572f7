package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gametrans/batchloc/internal/persistence"
	"github.com/gametrans/batchloc/internal/processor"
)

// ExportReport writes an archived run report as a JSON file. Runs under
// the export policy so filesystem writes stay serial but still retry.
func (s *Service) ExportReport(ctx context.Context, operationID string, path string) error {
	if s.store == nil {
		return fmt.Errorf("no store configured, run reports are not archived")
	}
	report, ok, err := s.store.GetRunReport(ctx, operationID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("run report %s not found", operationID)
	}

	proc := processor.New[persistence.RunReport, string](PolicyFor(OpExport))
	res, err := proc.Process(ctx, string(OpExport), []processor.Item[persistence.RunReport]{
		{ID: operationID, Data: report},
	}, func(_ context.Context, item processor.Item[persistence.RunReport]) (string, error) {
		payload, err := json.MarshalIndent(item.Data, "", "  ")
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return "", err
		}
		return path, nil
	})
	if err != nil {
		return err
	}
	if res.FailureCount > 0 {
		return fmt.Errorf("export report %s: %s", operationID, res.Results[0].Error)
	}
	return nil
}

// VerifyOutputs re-checks that the outputs of a finished run still exist
// on disk, flipping vanished files back to error. Runs wide under the
// status policy since each check is a single stat.
func (s *Service) VerifyOutputs(ctx context.Context, results []FileResult) (int, error) {
	items := make([]processor.Item[FileResult], 0, len(results))
	for _, fr := range results {
		if fr.Status == StatusCompleted && fr.OutputPath != "" {
			items = append(items, processor.Item[FileResult]{ID: fr.RelativePath, Data: fr})
		}
	}
	if len(items) == 0 {
		return 0, nil
	}

	proc := processor.New[FileResult, struct{}](PolicyFor(OpStatus))
	res, err := proc.Process(ctx, string(OpStatus), items, func(_ context.Context, item processor.Item[FileResult]) (struct{}, error) {
		if _, err := os.Stat(item.Data.OutputPath); err != nil {
			return struct{}{}, fmt.Errorf("output missing: %w", err)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return 0, err
	}
	for _, ir := range res.Results {
		if !ir.Success {
			s.setStatus(ir.ItemID, StatusError)
		}
	}
	return res.SuccessCount, nil
}
