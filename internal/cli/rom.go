package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gametrans/batchloc/internal/romtext"
)

func romCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rom",
		Short: "Work with table-encoded ROM text",
	}
	cmd.AddCommand(romRegionsCmd())
	cmd.AddCommand(romDumpCmd())
	cmd.AddCommand(romInsertCmd())
	cmd.AddCommand(romTranslateCmd())
	return cmd
}

// loadTable resolves a table spec: "ascii" and "italian" name the
// built-in generators, anything else is a .tbl file path.
func loadTable(spec string, offset int) (*romtext.Table, error) {
	switch strings.ToLower(spec) {
	case "ascii":
		return romtext.GenerateASCIITable(offset), nil
	case "italian":
		return romtext.GenerateItalianTable(offset), nil
	}
	raw, err := os.ReadFile(spec)
	if err != nil {
		return nil, fmt.Errorf("read table file: %w", err)
	}
	table := romtext.ParseTable(string(raw))
	table.Name = strings.TrimSuffix(filepath.Base(spec), filepath.Ext(spec))
	return table, nil
}

// parseOffset accepts decimal or 0x-prefixed hex.
func parseOffset(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q: %w", s, err)
	}
	return int(v), nil
}

func parseTerminator(s string) (byte, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid terminator byte %q: %w", s, err)
	}
	return byte(v), nil
}

func romRegionsCmd() *cobra.Command {
	var minLength int
	cmd := &cobra.Command{
		Use:   "regions <rom-file>",
		Short: "Find candidate text regions by printable-byte heuristic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			regions := romtext.FindTextRegions(data, minLength)
			if len(regions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no text regions found")
				return nil
			}
			for _, r := range regions {
				fmt.Fprintf(cmd.OutOrStdout(), "%#08x-%#08x  %6d bytes  %q\n", r.Start, r.End, r.Length, r.Preview)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&minLength, "min-length", 8, "Minimum region length in bytes")
	return cmd
}

func romDumpCmd() *cobra.Command {
	var (
		tableSpec   string
		tableOffset int
		startStr    string
		endStr      string
		termStr     string
	)
	cmd := &cobra.Command{
		Use:   "dump <rom-file>",
		Short: "Extract table-mapped text runs as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			table, err := loadTable(tableSpec, tableOffset)
			if err != nil {
				return err
			}
			start, err := parseOffset(startStr)
			if err != nil {
				return err
			}
			end, err := parseOffset(endStr)
			if err != nil {
				return err
			}
			if end <= 0 || end > len(data) {
				end = len(data)
			}
			terminator, err := parseTerminator(termStr)
			if err != nil {
				return err
			}

			blocks := romtext.ExtractText(data, table, start, end, terminator)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(blocks)
		},
	}
	cmd.Flags().StringVarP(&tableSpec, "table", "t", "ascii", "Table file path, or built-in: ascii, italian")
	cmd.Flags().IntVar(&tableOffset, "table-offset", 0, "Byte offset for built-in tables")
	cmd.Flags().StringVar(&startStr, "start", "", "Start offset (decimal or 0x hex)")
	cmd.Flags().StringVar(&endStr, "end", "", "End offset, exclusive (default: end of file)")
	cmd.Flags().StringVar(&termStr, "terminator", "00", "Terminator byte in hex")
	return cmd
}

func romInsertCmd() *cobra.Command {
	var (
		tableSpec   string
		tableOffset int
		atStr       string
		text        string
		maxLength   int
		termStr     string
		outPath     string
	)
	cmd := &cobra.Command{
		Use:   "insert <rom-file>",
		Short: "Write text into a copy of a ROM image at an offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" || outPath == args[0] {
				return fmt.Errorf("--out must name a file different from the ROM image")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			table, err := loadTable(tableSpec, tableOffset)
			if err != nil {
				return err
			}
			at, err := parseOffset(atStr)
			if err != nil {
				return err
			}
			terminator, err := parseTerminator(termStr)
			if err != nil {
				return err
			}

			res, err := romtext.InsertText(data, at, text, table, maxLength, terminator)
			if err != nil {
				return err
			}
			if res.Overflow {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: text truncated to %d bytes\n", res.BytesWritten)
			}
			if err := os.WriteFile(outPath, res.Data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d bytes written at %#x, patched image at %s\n", res.BytesWritten, at, outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&tableSpec, "table", "t", "ascii", "Table file path, or built-in: ascii, italian")
	cmd.Flags().IntVar(&tableOffset, "table-offset", 0, "Byte offset for built-in tables")
	cmd.Flags().StringVar(&atStr, "at", "", "Target offset (decimal or 0x hex)")
	cmd.Flags().StringVar(&text, "text", "", "Text to encode and insert")
	cmd.Flags().IntVar(&maxLength, "max-length", 0, "Byte budget at the offset")
	cmd.Flags().StringVar(&termStr, "terminator", "00", "Terminator byte in hex")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Path for the patched image")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func romTranslateCmd() *cobra.Command {
	var (
		tableSpec   string
		tableOffset int
		startStr    string
		endStr      string
		termStr     string
		outPath     string
		targetLang  string
	)
	cmd := &cobra.Command{
		Use:   "translate <rom-file>",
		Short: "Translate table-mapped text runs and write a patched image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			cfg, err := loadConfig("", targetLang)
			if err != nil {
				return err
			}
			svc, store, err := buildService(cfg)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			table, err := loadTable(tableSpec, tableOffset)
			if err != nil {
				return err
			}
			start, err := parseOffset(startStr)
			if err != nil {
				return err
			}
			end, err := parseOffset(endStr)
			if err != nil {
				return err
			}
			terminator, err := parseTerminator(termStr)
			if err != nil {
				return err
			}

			result, err := svc.TranslateROM(ctx, args[0], outPath, table, start, end, terminator)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d/%d runs translated, patched image at %s\n",
				result.OperationID, result.SuccessCount, result.TotalItems, outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&tableSpec, "table", "t", "italian", "Table file path, or built-in: ascii, italian")
	cmd.Flags().IntVar(&tableOffset, "table-offset", 0, "Byte offset for built-in tables")
	cmd.Flags().StringVar(&startStr, "start", "", "Start offset (decimal or 0x hex)")
	cmd.Flags().StringVar(&endStr, "end", "", "End offset, exclusive (default: end of file)")
	cmd.Flags().StringVar(&termStr, "terminator", "00", "Terminator byte in hex")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Path for the patched image")
	cmd.Flags().StringVarP(&targetLang, "lang", "l", "", "Target language tag (default from TARGET_LANGUAGE)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
