package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gametrans/batchloc/internal/romtext"
)

func writeROM(t *testing.T) string {
	t.Helper()
	data := make([]byte, 32)
	copy(data, "HELLO")
	path := filepath.Join(t.TempDir(), "game.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRomDumpCmd(t *testing.T) {
	romPath := writeROM(t)

	cmd := romDumpCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{romPath, "--table", "ascii"})

	require.NoError(t, cmd.Execute())

	var blocks []romtext.TextBlock
	require.NoError(t, json.Unmarshal(out.Bytes(), &blocks))
	require.Len(t, blocks, 1)
	assert.Equal(t, "HELLO", blocks[0].OriginalText)
	assert.Equal(t, 0, blocks[0].Offset)
	assert.Equal(t, 5, blocks[0].MaxLength)
}

func TestRomInsertCmd(t *testing.T) {
	romPath := writeROM(t)
	outPath := filepath.Join(t.TempDir(), "patched.bin")

	cmd := romInsertCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{romPath, "--table", "ascii", "--at", "0x00", "--text", "HI", "--max-length", "5", "--out", outPath})

	require.NoError(t, cmd.Execute())

	patched, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, byte('H'), patched[0])
	assert.Equal(t, byte('I'), patched[1])
	assert.Equal(t, byte(0x00), patched[2])
}

func TestRomRegionsCmd(t *testing.T) {
	romPath := writeROM(t)

	cmd := romRegionsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{romPath, "--min-length", "4"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "HELLO")
}

func TestLoadTable(t *testing.T) {
	table, err := loadTable("italian", 0)
	require.NoError(t, err)
	_, ok := table.CharFor(0x80)
	assert.True(t, ok)

	tblPath := filepath.Join(t.TempDir(), "custom.tbl")
	require.NoError(t, os.WriteFile(tblPath, []byte("41=A\n42=B\n"), 0o644))
	table, err = loadTable(tblPath, 0)
	require.NoError(t, err)
	assert.Equal(t, "custom", table.Name)

	_, err = loadTable(filepath.Join(t.TempDir(), "missing.tbl"), 0)
	assert.Error(t, err)
}

func TestParseOffsetAndTerminator(t *testing.T) {
	n, err := parseOffset("0x10")
	require.NoError(t, err)
	assert.Equal(t, 16, n)

	n, err = parseOffset("42")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = parseOffset("zz")
	assert.Error(t, err)

	b, err := parseTerminator("FF")
	require.NoError(t, err)
	assert.Equal(t, byte(0xFF), b)

	b, err = parseTerminator("0x00")
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), b)
}
