package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const minimalChip = `MaxCellMove 0
GGridBoundaryIdx 1 1 1 1
NumLayer 1
Lay M1 1 H 10
NumNonDefaultSupplyGGrid 0
NumMasterCell 1
MasterCell MC1 0 0
NumNeighborCellExtraDemand 0
NumCellInst 0
NumNets 0
NumRoutes 0
`

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(in, []byte(minimalChip), 0o644))

	code := run([]string{"--infile", in, "--outfile", out, "--sec", "1"})
	require.Equal(t, exitOK, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "NumMovedCellInst 0")
	require.Contains(t, string(data), "NumRoutes 0")
}

func TestRunMissingFlags(t *testing.T) {
	code := run([]string{})
	require.Equal(t, exitError, code)
}

func TestRunMissingInfile(t *testing.T) {
	code := run([]string{"--infile", "/no/such/file", "--outfile", "/tmp/whatever"})
	require.Equal(t, exitError, code)
}

func TestCliOptionsLoggerLevels(t *testing.T) {
	require.Nil(t, cliOptions{}.logger())
	require.NotNil(t, cliOptions{verbose: true}.logger())
	require.NotNil(t, cliOptions{traceVerbose: true}.logger())
}

func TestRunProfileApply(t *testing.T) {
	dir := t.TempDir()
	profilePath := filepath.Join(dir, "profile.yaml")
	content := "infile: a.txt\noutfile: b.txt\nsec: 5\ncell: true\n"
	require.NoError(t, os.WriteFile(profilePath, []byte(content), 0o644))

	p, err := loadProfile(profilePath)
	require.NoError(t, err)

	got := p.apply(cliOptions{})
	require.Equal(t, "a.txt", got.infile)
	require.Equal(t, "b.txt", got.outfile)
	require.Equal(t, 5, got.sec)
	require.True(t, got.cell)
	require.False(t, got.net)
}

func TestRunProfileCLIFlagsTakePrecedence(t *testing.T) {
	dir := t.TempDir()
	profilePath := filepath.Join(dir, "profile.yaml")
	content := "infile: a.txt\nsec: 5\n"
	require.NoError(t, os.WriteFile(profilePath, []byte(content), 0o644))

	p, err := loadProfile(profilePath)
	require.NoError(t, err)

	got := p.apply(cliOptions{infile: "explicit.txt", sec: 9})
	require.Equal(t, "explicit.txt", got.infile)
	require.Equal(t, 9, got.sec)
}

func TestUsageMentionsRequiredFlags(t *testing.T) {
	require.True(t, strings.Contains(usage, "--infile"))
	require.True(t, strings.Contains(usage, "--outfile"))
}
