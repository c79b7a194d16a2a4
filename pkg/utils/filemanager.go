// =============================================================================
// Contract Generator - File Manager
// =============================================================================
//
// Local filesystem plumbing around the core pipeline: reading input payloads
// into memory, delivering output bytes under the output directory (the
// byte-save sink) and writing operator-facing summary logs. The core itself
// never touches the filesystem; everything it consumes and produces is bytes
// in memory.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager delivers generated output beneath a single output directory.
type FileManager struct {
	outputDir string
}

// NewFileManager creates a file manager rooted at outputDir.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{outputDir: outputDir}
}

// OutputDir returns the delivery root.
func (fm *FileManager) OutputDir() string {
	return fm.outputDir
}

// EnsureDirectories creates the output directory if it does not exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", fm.outputDir, err)
	}
	return nil
}

// Save writes data under the output directory with the suggested filename and
// returns the full path. This is the byte-save sink: the caller's suggested
// name is honored as-is.
func (fm *FileManager) Save(data []byte, suggestedName string) (string, error) {
	path := filepath.Join(fm.outputDir, suggestedName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", suggestedName, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", suggestedName, err)
	}
	return path, nil
}

// SaveGrouped writes data under outputDir/group/name, mirroring the archive
// grouping layout for per-lot delivery.
func (fm *FileManager) SaveGrouped(group, name string, data []byte) (string, error) {
	return fm.Save(data, filepath.Join(group, name))
}

// =============================================================================
// INPUT READING
// =============================================================================

// ReadInput loads an input file fully into memory. The pipeline operates on
// in-memory bytes only; this is the single place input files are read.
func ReadInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	return data, nil
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// =============================================================================
// SUMMARY LOG
// =============================================================================

// PassSummary is the operator-facing record of one generation pass.
type PassSummary struct {
	PassID       string
	SourceFile   string
	TotalRows    int
	Succeeded    int
	Failed       int
	SkippedBlank int
	Elapsed      time.Duration
	Errors       []string
}

// WriteSummaryLog writes a timestamped plain-text summary of a pass under the
// output directory and returns its path.
func (fm *FileManager) WriteSummaryLog(summary PassSummary) (string, error) {
	var b strings.Builder

	b.WriteString("=== Contract Generation Summary ===\n")
	fmt.Fprintf(&b, "Pass:          %s\n", summary.PassID)
	fmt.Fprintf(&b, "Source:        %s\n", summary.SourceFile)
	fmt.Fprintf(&b, "Generated at:  %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "Total rows:    %d\n", summary.TotalRows)
	fmt.Fprintf(&b, "Succeeded:     %d\n", summary.Succeeded)
	fmt.Fprintf(&b, "Failed:        %d\n", summary.Failed)
	fmt.Fprintf(&b, "Blank skipped: %d\n", summary.SkippedBlank)
	fmt.Fprintf(&b, "Elapsed:       %s\n", summary.Elapsed)

	if len(summary.Errors) > 0 {
		b.WriteString("\nRow errors:\n")
		for _, e := range summary.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}

	name := fmt.Sprintf("summary_%s.log", time.Now().Format("20060102_150405"))
	return fm.Save([]byte(b.String()), name)
}
