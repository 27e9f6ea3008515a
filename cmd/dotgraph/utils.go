package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

// flagsChanged reports, for each named flag, whether the user passed it
// explicitly on this invocation (cmd.Flags().Changed), for use with
// internal/config's explicit-set-aware merge helpers.
func flagsChanged(cmd *cobra.Command, names ...string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = cmd.Flags().Changed(n)
	}
	return out
}

// generateTimestampedFileName generates a filename with a timestamp suffix.
func generateTimestampedFileName(command, extension string) string {
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%s", command, timestamp, extension)
}

// resolveOutputDirectory returns the default report directory: a
// tool-specific hidden directory under the current working directory,
// avoiding writes into the analyzed source tree.
func resolveOutputDirectory() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".dotgraph", "reports"), nil
	}
	return filepath.Join(cwd, ".dotgraph", "reports"), nil
}

// generateOutputFilePath combines filename generation and directory
// resolution, creating the directory if needed.
func generateOutputFilePath(command, extension string) (string, error) {
	filename := generateTimestampedFileName(command, extension)
	outputDir, err := resolveOutputDirectory()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}
	return filepath.Join(outputDir, filename), nil
}

// expandAndValidatePaths resolves every argument to an absolute path
// and confirms it exists on disk.
func expandAndValidatePaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		expanded, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", arg, err)
		}
		if _, err := os.Stat(expanded); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path does not exist: %s", arg)
			}
			return nil, fmt.Errorf("cannot access path %s: %w", arg, err)
		}
		paths = append(paths, expanded)
	}
	return paths, nil
}
