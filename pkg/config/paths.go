// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"os"
	"path/filepath"
	"strings"
)

// GetDataDir returns the debate kernel's data directory.
//
// Priority:
// 1. DEBATEKERNEL_DATA_DIR environment variable (if set and non-empty)
// 2. ~/.debatekernel (default)
//
// The returned path is always absolute. Tilde (~) in DEBATEKERNEL_DATA_DIR is
// expanded to the user's home directory. Relative paths are converted to
// absolute paths.
//
// This function reads directly from os.Getenv(), not from viper, to avoid a
// circular dependency during config initialization.
func GetDataDir() string {
	if dataDir := os.Getenv("DEBATEKERNEL_DATA_DIR"); dataDir != "" {
		return expandPath(dataDir)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".debatekernel"
	}
	return filepath.Join(homeDir, ".debatekernel")
}

// GetDebatesDir returns the root directory under which every debate's
// per-debate subdirectory (debates/<debate_id>/) is created.
func GetDebatesDir() string {
	return filepath.Join(GetDataDir(), "debates")
}

// GetSubDir returns a subdirectory within the data directory.
func GetSubDir(subdir string) string {
	return filepath.Join(GetDataDir(), subdir)
}

// expandPath expands ~ and resolves to an absolute path.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
