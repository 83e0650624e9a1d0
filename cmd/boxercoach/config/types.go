// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
)

type BoxerCoachConfig struct {
	// Backend: where the analysis server lives and how long to wait for it
	Backend BackendConfig `yaml:"backend"`

	// Upload: local checks applied before anything goes on the wire
	Upload UploadConfig `yaml:"upload"`

	// Storage: where sessions, the profile, and video copies live
	Storage StorageConfig `yaml:"storage"`

	// Logging: log level and optional file output
	Logging LoggingConfig `yaml:"logging"`
}

type BackendConfig struct {
	BaseURL               string `yaml:"base_url" validate:"required,url"`
	UploadTimeoutSeconds  int    `yaml:"upload_timeout_seconds" validate:"gt=0"`
	AnalyzeTimeoutSeconds int    `yaml:"analyze_timeout_seconds" validate:"gt=0"`
}

type UploadConfig struct {
	// MaxSizeMB is the upload ceiling. Oversized clips are rejected
	// before any network activity.
	MaxSizeMB int64 `yaml:"max_size_mb" validate:"gt=0"`
}

type StorageConfig struct {
	// DataDir holds the BadgerDB database and the video library.
	DataDir string `yaml:"data_dir" validate:"required"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	// LogDir, when set, adds a rotating daily JSON log file.
	LogDir string `yaml:"log_dir,omitempty"`
}

func DefaultConfig() BoxerCoachConfig {
	dataDir := ".boxercoach"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".boxercoach")
	}
	return BoxerCoachConfig{
		Backend: BackendConfig{
			BaseURL:               "http://192.168.1.7:5000",
			UploadTimeoutSeconds:  60,
			AnalyzeTimeoutSeconds: 120,
		},
		Upload: UploadConfig{
			MaxSizeMB: 50,
		},
		Storage: StorageConfig{
			DataDir: dataDir,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// MaxSizeBytes converts the configured ceiling to bytes.
func (c UploadConfig) MaxSizeBytes() int64 {
	return c.MaxSizeMB * 1024 * 1024
}

// DatabaseDir is where BadgerDB keeps its files.
func (c StorageConfig) DatabaseDir() string {
	return filepath.Join(c.DataDir, "db")
}

// VideoDir is where selected clips are copied for local playback.
func (c StorageConfig) VideoDir() string {
	return filepath.Join(c.DataDir, "videos")
}
