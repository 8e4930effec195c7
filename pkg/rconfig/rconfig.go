// Package rconfig consolidates the handful of environment-driven tuning
// knobs archive_r reads at process startup, the same way the teacher's
// pkg/env is the single source of truth for its environment variables.
package rconfig

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvLogLevel         = "ARCHIVE_R_LOG_LEVEL"
	EnvScanConcurrency  = "ARCHIVE_R_SCAN_CONCURRENCY"
	EnvStreamChunkBytes = "ARCHIVE_R_STREAM_CHUNK_BYTES"
)

const (
	defaultScanConcurrency  = 8
	defaultStreamChunkBytes = 1 << 20 // 1MiB, matches the teacher's VirtualStream chunkSize
)

// Load reads a .env file if present in the working directory (ignored if
// absent) and returns whether one was found. Mirrors the teacher's
// cmd/streamnzb/main.go startup call to godotenv.Load().
func Load() bool {
	return godotenv.Load() == nil
}

// LogLevel returns ARCHIVE_R_LOG_LEVEL, defaulting to "INFO".
func LogLevel() string {
	if v := os.Getenv(EnvLogLevel); v != "" {
		return v
	}
	return "INFO"
}

// ScanConcurrency bounds how many candidate volume files the multi-volume
// header scan (pkg/formats/scan.go) probes in parallel.
func ScanConcurrency() int {
	return getEnvInt(EnvScanConcurrency, defaultScanConcurrency)
}

// StreamChunkBytes returns the configured read chunk size (from
// EnvStreamChunkBytes, else defaultStreamChunkBytes). No reader in this
// module consults it; MultiVolumeStream reads into the caller's buffer.
func StreamChunkBytes() int {
	return getEnvInt(EnvStreamChunkBytes, defaultStreamChunkBytes)
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
