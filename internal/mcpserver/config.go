package mcpserver

import (
	"log/slog"
	"os"
	"strings"
)

// serverConfig holds the MCP server's environment-derived defaults,
// loaded once at startup.
type serverConfig struct {
	// GoWorkerCommand is the argv used to launch the Go analyzer worker
	// for the diff/merge tools.
	GoWorkerCommand []string
	// Suffixes are the file extensions snapshotted for a diff or merge.
	Suffixes []string
}

var cfg = loadConfig()

func loadConfig() *serverConfig {
	return &serverConfig{
		GoWorkerCommand: envArgv("SEMMERGE_GO_WORKER_COMMAND", []string{"semmerge-worker-go"}),
		Suffixes:        envList("SEMMERGE_SUFFIXES", []string{".go"}),
	}
}

func envArgv(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	fields := strings.Fields(v)
	if len(fields) == 0 {
		slog.Warn("empty argv env var, using default", "key", key, "default", fallback)
		return fallback
	}
	return fields
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return strings.Split(v, ",")
}
