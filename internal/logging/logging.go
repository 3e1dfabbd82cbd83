// Package logging builds the zap logger shared by the CLI and the MCP server.
//
// Logs always go to stderr; stdout carries command output and, in server
// mode, the JSON-RPC stream.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnv overrides the log level ("debug", "info", "warn", "error").
const LevelEnv = "CARDSHEET_LOG_LEVEL"

// New returns a console logger writing to stderr. verbose selects debug
// level; otherwise LevelEnv applies, defaulting to info.
func New(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Sampling = nil

	level, err := Level(verbose, os.Getenv(LevelEnv))
	if err != nil {
		return nil, err
	}
	config.Level = zap.NewAtomicLevelAt(level)

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Level resolves the effective level from the verbose flag and an env value.
func Level(verbose bool, env string) (zapcore.Level, error) {
	if verbose {
		return zapcore.DebugLevel, nil
	}
	env = strings.TrimSpace(env)
	if env == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(env))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("%s: %w", LevelEnv, err)
	}
	return level, nil
}
