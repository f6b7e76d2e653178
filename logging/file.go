package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Limits of the rotated log file.
const (
	logFileMaxSizeMB  = 64
	logFileMaxBackups = 3
)

// NewFileCore returns a core writing JSON lines to path, rotating the file once it grows
// past a fixed size. The returned closer closes the current file.
func NewFileCore(path string) (zapcore.Core, io.Closer) {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		Compress:   true,
	}
	encoderCfg := NewLoggerConfig().EncoderConfig
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(rotator), zap.DebugLevel)
	return core, rotator
}

// NewLoggerWithFile returns a logger that writes to stdout like NewLogger and also to the
// rotated file at path.
func NewLoggerWithFile(name, path string, level Level) (Logger, io.Closer) {
	fileCore, closer := NewFileCore(path)
	return newImpl(name, level, zapcore.NewTee(stdoutCore(), fileCore)), closer
}

// NewLoggerAt returns a stdout logger at the given level.
func NewLoggerAt(name string, level Level) Logger {
	return newImpl(name, level, stdoutCore())
}
