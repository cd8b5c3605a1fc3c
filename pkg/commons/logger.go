// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package commons

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the application-wide logging contract. Every component takes one
// through its constructor; none construct their own.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(template string, args ...interface{})
}

type applicationLogger struct {
	*zap.SugaredLogger
}

// NewApplicationLogger builds a zap-backed logger writing to stdout and to a
// rotating file. Level comes from LOG_LEVEL (default debug).
func NewApplicationLogger() (Logger, error) {
	return NewApplicationLoggerWithLevel(os.Getenv("LOG_LEVEL"))
}

func NewApplicationLoggerWithLevel(level string) (Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   "logs/session-api.log",
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	})

	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderCfg),
			zapcore.AddSync(os.Stdout),
			parseLevel(level),
		),
		zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			fileWriter,
			parseLevel(level),
		),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return &applicationLogger{logger.Sugar()}, nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.DebugLevel
	}
}
