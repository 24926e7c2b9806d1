// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

// Package logger provides a levelled logger for the tsc2007 daemon.
package logger

import (
	"fmt"
	"log"
	"strings"
)

// Level is the minimum severity of messages that are logged.
type Level int

const (
	LevelNone Level = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
)

// ParseLevel returns the Level with the given name or number.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "none", "0":
		return LevelNone, nil
	case "error", "1":
		return LevelError, nil
	case "warn", "warning", "2":
		return LevelWarning, nil
	case "info", "3":
		return LevelInfo, nil
	case "debug", "4":
		return LevelDebug, nil
	}
	return LevelNone, fmt.Errorf("unknown log level '%s'", s)
}

// Logger writes levelled, optionally tagged, messages to a log.Logger.
type Logger struct {
	logger *log.Logger
	level  Level
	tag    string
}

// New creates a Logger that writes messages at or above level to l.
func New(l *log.Logger, level Level) *Logger {
	return &Logger{logger: l, level: level}
}

// WithTag returns a Logger sharing the output and level, with messages
// prefixed by the tag.
func (l *Logger) WithTag(tag string) *Logger {
	return &Logger{logger: l.logger, level: l.level, tag: tag}
}

// Level returns the level of the logger.
func (l *Logger) Level() Level {
	return l.level
}

func (l *Logger) format(level, format string) string {
	if l.tag != "" {
		format = "[" + l.tag + "] " + format
	}
	if level != "" {
		format = level + " " + format
	}
	return format
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	if l.level >= LevelDebug {
		l.logger.Printf(l.format("DEBUG:", format), v...)
	}
}

func (l *Logger) Infof(format string, v ...interface{}) {
	if l.level >= LevelInfo {
		l.logger.Printf(l.format("", format), v...)
	}
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	if l.level >= LevelWarning {
		l.logger.Printf(l.format("WARN:", format), v...)
	}
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	if l.level >= LevelError {
		l.logger.Printf(l.format("ERROR:", format), v...)
	}
}

func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatalf(l.format("FATAL:", format), v...)
}
