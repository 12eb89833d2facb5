// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package logging provides leveled process logging. Call sites use either
// printf-style messages ("[DNS] failed: %v") or trailing key-value pairs
// ("failed to load list", "list", name, "error", err); the formatter picks
// the mode from the message string.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Level is the minimum severity that gets emitted.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "?"
	}
}

func init() {
	minLevel.Store(int32(LevelInfo))
}

var (
	minLevel atomic.Int32

	mu     sync.Mutex
	sink   = log.New(os.Stderr, "", log.LstdFlags)
	syslog io.WriteCloser
)

// SetLevel sets the minimum emitted severity.
func SetLevel(l Level) { minLevel.Store(int32(l)) }

// CurrentLevel returns the active minimum severity.
func CurrentLevel() Level { return Level(minLevel.Load()) }

// SetOutput redirects log output. Used by tests and by the daemon when a
// log file is configured.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	sink = log.New(w, "", log.LstdFlags)
}

// SetSyslog attaches a secondary syslog writer. Pass nil to detach.
func SetSyslog(w io.WriteCloser) {
	mu.Lock()
	defer mu.Unlock()
	if syslog != nil && syslog != w {
		syslog.Close()
	}
	syslog = w
}

func Debug(msg string, args ...any) { emit(LevelDebug, msg, args...) }
func Info(msg string, args ...any)  { emit(LevelInfo, msg, args...) }
func Warn(msg string, args ...any)  { emit(LevelWarn, msg, args...) }
func Error(msg string, args ...any) { emit(LevelError, msg, args...) }

func emit(l Level, msg string, args ...any) {
	if l < CurrentLevel() {
		return
	}
	line := format(msg, args...)

	mu.Lock()
	defer mu.Unlock()
	sink.Printf("%s %s", l, line)
	if syslog != nil {
		fmt.Fprintf(syslog, "%s %s", l, line)
	}
}

// format renders msg either printf-style (when it carries format verbs) or
// with args appended as key=value pairs.
func format(msg string, args ...any) string {
	if len(args) == 0 {
		return msg
	}
	if strings.Contains(msg, "%") {
		return fmt.Sprintf(msg, args...)
	}

	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&b, " %v", args[i])
		}
	}
	return b.String()
}
