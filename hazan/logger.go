// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hazan

import (
	"fmt"
	"io"
)

// LogLevel controls the frequency and type of logger output.
type LogLevel int

const (
	// LogNoop no output is generated (level < 0)
	LogNoop LogLevel = -1
	// LogLast print only one line when a solve terminates
	LogLast LogLevel = 0
	// LogBracket print bound updates of the surrounding binary search
	LogBracket LogLevel = 1
	// LogIter print per-iteration progress of the feasibility solve
	LogIter LogLevel = 99
)

// Logger handles diagnostic output for the solvers.
// A nil Logger discards everything; the solvers never block on a human.
// Note the writer must be thread-safe when shared.
type Logger struct {
	Level LogLevel
	Msg   io.Writer // Writer to output log messages.
}

// Enabled reports whether messages at the given level are emitted.
func (l *Logger) Enabled(level LogLevel) bool {
	return l != nil && l.Msg != nil && l.Level >= level
}

// Log writes one formatted message to the underlying writer.
func (l *Logger) Log(format string, a ...any) {
	if l == nil || l.Msg == nil {
		return
	}
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Msg, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Msg, format)
	}
}
