// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hazan

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerNil(t *testing.T) {
	var l *Logger
	if l.Enabled(LogLast) {
		t.Fatal("TestLoggerNil: nil logger enabled")
	}
	l.Log("dropped %d\n", 1) // must not panic
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{Level: LogBracket, Msg: &buf}

	if !l.Enabled(LogLast) || !l.Enabled(LogBracket) {
		t.Fatal("TestLoggerLevels: expected levels disabled")
	}
	if l.Enabled(LogIter) {
		t.Fatal("TestLoggerLevels: iteration level enabled")
	}

	l.Log("bound %f\n", 1.5)
	l.Log("plain\n")
	out := buf.String()
	if !strings.Contains(out, "bound 1.500000") || !strings.Contains(out, "plain") {
		t.Fatalf("TestLoggerLevels: output %q", out)
	}
}
