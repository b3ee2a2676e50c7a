/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package logger is the ambient structured-logging layer: a thin logrus
// wrapper, in the teacher's style of one shared entry with fields attached
// per call site instead of ad hoc fmt.Printf.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the subset of logrus every package in this module depends on,
// so call sites can be exercised against a discard instance in tests.
type Logger = logrus.FieldLogger

// New builds a logrus logger writing JSON lines to w (os.Stderr if nil) at
// level. An unparseable or empty level string defaults to "info".
func New(w io.Writer, level string) Logger {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.JSONFormatter{})

	return l
}

// Discard is a Logger that drops every entry: the default for packages and
// tests that receive no explicit logger.
var Discard = New(io.Discard, "panic")
