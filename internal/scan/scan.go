// Copyright 2024 Genobase Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scan provides the rewindable line scanner shared by the format
// readers.
package scan

import (
	"bufio"
	"io"
	"os"

	"github.com/genobase/bioread/genomics"
)

// Genome dumps occasionally carry unwrapped sequence lines; allow lines of up
// to 4MiB before failing.
const maxLineLength = 4 << 20

// Lines scans a file line by line and can be rewound to the start of the
// file.  It tracks the 1-based number of the last line returned so that
// parse errors can point at their source.
type Lines struct {
	file    *os.File
	scanner *bufio.Scanner
	line    int
	closed  bool
}

// Open opens the file at path for line scanning.  The error from os.Open is
// returned unwrapped so that callers can inspect the *fs.PathError.
func Open(path string) (*Lines, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	l := &Lines{file: f}
	l.reset()
	return l, nil
}

func (l *Lines) reset() {
	s := bufio.NewScanner(l.file)
	s.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	l.scanner = s
	l.line = 0
}

// Next returns the next line with its terminator stripped.  It returns false
// at end of file, after Close, or when scanning fails; Err distinguishes the
// cases.
func (l *Lines) Next() (string, bool) {
	if l.closed || !l.scanner.Scan() {
		return "", false
	}
	l.line++
	return l.scanner.Text(), true
}

// Line returns the 1-based number of the line most recently returned by Next,
// or zero before the first line of a pass.
func (l *Lines) Line() int { return l.line }

// Err returns the first error encountered while scanning the current pass, or
// genomics.ErrClosed once the scanner has been closed.
func (l *Lines) Err() error {
	if l.closed {
		return genomics.ErrClosed
	}
	return l.scanner.Err()
}

// Rewind repositions the scanner at the start of the file and resets the line
// counter.
func (l *Lines) Rewind() error {
	if l.closed {
		return genomics.ErrClosed
	}
	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	l.reset()
	return nil
}

// Close releases the underlying file.  It is safe to call more than once.
func (l *Lines) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return l.file.Close()
}
