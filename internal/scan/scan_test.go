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

package scan

import (
	"errors"
	"os"
	"testing"

	"github.com/genobase/bioread/genomics"
)

func TestNext_LinesAndNumbers(t *testing.T) {
	l, err := Open("testdata/lines.txt")
	if err != nil {
		t.Fatalf("Failed to open testdata: %v", err)
	}
	defer l.Close()

	want := []string{"one", "two", "three"}
	for i, w := range want {
		line, ok := l.Next()
		if !ok {
			t.Fatalf("Next() #%d: unexpected end of file", i)
		}
		if line != w {
			t.Errorf("Wrong line #%d: got %q, want %q", i, line, w)
		}
		if got, want := l.Line(), i+1; got != want {
			t.Errorf("Wrong line number: got %d, want %d", got, want)
		}
	}
	if _, ok := l.Next(); ok {
		t.Errorf("Next() past last line: expected end of file")
	}
	if err := l.Err(); err != nil {
		t.Errorf("Err() returned error: %v", err)
	}
}

func TestRewind(t *testing.T) {
	l, err := Open("testdata/lines.txt")
	if err != nil {
		t.Fatalf("Failed to open testdata: %v", err)
	}
	defer l.Close()

	for l.Line() < 2 {
		if _, ok := l.Next(); !ok {
			t.Fatalf("Unexpected end of file at line %d", l.Line())
		}
	}
	if err := l.Rewind(); err != nil {
		t.Fatalf("Rewind() returned error: %v", err)
	}
	if got := l.Line(); got != 0 {
		t.Errorf("Line() after Rewind: got %d, want 0", got)
	}
	if line, ok := l.Next(); !ok || line != "one" {
		t.Errorf("Next() after Rewind: got %q, %t, want \"one\", true", line, ok)
	}
}

func TestClose(t *testing.T) {
	l, err := Open("testdata/lines.txt")
	if err != nil {
		t.Fatalf("Failed to open testdata: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("Second Close() returned error: %v", err)
	}
	if _, ok := l.Next(); ok {
		t.Errorf("Next() after Close: expected failure")
	}
	if err := l.Err(); err != genomics.ErrClosed {
		t.Errorf("Err() after Close: got %v, want genomics.ErrClosed", err)
	}
	if err := l.Rewind(); err != genomics.ErrClosed {
		t.Errorf("Rewind() after Close: got %v, want genomics.ErrClosed", err)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	if _, err := Open("testdata/no-such-file.txt"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open() on missing file: got %v, want os.ErrNotExist", err)
	}
}
