// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	cases := map[string]LogMode{"": ModeDev, "dev": ModeDev, "PROD": ModeProd, "off": ModeSilence}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("loud"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	New(ModeProd, &buf).Info("session done", "score", 18)
	if !strings.Contains(buf.String(), `"score":18`) {
		t.Fatalf("expected json output, got %q", buf.String())
	}
}

func TestProdSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	New(ModeProd, &buf).Debug("tick")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered in prod")
	}
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "antigravity.log")
	for i := 0; i < 2; i++ {
		log, closeFn, err := OpenFile(ModeDev, path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		log.Info("hello")
		if err := closeFn(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n := strings.Count(string(data), "msg=hello"); n != 2 {
		t.Fatalf("expected 2 lines, got %d", n)
	}
}

func TestAsyncFileDrainsOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "async.log")
	log, closeFn, err := OpenAsyncFile(ModeDev, path, 256)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 100; i++ {
		log.Info("tick", "i", i)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, _ := os.ReadFile(path)
	if n := strings.Count(string(data), "msg=tick"); n != 100 {
		t.Fatalf("expected 100 lines after drain, got %d", n)
	}
}

func TestAsyncDropsAfterClose(t *testing.T) {
	var buf bytes.Buffer
	h := NewAsyncHandler(buildHandler(ModeDev, &buf), 8)
	h.Close()
	lg := slog.New(h)
	lg.Info("late")
	if h.Dropped() != 1 || buf.Len() != 0 {
		t.Fatalf("records after close should be dropped, dropped=%d", h.Dropped())
	}
}
