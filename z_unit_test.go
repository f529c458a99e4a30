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

package antigravity_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/zintix-labs/antigravity"
	"github.com/zintix-labs/antigravity/configs"
	"github.com/zintix-labs/antigravity/core"
	"github.com/zintix-labs/antigravity/game"
	"github.com/zintix-labs/antigravity/record"
)

func newApp(t *testing.T) *antigravity.Antigravity {
	t.Helper()
	a, err := antigravity.NewDefault(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return a
}

func TestNewRequiresFactory(t *testing.T) {
	if _, err := antigravity.New(nil, configs.FS, configs.Default, nil); err == nil {
		t.Fatalf("expected error without prng factory")
	}
	if _, err := antigravity.New(core.Default(), configs.FS, "missing.yaml", nil); err == nil {
		t.Fatalf("expected error for a missing settings file")
	}
}

func TestSimulatorPerfectBot(t *testing.T) {
	sim := newApp(t).NewSimulatorWithSeed(2026)
	rep, _, err := sim.Run(50, 1.0, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	s := rep.Summary
	if s.Sessions != 50 || s.MeanScore != 20 || s.StdScore != 0 || s.BestScore != 20 {
		t.Fatalf("perfect bot should always score 20: %+v", s)
	}
	// 每天 5 局，第 6 次開始被擋下後換日
	if s.Refused != 9 {
		t.Fatalf("expected 9 refusals, got %d", s.Refused)
	}
	// 每天第 3、4、5 局有獎勵
	if math.Abs(s.RewardRate-0.6) > 1e-9 {
		t.Fatalf("unexpected reward rate %v", s.RewardRate)
	}
	if rep.Stage1.MeanMistakes != 0 {
		t.Fatalf("perfect bot made stage1 mistakes")
	}
	if s.MeanSeconds < 46 || s.MeanSeconds > 136 {
		t.Fatalf("mean seconds out of range: %v", s.MeanSeconds)
	}
}

func TestSimulatorHopelessBot(t *testing.T) {
	rep, _, err := newApp(t).NewSimulatorWithSeed(7).Run(12, 0, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Summary.MeanScore != 0 || rep.Dist.Count[0] != 12 {
		t.Fatalf("hopeless bot should score 0: %+v", rep.Summary)
	}
	// 每題試完三個錯誤選項才選到正解
	if rep.Stage1.MeanMistakes != 27 {
		t.Fatalf("expected 27 stage1 mistakes per session, got %v", rep.Stage1.MeanMistakes)
	}
}

func TestSimulatorDeterministic(t *testing.T) {
	a := newApp(t)
	r1, _, err := a.NewSimulatorWithSeed(99).Run(20, 0.7, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	r2, _, _ := a.NewSimulatorWithSeed(99).Run(20, 0.7, false)
	if r1.Summary.MeanScore != r2.Summary.MeanScore || r1.Summary.SecondsSum != r2.Summary.SecondsSum || r1.Stage1.Mistakes != r2.Stage1.Mistakes {
		t.Fatalf("same seed should give the same report")
	}
}

func TestSimulatorRejectsBadInput(t *testing.T) {
	sim := newApp(t).NewSimulatorWithSeed(1)
	if _, _, err := sim.Run(0, 0.5, false); err == nil {
		t.Fatalf("expected error for zero sessions")
	}
	if _, _, err := sim.Run(1, 1.5, false); err == nil {
		t.Fatalf("expected error for accuracy > 1")
	}
}

func TestOpenStoreBackends(t *testing.T) {
	ctx := context.Background()
	for _, backend := range []string{antigravity.BackendFile, antigravity.BackendSQLite, antigravity.BackendMemory} {
		dir := filepath.Join(t.TempDir(), "data")
		kv, err := antigravity.OpenStore(backend, dir)
		if err != nil {
			t.Fatalf("%s: open: %v", backend, err)
		}
		if err := kv.Put(ctx, record.Key, []byte(`{}`)); err != nil {
			t.Fatalf("%s: put: %v", backend, err)
		}
		if _, ok, err := kv.Get(ctx, record.Key); !ok || err != nil {
			t.Fatalf("%s: get: %v %v", backend, ok, err)
		}
		_ = kv.Close()
	}
	if _, err := antigravity.OpenStore("redis", t.TempDir()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

type stopClock struct{ t time.Time }

func (c *stopClock) Now() time.Time { return c.t }

func TestSessionFromAssembler(t *testing.T) {
	a := newApp(t)
	clk := &stopClock{t: time.Date(2026, 10, 17, 9, 0, 0, 0, time.Local)}
	book, err := a.NewBook(context.Background(), record.NewMemKV(), clk)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	s1, _ := a.NewSessionWithSeed(book, clk, 5)
	s2, _ := a.NewSessionWithSeed(book, clk, 5)
	_, _ = s1.Start(context.Background())
	_, _ = s2.Start(context.Background())
	v1, _ := s1.Stage1()
	v2, _ := s2.Stage1()
	if s1.Screen() != game.ScreenStage1 || len(v1.Sequence) != 9 {
		t.Fatalf("session should start stage1")
	}
	for i := range v1.Sequence {
		if v1.Sequence[i] != v2.Sequence[i] {
			t.Fatalf("same seed should give the same sequence")
		}
	}
}
