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

package recorder_test

import (
	"testing"

	"github.com/zintix-labs/antigravity/configs"
	"github.com/zintix-labs/antigravity/errs"
	"github.com/zintix-labs/antigravity/game"
	"github.com/zintix-labs/antigravity/recorder"
	"github.com/zintix-labs/antigravity/spec"
)

func newRecorder(t *testing.T) *recorder.SessionRecorder {
	t.Helper()
	gs, err := spec.Load(configs.FS, configs.Default)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	r, err := recorder.NewSessionRecorder(gs, 99, 0.8)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return r
}

func TestRecordAndDone(t *testing.T) {
	r := newRecorder(t)
	results := []game.Result{
		{Score: 20, Seconds: 60, Mistakes1: 0, Reward: false},
		{Score: 18, Seconds: 90, Mistakes1: 2, Reward: false},
		{Score: 16, Seconds: 120, Mistakes1: 4, Reward: true},
	}
	for _, res := range results {
		if err := r.Record(res); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	r.Refuse()

	rep := r.Done()
	if rep.Summary.Sessions != 3 || rep.Summary.Refused != 1 || rep.Summary.BestScore != 20 {
		t.Fatalf("unexpected summary %+v", rep.Summary)
	}
	if rep.Summary.MeanScore != 18 || rep.Summary.MeanSeconds != 90 || rep.Summary.MeanAccuracy != 90 {
		t.Fatalf("unexpected means %+v", rep.Summary)
	}
	if rep.Stage1.Puzzles != 27 || rep.Stage1.MeanMistakes != 2 {
		t.Fatalf("unexpected stage1 %+v", rep.Stage1)
	}
	if len(rep.Dist.Count) != 21 || rep.Dist.Count[18] != 1 {
		t.Fatalf("unexpected dist %v", rep.Dist.Count)
	}
}

func TestRecordRejectsImpossibleScore(t *testing.T) {
	r := newRecorder(t)
	if err := r.Record(game.Result{Score: 21}); errs.LevelOf(err) != errs.Fatal {
		t.Fatalf("expected fatal, got %v", err)
	}
	if err := r.Record(game.Result{Score: 5, Seconds: -1}); errs.LevelOf(err) != errs.Fatal {
		t.Fatalf("expected fatal, got %v", err)
	}
}

func TestMerge(t *testing.T) {
	a, b := newRecorder(t), newRecorder(t)
	_ = a.Record(game.Result{Score: 10, Seconds: 100})
	_ = b.Record(game.Result{Score: 20, Seconds: 50, Reward: true})
	b.Refuse()
	m, err := recorder.Merge([]*recorder.SessionRecorder{a, b})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if m.Basic.Sessions != 2 || m.Basic.Refused != 1 || m.Basic.Rewards != 1 || m.Basic.BestScore != 20 || m.Basic.SecondsSum != 150 {
		t.Fatalf("unexpected merge %+v", m.Basic)
	}
	if _, err := recorder.Merge(nil); err == nil {
		t.Fatalf("expected error for empty merge")
	}
}

func TestNewRejectsBadAccuracy(t *testing.T) {
	gs, _ := spec.Load(configs.FS, configs.Default)
	if _, err := recorder.NewSessionRecorder(gs, 1, 1.5); err == nil {
		t.Fatalf("expected error")
	}
}
