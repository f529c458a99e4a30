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

package record

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zintix-labs/antigravity/errs"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func day(s string) time.Time {
	t, _ := time.ParseInLocation(DayLayout, s, time.Local)
	return t.Add(10 * time.Hour)
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	ad := NewAdapter(NewMemKV(), nil)
	d := ad.Load(context.Background(), "2026-10-17")
	if len(d.History) != 0 || d.DailyCount != 0 || d.Today != "2026-10-17" {
		t.Fatalf("unexpected defaults: %+v", d)
	}
	if d.History == nil {
		t.Fatalf("history should be an empty slice, not nil")
	}
}

func TestLoadCorruptFallsBack(t *testing.T) {
	kv := NewMemKV()
	_ = kv.Put(context.Background(), Key, []byte("{not json"))
	d := NewAdapter(kv, nil).Load(context.Background(), "2026-10-17")
	if len(d.History) != 0 || d.DailyCount != 0 {
		t.Fatalf("corrupt record should load defaults: %+v", d)
	}
}

func TestLoadResetsDailyCountOnNewDay(t *testing.T) {
	kv := NewMemKV()
	ad := NewAdapter(kv, nil)
	stored := Data{History: []Entry{{Date: "2026-10-16", Score: 18, Time: 70}}, DailyCount: 4, Today: "2026-10-16"}
	if err := ad.Save(context.Background(), stored); err != nil {
		t.Fatalf("save: %v", err)
	}

	same := ad.Load(context.Background(), "2026-10-16")
	if same.DailyCount != 4 {
		t.Fatalf("same day should keep count, got %d", same.DailyCount)
	}

	next := ad.Load(context.Background(), "2026-10-17")
	if next.DailyCount != 0 {
		t.Fatalf("new day should reset count, got %d", next.DailyCount)
	}
	if len(next.History) != 1 {
		t.Fatalf("history must survive the reset")
	}

	// 讀取不會改寫儲存區
	raw, _, _ := ad.Raw(context.Background())
	var onDisk Data
	_ = json.Unmarshal(raw, &onDisk)
	if onDisk.Today != "2026-10-16" || onDisk.DailyCount != 4 {
		t.Fatalf("load must not rewrite the store: %+v", onDisk)
	}
}

func TestPersistedShape(t *testing.T) {
	kv := NewMemKV()
	ad := NewAdapter(kv, nil)
	_ = ad.Save(context.Background(), Data{History: []Entry{{Date: "2026-10-17", Score: 20, Time: 75}}, DailyCount: 1, Today: "2026-10-17"})
	raw, ok, err := kv.Get(context.Background(), Key)
	if err != nil || !ok {
		t.Fatalf("get: %v %v", ok, err)
	}
	want := `{"history":[{"date":"2026-10-17","score":20,"time":75}],"dailyCount":1,"today":"2026-10-17"}`
	if string(raw) != want {
		t.Fatalf("shape mismatch:\n got %s\nwant %s", raw, want)
	}
}

func TestBookCompleteAppendsAndCaps(t *testing.T) {
	clk := &fakeClock{t: day("2026-10-17")}
	kv := NewMemKV()
	b := NewBook(NewAdapter(kv, nil), clk, 30, nil)
	b.Load(context.Background())

	for i := 0; i < 35; i++ {
		before := b.Len()
		e, err := b.Complete(context.Background(), i%21, i)
		if err != nil {
			t.Fatalf("complete: %v", err)
		}
		if e.Date != "2026-10-17" || e.Score != i%21 || e.Time != i {
			t.Fatalf("unexpected entry %+v", e)
		}
		if before < 30 && b.Len() != before+1 {
			t.Fatalf("expected exactly one new entry")
		}
		if b.Len() > 30 {
			t.Fatalf("history exceeded cap: %d", b.Len())
		}
	}
	if b.DailyCount() != 35 {
		t.Fatalf("daily count %d", b.DailyCount())
	}
	h := b.Snapshot().History
	if h[0].Time != 5 || h[len(h)-1].Time != 34 {
		t.Fatalf("oldest entries should be dropped first: first=%d last=%d", h[0].Time, h[len(h)-1].Time)
	}

	// 重新載入後資料一致
	b2 := NewBook(NewAdapter(kv, nil), clk, 30, nil)
	if got := b2.Load(context.Background()); len(got.History) != 30 || got.DailyCount != 35 {
		t.Fatalf("reload mismatch: %d %d", len(got.History), got.DailyCount)
	}
}

func TestBookRollsOverMidnight(t *testing.T) {
	clk := &fakeClock{t: day("2026-10-17")}
	b := NewBook(NewAdapter(NewMemKV(), nil), clk, 30, nil)
	b.Load(context.Background())
	_, _ = b.Complete(context.Background(), 10, 60)
	_, _ = b.Complete(context.Background(), 11, 60)

	clk.t = day("2026-10-18")
	e, _ := b.Complete(context.Background(), 12, 60)
	if e.Date != "2026-10-18" || b.DailyCount() != 1 || b.Today() != "2026-10-18" {
		t.Fatalf("expected rollover, got entry %+v count %d", e, b.DailyCount())
	}
	if b.Len() != 3 {
		t.Fatalf("history must be retained across days")
	}
}

func TestRecentAndLatest(t *testing.T) {
	clk := &fakeClock{t: day("2026-10-17")}
	b := NewBook(NewAdapter(NewMemKV(), nil), clk, 30, nil)
	for i := 1; i <= 12; i++ {
		_, _ = b.Complete(context.Background(), i, i)
	}
	r := b.Recent(7)
	if len(r) != 7 || r[0].Score != 6 || r[6].Score != 12 {
		t.Fatalf("recent wrong: %+v", r)
	}
	l := b.Latest(10)
	if len(l) != 10 || l[0].Score != 12 || l[9].Score != 3 {
		t.Fatalf("latest wrong: %+v", l)
	}
	if len(b.Recent(0)) != 0 || len(b.Recent(-1)) != 0 {
		t.Fatalf("non-positive windows should be empty")
	}
}

type brokenKV struct{ MemKV }

func (b *brokenKV) Put(context.Context, string, []byte) error { return errors.New("disk full") }

func TestCompleteSaveFailureIsWarn(t *testing.T) {
	clk := &fakeClock{t: day("2026-10-17")}
	b := NewBook(NewAdapter(&brokenKV{MemKV: MemKV{m: map[string][]byte{}}}, nil), clk, 30, nil)
	_, err := b.Complete(context.Background(), 15, 90)
	if errs.LevelOf(err) != errs.Warn {
		t.Fatalf("expected warn, got %v", err)
	}
	if b.DailyCount() != 1 || b.Len() != 1 {
		t.Fatalf("in-memory state should still advance")
	}
}

// flakyKV 前 failGets 次 Get 回傳錯誤
type flakyKV struct {
	MemKV
	failGets int
}

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failGets > 0 {
		f.failGets--
		return nil, false, errors.New("database is locked")
	}
	return f.MemKV.Get(ctx, key)
}

func TestReadErrorIsWarnButCorruptIsNot(t *testing.T) {
	kv := &flakyKV{MemKV: MemKV{m: map[string][]byte{}}, failGets: 1}
	ad := NewAdapter(kv, nil)
	d, err := ad.Read(context.Background(), "2026-10-17")
	if errs.LevelOf(err) != errs.Warn {
		t.Fatalf("read failure should be warn, got %v", err)
	}
	if len(d.History) != 0 || d.Today != "2026-10-17" {
		t.Fatalf("read failure should still return defaults: %+v", d)
	}

	_ = kv.Put(context.Background(), Key, []byte("{not json"))
	if _, err := ad.Read(context.Background(), "2026-10-17"); err != nil {
		t.Fatalf("corrupt record should fall back silently, got %v", err)
	}
}

func TestReloadReadErrorKeepsHistory(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{t: day("2026-10-17")}
	kv := &flakyKV{MemKV: MemKV{m: map[string][]byte{}}}
	b := NewBook(NewAdapter(kv, nil), clk, 30, nil)
	b.Load(ctx)
	for i := 0; i < 5; i++ {
		if _, err := b.Complete(ctx, 10+i, 60); err != nil {
			t.Fatalf("complete: %v", err)
		}
	}

	kv.failGets = 1
	if got := b.Load(ctx); len(got.History) != 5 || got.DailyCount != 5 {
		t.Fatalf("failed reload should keep in-memory record: %d %d", len(got.History), got.DailyCount)
	}
	if _, err := b.Complete(ctx, 20, 70); err != nil {
		t.Fatalf("complete after failed reload: %v", err)
	}

	fresh := NewBook(NewAdapter(kv, nil), clk, 30, nil)
	got := fresh.Load(ctx)
	if len(got.History) != 6 || got.DailyCount != 6 {
		t.Fatalf("persisted record lost history: %d entries, daily %d", len(got.History), got.DailyCount)
	}
}

func TestStartupReadErrorDoesNotOverwriteStore(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{t: day("2026-10-17")}
	kv := &flakyKV{MemKV: MemKV{m: map[string][]byte{}}}
	seed := NewBook(NewAdapter(kv, nil), clk, 30, nil)
	seed.Load(ctx)
	for i := 0; i < 3; i++ {
		_, _ = seed.Complete(ctx, 12, 50)
	}

	// 啟動時讀不到，Complete 時又讀不到：不寫回
	kv.failGets = 2
	b := NewBook(NewAdapter(kv, nil), clk, 30, nil)
	b.Load(ctx)
	if _, err := b.Complete(ctx, 20, 40); errs.LevelOf(err) != errs.Warn {
		t.Fatalf("unsynced book should not save, got %v", err)
	}
	if got := NewAdapter(kv, nil).Load(ctx, "2026-10-17"); len(got.History) != 3 {
		t.Fatalf("store overwritten: %d entries", len(got.History))
	}

	// 下一局讀得到了：接在儲存區的歷史後面
	if _, err := b.Complete(ctx, 18, 45); err != nil {
		t.Fatalf("complete: %v", err)
	}
	got := NewAdapter(kv, nil).Load(ctx, "2026-10-17")
	if len(got.History) != 4 || got.History[3].Score != 18 || got.DailyCount != 4 {
		t.Fatalf("unexpected record after resync: %+v", got)
	}
}

func TestFileKVRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	if _, ok, err := kv.Get(ctx, Key); ok || err != nil {
		t.Fatalf("missing key: %v %v", ok, err)
	}
	if err := kv.Put(ctx, Key, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kv.Put(ctx, Key, []byte(`{"a":2}`)); err != nil {
		t.Fatalf("put again: %v", err)
	}
	v, ok, err := kv.Get(ctx, Key)
	if err != nil || !ok || string(v) != `{"a":2}` {
		t.Fatalf("get: %s %v %v", v, ok, err)
	}
	ents, _ := os.ReadDir(dir)
	if len(ents) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(ents))
	}
	if err := kv.Put(ctx, "../escape", nil); err == nil {
		t.Fatalf("expected invalid key error")
	}
}

func TestSQLiteKVRoundTrip(t *testing.T) {
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "antigravity.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer kv.Close()
	ctx := context.Background()
	if _, ok, err := kv.Get(ctx, Key); ok || err != nil {
		t.Fatalf("missing key: %v %v", ok, err)
	}
	for _, v := range []string{"first", "second"} {
		if err := kv.Put(ctx, Key, []byte(v)); err != nil {
			t.Fatalf("put %s: %v", v, err)
		}
	}
	v, ok, err := kv.Get(ctx, Key)
	if err != nil || !ok || string(v) != "second" {
		t.Fatalf("get: %s %v %v", v, ok, err)
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	d := Data{History: []Entry{{Date: "2026-10-16", Score: 17, Time: 88}, {Date: "2026-10-17", Score: 20, Time: 75}}, DailyCount: 2, Today: "2026-10-17"}
	var buf bytes.Buffer
	if err := Export(&buf, d, day("2026-10-17")); err != nil {
		t.Fatalf("export: %v", err)
	}
	got, err := Import(&buf, 20)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(got.History) != 2 || got.History[1] != d.History[1] || got.DailyCount != 2 {
		t.Fatalf("mismatch: %+v", got)
	}
}

func TestArchiveRejectsBadInput(t *testing.T) {
	if _, err := Import(bytes.NewReader([]byte("plain text")), 20); errs.LevelOf(err) != errs.Warn {
		t.Fatalf("expected warn for garbage, got %v", err)
	}
	var buf bytes.Buffer
	bad := Data{History: []Entry{{Date: "2026-10-17", Score: 21, Time: 10}}}
	_ = Export(&buf, bad, day("2026-10-17"))
	if _, err := Import(&buf, 20); errs.LevelOf(err) != errs.Warn {
		t.Fatalf("expected warn for score out of range, got %v", err)
	}
}

func TestBookReplace(t *testing.T) {
	clk := &fakeClock{t: day("2026-10-17")}
	kv := NewMemKV()
	b := NewBook(NewAdapter(kv, nil), clk, 3, nil)
	d := Data{History: []Entry{{"2026-10-01", 1, 1}, {"2026-10-02", 2, 2}, {"2026-10-03", 3, 3}, {"2026-10-04", 4, 4}}, DailyCount: 3, Today: "2026-10-04"}
	if err := b.Replace(context.Background(), d); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if b.Len() != 3 || b.Recent(1)[0].Score != 4 {
		t.Fatalf("replace should cap to newest entries")
	}
	if b.DailyCount() != 0 || b.Today() != "2026-10-17" {
		t.Fatalf("stale import day should reset the count")
	}
}
