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
	"context"
	"log/slog"
	"slices"

	"github.com/zintix-labs/antigravity/errs"
)

// Book 記憶體中的紀錄簿：啟動時與進入紀錄畫面時載入，每局結束時寫回一次。
type Book struct {
	ad    *Adapter
	clock Clock
	cap   int
	data  Data
	stale bool // 最近一次讀取儲存區失敗，data 可能不是儲存區的內容
	log   *slog.Logger
}

// NewBook 建立紀錄簿，historyCap 為保存上限（<=0 表示不限制）。尚未載入，請呼叫 Load。
func NewBook(ad *Adapter, clock Clock, historyCap int, log *slog.Logger) *Book {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	b := &Book{ad: ad, clock: clock, cap: historyCap, log: log}
	b.data = Default(Day(clock.Now()))
	return b
}

// Load 從儲存區重新載入。
//
// 讀取失敗時保留記憶體中的資料（只處理換日），下一次 Complete 寫回前會再讀一次。
func (b *Book) Load(ctx context.Context) Data {
	today := Day(b.clock.Now())
	d, err := b.ad.Read(ctx, today)
	if err != nil {
		b.log.Warn("record reload failed, keeping in-memory copy", "err", err, "entries", len(b.data.History))
		b.stale = true
		b.rollover(today)
		return b.data.Clone()
	}
	b.data = d
	b.stale = false
	return b.data.Clone()
}

// Complete 記錄一局：新增一筆、裁切到上限、今日次數 +1，並整筆寫回。
//
// 寫回失敗時記憶體內的狀態仍然更新（本局結果照常顯示），回傳 Warn 等級錯誤。
func (b *Book) Complete(ctx context.Context, score, seconds int) (Entry, error) {
	today := Day(b.clock.Now())
	if b.stale {
		// 上次沒讀到儲存區，先補讀，避免整筆寫回時蓋掉儲存區裡的歷史
		d, err := b.ad.Read(ctx, today)
		if err != nil {
			return b.appendEntry(today, score, seconds), errs.WrapAs(errs.Warn, err, "record not saved")
		}
		b.data = d
		b.stale = false
	}
	e := b.appendEntry(today, score, seconds)
	if err := b.ad.Save(ctx, b.data); err != nil {
		b.log.Warn("record save failed", "err", err)
		return e, errs.WrapAs(errs.Warn, err, "record not saved")
	}
	return e, nil
}

func (b *Book) rollover(today string) {
	if b.data.Today != today {
		b.data.DailyCount = 0
		b.data.Today = today
	}
}

func (b *Book) appendEntry(today string, score, seconds int) Entry {
	// 跨過午夜仍在遊戲中
	b.rollover(today)
	if seconds < 0 {
		seconds = 0
	}
	e := Entry{Date: today, Score: score, Time: seconds}
	b.data.History = capHistory(append(b.data.History, e), b.cap)
	b.data.DailyCount++
	return e
}

// Replace 以整筆資料取代（匯入用），會依上限裁切後寫回。
func (b *Book) Replace(ctx context.Context, d Data) error {
	d = d.Clone()
	d.History = capHistory(d.History, b.cap)
	if today := Day(b.clock.Now()); d.Today != today {
		d.DailyCount = 0
		d.Today = today
	}
	if err := b.ad.Save(ctx, d); err != nil {
		return err
	}
	b.data = d
	b.stale = false
	return nil
}

func (b *Book) DailyCount() int { return b.data.DailyCount }

// CountOn 回傳 day 當天已完成的局數；紀錄簿的日期不是 day 時為 0。
func (b *Book) CountOn(day string) int {
	if b.data.Today != day {
		return 0
	}
	return b.data.DailyCount
}

func (b *Book) Today() string { return b.data.Today }

func (b *Book) Len() int { return len(b.data.History) }

// Snapshot 目前資料的拷貝
func (b *Book) Snapshot() Data { return b.data.Clone() }

// Recent 最近 n 筆，依時間由舊到新。
func (b *Book) Recent(n int) []Entry {
	h := b.data.History
	if n < 0 {
		n = 0
	}
	if n < len(h) {
		h = h[len(h)-n:]
	}
	return append([]Entry(nil), h...)
}

// Latest 最近 n 筆，依時間由新到舊。
func (b *Book) Latest(n int) []Entry {
	out := b.Recent(n)
	slices.Reverse(out)
	return out
}
