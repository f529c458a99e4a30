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
	"encoding/json"
	"log/slog"

	"github.com/zintix-labs/antigravity/errs"
)

// Adapter 把 Data 讀寫到 KV 的固定 key。
//
// 沒有資料或 JSON 壞掉時回傳預設值並記錄警告；儲存區讀取失敗則交給 Read 的呼叫端決定。
type Adapter struct {
	kv  KV
	log *slog.Logger
}

func NewAdapter(kv KV, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Adapter{kv: kv, log: log}
}

// Load 讀取整筆資料，任何問題都以預設值代替。
func (a *Adapter) Load(ctx context.Context, today string) Data {
	d, _ := a.Read(ctx, today)
	return d
}

// Read 讀取整筆資料。
//
// 儲存的 today 與傳入的 today 不同時，dailyCount 歸零；歷史紀錄一律保留。
// 回傳值的 Today 是目前日期，儲存區裡的舊日期要等下一次 Save 才會被覆寫。
//
// 沒有資料或內容壞掉時回傳預設值與 nil；儲存區讀取失敗（例如資料庫被鎖住）時
// 回傳預設值與 Warn 等級錯誤，呼叫端手上若已有資料應該保留，不要拿預設值蓋掉。
func (a *Adapter) Read(ctx context.Context, today string) (Data, error) {
	raw, ok, err := a.kv.Get(ctx, Key)
	if err != nil {
		a.log.Warn("record read failed", "err", err)
		return Default(today), errs.WrapAs(errs.Warn, err, "read record")
	}
	if !ok {
		return Default(today), nil
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		a.log.Warn("record corrupt, using defaults", "err", err, "bytes", len(raw))
		return Default(today), nil
	}
	if d.History == nil {
		d.History = []Entry{}
	}
	if d.DailyCount < 0 {
		d.DailyCount = 0
	}
	if d.Today != today {
		a.log.Debug("new day, daily count reset", "stored", d.Today, "today", today)
		d.DailyCount = 0
	}
	d.Today = today
	return d, nil
}

// Save 序列化後整筆覆蓋。
func (a *Adapter) Save(ctx context.Context, d Data) error {
	if d.History == nil {
		d.History = []Entry{}
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return errs.Wrap(err, "marshal record")
	}
	if err := a.kv.Put(ctx, Key, raw); err != nil {
		return errs.Wrap(err, "save record")
	}
	return nil
}

// Raw 回傳儲存區內的原始內容（不做任何修正），給除錯與匯出使用。
func (a *Adapter) Raw(ctx context.Context) ([]byte, bool, error) {
	return a.kv.Get(ctx, Key)
}
