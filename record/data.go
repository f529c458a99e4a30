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

// Package record 持久化玩家的歷史紀錄與每日次數。
//
// 整份資料是一筆 JSON（history / dailyCount / today），存放在一個 key-value 儲存區的
// 固定 key 底下；每次寫入都是整筆覆蓋。儲存區可以是目錄下的 JSON 檔或 SQLite。
package record

import (
	"time"
)

// Key 儲存區內使用的固定 key
const Key = "antigravity_data"

// DayLayout 日期字串格式 YYYY-MM-DD
const DayLayout = "2006-01-02"

// Entry 一局完成後的紀錄，建立後不再修改。
type Entry struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
	Time  int    `json:"time"` // 秒
}

// Data 儲存區內的整筆資料。
type Data struct {
	History    []Entry `json:"history"`
	DailyCount int     `json:"dailyCount"`
	Today      string  `json:"today"`
}

// Clock 提供目前時間，測試與模擬器可替換。
type Clock interface {
	Now() time.Time
}

// Day 回傳 t 在本地時區的日期字串。
func Day(t time.Time) string {
	return t.Format(DayLayout)
}

// Default 空紀錄：沒有歷史、今日 0 次。
func Default(today string) Data {
	return Data{History: []Entry{}, DailyCount: 0, Today: today}
}

// Clone 深拷貝，避免呼叫端改到內部切片。
func (d Data) Clone() Data {
	out := d
	out.History = append([]Entry(nil), d.History...)
	if out.History == nil {
		out.History = []Entry{}
	}
	return out
}

// capHistory 只保留最近 n 筆（最舊的先丟）。
func capHistory(h []Entry, n int) []Entry {
	if n <= 0 || len(h) <= n {
		return h
	}
	return append([]Entry(nil), h[len(h)-n:]...)
}
