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

package game

import (
	"fmt"

	"github.com/zintix-labs/antigravity/catalog"
	"github.com/zintix-labs/antigravity/record"
	"github.com/zintix-labs/antigravity/stats"
)

// Player 玩家名稱與角色
type Player struct {
	Name      string
	Character catalog.Entry
}

// Label 例如 "🚀 우주비행사님"
func (p Player) Label() string {
	return fmt.Sprintf("%s %s님", p.Character.Token, p.Name)
}

// Result 一局結束後的結算
type Result struct {
	RunID      string
	Player     Player
	Entry      record.Entry
	Score      int
	Total      int
	Seconds    int
	Accuracy   int // 百分比
	Mistakes1  int // 第一關選錯次數
	DailyCount int
	DailyLimit int
	Reward     bool
	Title      string
	Fortune    string
	SaveErr    error // 寫回紀錄失敗時不為 nil，本局結果照常顯示
	Graph      []stats.Bar
}

func (r Result) ScoreText() string { return fmt.Sprintf("%d/%d", r.Score, r.Total) }

func (r Result) Clock() string { return stats.FormatClock(r.Seconds) }

func (r Result) AccuracyText() string { return fmt.Sprintf("%d%%", r.Accuracy) }

// DailyText 例如 "오늘 3회 도전 (최대 5회)"；沒有上限時不顯示最大值。
func (r Result) DailyText() string {
	if r.DailyLimit <= 0 {
		return fmt.Sprintf("오늘 %d회 도전", r.DailyCount)
	}
	return fmt.Sprintf("오늘 %d회 도전 (최대 %d회)", r.DailyCount, r.DailyLimit)
}

type resultPhase struct {
	res Result
}

func (*resultPhase) screen() Screen { return ScreenResult }

// HistoryView 紀錄畫面：成長圖、最近清單與彙總。
type HistoryView struct {
	History []record.Entry
	Graph   []stats.Bar
	List    []stats.Row
	Summary stats.Summary
}

type historyPhase struct {
	view HistoryView
}

func (*historyPhase) screen() Screen { return ScreenHistory }

type startPhase struct{}

func (startPhase) screen() Screen { return ScreenStart }

type phase interface {
	screen() Screen
}
