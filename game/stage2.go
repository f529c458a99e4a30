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
	"strconv"
	"strings"
	"time"

	"github.com/zintix-labs/antigravity/core"
	"github.com/zintix-labs/antigravity/errs"
	"github.com/zintix-labs/antigravity/spec"
)

// Op 運算種類
type Op uint8

const (
	OpAdd Op = iota
	OpSub
)

func (o Op) Symbol() string {
	if o == OpSub {
		return "-"
	}
	return "+"
}

// Question 第二關的一題，Number 從 1 開始。
type Question struct {
	Number int
	A, B   int
	Op     Op
	Answer int
}

// Text 題目文字，例如 "12 + 7 = ?"
func (q Question) Text() string {
	return fmt.Sprintf("%d %s %d = ?", q.A, q.Op.Symbol(), q.B)
}

// NewQuestion 產生第 number 題。
//
// 前 Addition.Count 題是加法；之後是減法，兩個運算元大的放前面，答案不會是負數。
func NewQuestion(c *core.Core, set *spec.Stage2Setting, number int) Question {
	if number <= set.Addition.Count {
		a := c.IntRange(set.Addition.First.Lo(), set.Addition.First.Hi())
		b := c.IntRange(set.Addition.Second.Lo(), set.Addition.Second.Hi())
		return Question{Number: number, A: a, B: b, Op: OpAdd, Answer: a + b}
	}
	a := c.IntRange(set.Subtraction.First.Lo(), set.Subtraction.First.Hi())
	b := c.IntRange(set.Subtraction.Second.Lo(), set.Subtraction.Second.Hi())
	if a < b {
		a, b = b, a
	}
	return Question{Number: number, A: a, B: b, Op: OpSub, Answer: a - b}
}

// ParseAnswer 去掉前後空白後必須是整數，否則回傳 ErrNotNumber。
func ParseAnswer(input string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, errs.NewWithExtra(errs.Log, ErrNotNumber.Message, fmt.Sprintf("input=%q", input))
	}
	return v, nil
}

type stage2Phase struct {
	total     int
	progress  int // 已結束的題數（答對或公布答案）
	score     int
	chances   int
	question  Question
	locked    bool
	revealed  bool
	startedAt time.Time
	elapsed   int // 秒，只給畫面顯示
	mistakes1 int // 第一關的選錯次數，帶到結算
}

func (*stage2Phase) screen() Screen { return ScreenStage2 }

// Stage2View 第二關畫面需要的資料
type Stage2View struct {
	Question   Question
	Progress   int
	Total      int
	Score      int
	Chances    int
	MaxChances int
	Elapsed    int
	Locked     bool
	Revealed   bool
}

func (v Stage2View) Ratio() float64 {
	if v.Total == 0 {
		return 0
	}
	return float64(v.Progress) / float64(v.Total)
}

func (p *stage2Phase) view(maxChances int) Stage2View {
	return Stage2View{
		Question:   p.question,
		Progress:   p.progress,
		Total:      p.total,
		Score:      p.score,
		Chances:    p.chances,
		MaxChances: maxChances,
		Elapsed:    p.elapsed,
		Locked:     p.locked,
		Revealed:   p.revealed,
	}
}
