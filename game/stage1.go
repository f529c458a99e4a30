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
	"slices"

	"github.com/zintix-labs/antigravity/core"
	"github.com/zintix-labs/antigravity/spec"
)

// Puzzle 第一關的一題：給 Number，從 Options 中選出 Target（TargetSum - Number）。
type Puzzle struct {
	Number  int
	Target  int
	Options []int
}

// NewPuzzle 產生 n 的題目：一個正解加上不重複的錯誤選項，再打亂順序。
func NewPuzzle(c *core.Core, set *spec.Stage1Setting, n int) Puzzle {
	target := set.TargetSum - n
	opts := make([]int, 0, set.Options)
	opts = append(opts, target)
	for len(opts) < set.Options {
		v := c.IntRange(set.Numbers.Lo(), set.Numbers.Hi())
		if !slices.Contains(opts, v) {
			opts = append(opts, v)
		}
	}
	c.ShuffleInts(opts)
	return Puzzle{Number: n, Target: target, Options: opts}
}

// Answer 正解在 Options 中的位置
func (p Puzzle) Answer() int {
	return slices.Index(p.Options, p.Target)
}

type stage1Phase struct {
	seq      []int // 出題順序
	progress int   // 已解開的題數
	puzzle   Puzzle
	locked   bool
	wrong    int // 剛選錯的選項位置，-1 表示沒有
	solved   int // 剛選對的選項位置，-1 表示沒有
	mistakes int
}

func (*stage1Phase) screen() Screen { return ScreenStage1 }

// Stage1View 第一關畫面需要的資料
type Stage1View struct {
	Sequence []int
	Puzzle   Puzzle
	Progress int
	Total    int
	Locked   bool
	Wrong    int
	Solved   int
	Mistakes int
}

// Ratio 進度比例 0..1
func (v Stage1View) Ratio() float64 {
	if v.Total == 0 {
		return 0
	}
	return float64(v.Progress) / float64(v.Total)
}

func (p *stage1Phase) view() Stage1View {
	pz := p.puzzle
	pz.Options = slices.Clone(pz.Options)
	return Stage1View{
		Sequence: slices.Clone(p.seq),
		Puzzle:   pz,
		Progress: p.progress,
		Total:    len(p.seq),
		Locked:   p.locked,
		Wrong:    p.wrong,
		Solved:   p.solved,
		Mistakes: p.mistakes,
	}
}
