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

// Package recorder 累積模擬器每一局的結果，最後整理成 stats.SimReport。
package recorder

import (
	"fmt"

	"github.com/zintix-labs/antigravity/errs"
	"github.com/zintix-labs/antigravity/game"
	"github.com/zintix-labs/antigravity/spec"
	"github.com/zintix-labs/antigravity/stats"
)

// SessionRecorder 遊戲紀錄員
//
// 紀錄時只累加 int，Done 時才一次換算成平均與比例。
type SessionRecorder struct {
	GameName  string
	Seed      int64
	Accuracy  float64 // 機器人答對機率
	Questions int     // 第二關題數（滿分）
	Puzzles   int     // 第一關題數
	Basic     *BasicRecord
	Dist      *DistRecord
}

// BasicRecord 基本紀錄
type BasicRecord struct {
	Sessions     int
	Refused      int
	SecondsSum   int
	SecondsSqSum int // 平方和
	BestScore    int
	Rewards      int
	Mistakes1    int
}

// DistRecord 分數落點，ScoreCollect[i] 為得 i 分的局數。
type DistRecord struct {
	ScoreCollect []int
}

func NewSessionRecorder(gs *spec.GameSetting, seed int64, accuracy float64) (*SessionRecorder, error) {
	if gs == nil {
		return nil, errs.NewFatal("recorder: game setting required")
	}
	if accuracy < 0 || accuracy > 1 {
		return nil, errs.NewFatal(fmt.Sprintf("recorder: accuracy must be in [0,1], got %v", accuracy))
	}
	q := gs.Stage2.Total()
	return &SessionRecorder{
		GameName:  gs.GameName,
		Seed:      seed,
		Accuracy:  accuracy,
		Questions: q,
		Puzzles:   gs.Stage1.Puzzles(),
		Basic:     new(BasicRecord),
		Dist:      &DistRecord{ScoreCollect: make([]int, q+1)},
	}, nil
}

// Merge 合併多份紀錄（同一份設定），Seed 與 Accuracy 取第一份。
func Merge(r []*SessionRecorder) (*SessionRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge session record err : empty input")
	}
	r0 := r[0]
	s := &SessionRecorder{
		GameName:  r0.GameName,
		Seed:      r0.Seed,
		Accuracy:  r0.Accuracy,
		Questions: r0.Questions,
		Puzzles:   r0.Puzzles,
		Basic:     new(BasicRecord),
		Dist:      &DistRecord{ScoreCollect: make([]int, r0.Questions+1)},
	}
	for _, v := range r {
		if v.GameName != r0.GameName || v.Questions != r0.Questions || v.Puzzles != r0.Puzzles {
			return nil, errs.NewFatal("merge session record err : different game setting")
		}
		s.Basic.Sessions += v.Basic.Sessions
		s.Basic.Refused += v.Basic.Refused
		s.Basic.SecondsSum += v.Basic.SecondsSum
		s.Basic.SecondsSqSum += v.Basic.SecondsSqSum
		s.Basic.Rewards += v.Basic.Rewards
		s.Basic.Mistakes1 += v.Basic.Mistakes1
		s.Basic.BestScore = max(s.Basic.BestScore, v.Basic.BestScore)
		for i, c := range v.Dist.ScoreCollect {
			s.Dist.ScoreCollect[i] += c
		}
	}
	return s, nil
}

// Record 紀錄一局的結算；分數或秒數不合理時回傳 Fatal。
func (s *SessionRecorder) Record(r game.Result) error {
	if r.Score < 0 || r.Score > s.Questions {
		return errs.NewWithExtra(errs.Fatal, "recorder: score out of range", fmt.Sprintf("score=%d max=%d", r.Score, s.Questions))
	}
	if r.Seconds < 0 {
		return errs.NewWithExtra(errs.Fatal, "recorder: negative seconds", fmt.Sprintf("seconds=%d", r.Seconds))
	}
	s.Basic.Sessions++
	s.Basic.SecondsSum += r.Seconds
	s.Basic.SecondsSqSum += r.Seconds * r.Seconds
	s.Basic.BestScore = max(s.Basic.BestScore, r.Score)
	s.Basic.Mistakes1 += r.Mistakes1
	if r.Reward {
		s.Basic.Rewards++
	}
	s.Dist.ScoreCollect[r.Score]++
	return nil
}

// Refuse 紀錄一次被每日上限擋下的開始。
func (s *SessionRecorder) Refuse() {
	s.Basic.Refused++
}

// Done 轉成報告並完成統計
func (s *SessionRecorder) Done() *stats.SimReport {
	report := &stats.SimReport{
		Summary: &stats.SimSummary{
			GameName:     s.GameName,
			Seed:         s.Seed,
			BotAccuracy:  s.Accuracy,
			Questions:    s.Questions,
			Sessions:     s.Basic.Sessions,
			Refused:      s.Basic.Refused,
			SecondsSum:   s.Basic.SecondsSum,
			SecondsSqSum: s.Basic.SecondsSqSum,
			BestScore:    s.Basic.BestScore,
			Rewards:      s.Basic.Rewards,
		},
		Dist: &stats.ScoreDist{
			Count: append([]int(nil), s.Dist.ScoreCollect...),
		},
		Stage1: &stats.Stage1Report{
			Puzzles:  s.Puzzles * s.Basic.Sessions,
			Mistakes: s.Basic.Mistakes1,
		},
	}
	report.Done()
	return report
}
