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

package stats

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/stat"
	"golang.org/x/text/message"
)

// SimReport 自動遊玩模擬報告
type SimReport struct {
	Summary *SimSummary   `json:"Summary" yaml:"Summary"`
	Dist    *ScoreDist    `json:"Dist" yaml:"Dist"`
	Stage1  *Stage1Report `json:"Stage1" yaml:"Stage1"`
	isDone  bool
}

// SimSummary 模擬總覽
type SimSummary struct {
	GameName     string  `json:"GameName" yaml:"GameName"`
	Seed         int64   `json:"Seed" yaml:"Seed"`
	BotAccuracy  float64 `json:"BotAccuracy" yaml:"BotAccuracy"`
	Questions    int     `json:"Questions" yaml:"Questions"`
	Sessions     int     `json:"Sessions" yaml:"Sessions"`
	Refused      int     `json:"Refused" yaml:"Refused"` // 每日上限擋下的次數
	MeanScore    float64 `json:"MeanScore" yaml:"MeanScore"`
	StdScore     float64 `json:"StdScore" yaml:"StdScore"`
	MeanAccuracy float64 `json:"MeanAccuracy" yaml:"MeanAccuracy"` // 百分比
	SecondsSum   int     `json:"SecondsSum" yaml:"SecondsSum"`
	SecondsSqSum int     `json:"SecondsSqSum" yaml:"SecondsSqSum"` // 平方和
	MeanSeconds  float64 `json:"MeanSeconds" yaml:"MeanSeconds"`
	StdSeconds   float64 `json:"StdSeconds" yaml:"StdSeconds"`
	BestScore    int     `json:"BestScore" yaml:"BestScore"`
	Rewards      int     `json:"Rewards" yaml:"Rewards"`
	RewardRate   float64 `json:"RewardRate" yaml:"RewardRate"`
}

// ScoreDist 分數落點，Count[i] 為得到 i 分的局數。
type ScoreDist struct {
	Count []int     `json:"Count" yaml:"Count"`
	Ratio []float64 `json:"Ratio" yaml:"Ratio"`
}

// Stage1Report 配對關卡統計
type Stage1Report struct {
	Puzzles      int     `json:"Puzzles" yaml:"Puzzles"`
	Mistakes     int     `json:"Mistakes" yaml:"Mistakes"`
	MeanMistakes float64 `json:"MeanMistakes" yaml:"MeanMistakes"` // 每局平均
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 由累積計數算出平均、標準差與比例，只計算一次。
func (s *SimReport) Done() {
	if s.isDone {
		return
	}
	n := s.Summary.Sessions
	if n > 0 {
		s.Summary.MeanScore, s.Summary.StdScore = s.scoreMoments()
		if s.Summary.Questions > 0 {
			s.Summary.MeanAccuracy = 100 * s.Summary.MeanScore / float64(s.Summary.Questions)
		}
		s.Summary.MeanSeconds = float64(s.Summary.SecondsSum) / float64(n)
		s.Summary.StdSeconds = s.stdSeconds()
		s.Summary.RewardRate = float64(s.Summary.Rewards) / float64(n)
		s.Stage1.MeanMistakes = float64(s.Stage1.Mistakes) / float64(n)
	}
	s.Dist.Ratio = make([]float64, len(s.Dist.Count))
	for i, c := range s.Dist.Count {
		if n > 0 {
			s.Dist.Ratio[i] = float64(c) / float64(n)
		}
	}
	s.isDone = true
}

func (s *SimReport) WriteWith(w io.Writer, rep SimReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

// Render 輸出表格形式的報告
func (s *SimReport) Render() string {
	s.Done()
	keys, msg := s.fmtBasic()
	return Table(s.Summary.GameName, keys, msg)
}

// ============================================================
// ** 內部方法 **
// ============================================================

// scoreMoments 以分數落點為權重計算平均與標準差
func (s *SimReport) scoreMoments() (float64, float64) {
	x := make([]float64, len(s.Dist.Count))
	wt := make([]float64, len(s.Dist.Count))
	for i, c := range s.Dist.Count {
		x[i] = float64(i)
		wt[i] = float64(c)
	}
	if s.Summary.Sessions < 2 {
		return stat.Mean(x, wt), 0
	}
	m, sd := stat.MeanStdDev(x, wt)
	if math.IsNaN(sd) {
		sd = 0
	}
	return m, sd
}

func (s *SimReport) stdSeconds() float64 {
	n := float64(s.Summary.Sessions)
	if n < 2 {
		return 0
	}
	sum := float64(s.Summary.SecondsSum)
	variance := (float64(s.Summary.SecondsSqSum) - sum*sum/n) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

func (s *SimReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	basic := map[string]string{
		"Game Name":     s.Summary.GameName,
		"Seed":          fmt.Sprintf("%d", s.Summary.Seed),
		"Bot Accuracy":  p.Sprintf("%.2f %%", 100.0*s.Summary.BotAccuracy),
		"Sessions":      p.Sprintf("%d", s.Summary.Sessions),
		"Refused":       p.Sprintf("%d", s.Summary.Refused),
		"Mean Score":    p.Sprintf("%.3f / %d", s.Summary.MeanScore, s.Summary.Questions),
		"Score STD":     p.Sprintf("%.3f", s.Summary.StdScore),
		"Mean Accuracy": p.Sprintf("%.2f %%", s.Summary.MeanAccuracy),
		"Best Score":    p.Sprintf("%d", s.Summary.BestScore),
		"Mean Time":     p.Sprintf("%.1f s", s.Summary.MeanSeconds),
		"Time STD":      p.Sprintf("%.1f s", s.Summary.StdSeconds),
		"Stage1 Miss":   p.Sprintf("%.3f / session", s.Stage1.MeanMistakes),
		"Reward Rate":   p.Sprintf("%.2f %%", 100.0*s.Summary.RewardRate),
	}
	keys := []string{"Game Name", "Seed", "Bot Accuracy", "Sessions", "Refused", "Mean Score", "Score STD", "Mean Accuracy", "Best Score", "Mean Time", "Time STD", "Stage1 Miss", "Reward Rate"}
	return keys, basic
}
