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
	"math"
	"time"

	"github.com/zintix-labs/antigravity/record"
	"gonum.org/v1/gonum/stat"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// FormatClock 秒數轉成 m:ss，負數視為 0。
func FormatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Accuracy 回傳 round(score/total*100)，total<=0 時為 0。
func Accuracy(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// Summary 歷史紀錄的彙總數字
type Summary struct {
	Count       int     `json:"Count" yaml:"Count"`
	MeanScore   float64 `json:"MeanScore" yaml:"MeanScore"`
	StdScore    float64 `json:"StdScore" yaml:"StdScore"`
	MeanSeconds float64 `json:"MeanSeconds" yaml:"MeanSeconds"`
	BestScore   int     `json:"BestScore" yaml:"BestScore"`
	BestSeconds int     `json:"BestSeconds" yaml:"BestSeconds"` // 最高分那幾局中最快的一局
}

// Aggregate 計算歷史紀錄的平均、標準差與最佳成績。
//
// 少於兩筆時標準差為 0。
func Aggregate(history []record.Entry) Summary {
	out := Summary{Count: len(history)}
	if len(history) == 0 {
		return out
	}
	scores := make([]float64, len(history))
	secs := make([]float64, len(history))
	out.BestScore = -1
	for i, e := range history {
		scores[i] = float64(e.Score)
		secs[i] = float64(e.Time)
		if e.Score > out.BestScore || (e.Score == out.BestScore && e.Time < out.BestSeconds) {
			out.BestScore = e.Score
			out.BestSeconds = e.Time
		}
	}
	out.MeanScore, out.StdScore = meanStd(scores)
	out.MeanSeconds = stat.Mean(secs, nil)
	return out
}

func meanStd(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	if len(x) == 1 {
		return x[0], 0
	}
	m, s := stat.MeanStdDev(x, nil)
	if math.IsNaN(s) {
		s = 0
	}
	return m, s
}

// FormatElapsed 模擬器跑完後輸出耗時與每秒局數。
func FormatElapsed(d time.Duration, sessions int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	sps := int(float64(sessions) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nsps : %d sessions/sec\n", sec, sps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nsps : %d sessions/sec\n", m, s, sps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nsps : %d sessions/sec\n", h, m, s, sps)
}
