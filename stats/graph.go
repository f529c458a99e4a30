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
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/antigravity/record"
)

// Placeholder 沒有任何紀錄時顯示的文字
const Placeholder = "아직 기록이 없습니다"

// Bar 成長圖的一列
type Bar struct {
	Date  string  // MM-DD
	Score int     //
	Ratio float64 // score/total，0..1
	Clock string  // m:ss
}

// Row 紀錄清單的一列
type Row struct {
	Date  string
	Score int
	Total int
	Clock string
}

// Graph 取最近 window 筆（由舊到新）轉成長條資料。
func Graph(history []record.Entry, window, total int) []Bar {
	recent := tail(history, window)
	out := make([]Bar, 0, len(recent))
	for _, e := range recent {
		ratio := 0.0
		if total > 0 {
			ratio = min(max(float64(e.Score)/float64(total), 0), 1)
		}
		out = append(out, Bar{Date: shortDate(e.Date), Score: e.Score, Ratio: ratio, Clock: FormatClock(e.Time)})
	}
	return out
}

// RenderGraph 把長條資料畫成文字，width 是長條的最大格數。
//
// 沒有資料時只輸出 Placeholder。
func RenderGraph(bars []Bar, width int) string {
	if len(bars) == 0 {
		return Placeholder + "\n"
	}
	if width < 1 {
		width = 20
	}
	dateW := 0
	for _, b := range bars {
		dateW = max(dateW, runewidth.StringWidth(b.Date))
	}
	var sb strings.Builder
	for _, b := range bars {
		n := int(b.Ratio*float64(width) + 0.5)
		bar := strings.Repeat("█", n) + strings.Repeat("░", width-n)
		fmt.Fprintf(&sb, "%s | %s %2d | %s\n", runewidth.FillRight(b.Date, dateW), bar, b.Score, b.Clock)
	}
	return sb.String()
}

// List 最近 n 筆，由新到舊。
func List(history []record.Entry, n, total int) []Row {
	recent := tail(history, n)
	out := make([]Row, 0, len(recent))
	for _, e := range recent {
		out = append(out, Row{Date: e.Date, Score: e.Score, Total: total, Clock: FormatClock(e.Time)})
	}
	slices.Reverse(out)
	return out
}

// RenderList 把紀錄清單畫成文字。
func RenderList(rows []Row) string {
	if len(rows) == 0 {
		return Placeholder + "\n"
	}
	var sb strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&sb, "%s  ⭐ %d/%d  ⏱️ %s\n", r.Date, r.Score, r.Total, r.Clock)
	}
	return sb.String()
}

func tail(h []record.Entry, n int) []record.Entry {
	if n <= 0 {
		return nil
	}
	if len(h) > n {
		return h[len(h)-n:]
	}
	return h
}

// shortDate YYYY-MM-DD -> MM-DD
func shortDate(d string) string {
	if len(d) > 5 {
		return d[5:]
	}
	return d
}
