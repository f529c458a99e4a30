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

package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/zintix-labs/antigravity/game"
	"github.com/zintix-labs/antigravity/stats"
)

const (
	appTitle   = "🚀 안티그래비티 연산 우주 🚀"
	graphWidth = 20
)

func (m *Model) View() string {
	var body string
	switch m.sess.Screen() {
	case game.ScreenStart:
		body = m.viewStart()
	case game.ScreenStage1:
		body = m.viewStage1()
	case game.ScreenStage2:
		body = m.viewStage2()
	case game.ScreenResult:
		body = m.viewResult()
	case game.ScreenHistory:
		body = m.viewHistory()
	}
	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(appTitle), "", body))
}

func (m *Model) viewStart() string {
	var b strings.Builder
	b.WriteString(headStyle.Render("이름") + "\n")
	b.WriteString(m.name.View() + "\n\n")
	b.WriteString(headStyle.Render("캐릭터") + "\n")
	cur := m.sess.Character().Index
	for _, c := range m.sess.Characters() {
		if c.Index == cur {
			b.WriteString("  " + pickStyle.Render("▸ "+c.Label()) + "\n")
			continue
		}
		b.WriteString("    " + c.Label() + "\n")
	}
	b.WriteString("\n" + dimStyle.Render(dailyText(m.sess.DailyCount(), m.sess.Setting().Daily.Limit)) + "\n")
	if fb := feedbackView(m.sess.Feedback()); fb != "" {
		b.WriteString("\n" + fb + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("Enter 시작 · ↑/↓ 캐릭터 · Ctrl+R 기록 · Ctrl+C 종료"))
	return b.String()
}

func (m *Model) viewStage1() string {
	v, ok := m.sess.Stage1()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(headStyle.Render("🔋 [1단계] 에너지 코어 충전") + "\n")
	b.WriteString(m.bar.ViewAs(v.Ratio()) + " " + fmt.Sprintf("%d/%d", v.Progress, v.Total) + "\n\n")
	b.WriteString(fmt.Sprintf("   %d + ? = %d\n\n", v.Puzzle.Number, m.sess.Setting().Stage1.TargetSum))

	opts := make([]string, 0, len(v.Puzzle.Options))
	for i, o := range v.Puzzle.Options {
		label := strconv.Itoa(i+1) + ". " + strconv.Itoa(o)
		switch {
		case i == v.Solved:
			opts = append(opts, rightStyle.Render(label))
		case i == v.Wrong:
			opts = append(opts, wrongStyle.Render(label))
		case i == m.cursor:
			opts = append(opts, cursorStyle.Render(label))
		default:
			opts = append(opts, optionStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, opts...) + "\n")
	if fb := feedbackView(m.sess.Feedback()); fb != "" {
		b.WriteString("\n" + fb + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("1-4 선택 · ←/→ + Enter · Esc 처음으로"))
	return b.String()
}

func (m *Model) viewStage2() string {
	v, ok := m.sess.Stage2()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(headStyle.Render("⚡ [2단계] 연산 게임"))
	b.WriteString(fmt.Sprintf("   ⏱️ %s   ⭐ %d\n", stats.FormatClock(v.Elapsed), v.Score))
	b.WriteString(m.bar.ViewAs(v.Ratio()) + " " + fmt.Sprintf("%d/%d", v.Progress, v.Total) + "\n\n")
	b.WriteString(fmt.Sprintf("   %d번: %s = ?\n", v.Question.Number, v.Question.Text()))
	b.WriteString("   " + strings.Repeat("❤️", v.Chances) + strings.Repeat("🖤", max(v.MaxChances-v.Chances, 0)) + "\n\n")
	b.WriteString(m.answer.View() + "\n")
	if fb := feedbackView(m.sess.Feedback()); fb != "" {
		b.WriteString("\n" + fb + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("숫자 입력 후 Enter · Esc 처음으로"))
	return b.String()
}

func (m *Model) viewResult() string {
	r, ok := m.sess.Result()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(headStyle.Render("🎉 미션 완료!") + "\n")
	b.WriteString(r.Player.Label() + "\n\n")
	b.WriteString(fmt.Sprintf("점수 %s   시간 %s   정확도 %s\n", r.ScoreText(), r.Clock(), r.AccuracyText()))
	b.WriteString(dimStyle.Render(r.DailyText()) + "\n")
	if r.SaveErr != nil {
		b.WriteString(warnStyle.Render("기록을 저장하지 못했어요") + "\n")
	}
	b.WriteString("\n" + headStyle.Render("📈 성장 그래프") + "\n")
	b.WriteString(strings.TrimRight(stats.RenderGraph(r.Graph, graphWidth), "\n") + "\n")
	if r.Reward {
		b.WriteString("\n" + rewardStyle.Render("🏆 "+r.Title) + "\n")
		b.WriteString(r.Fortune + "\n")
	}
	if fb := feedbackView(m.sess.Feedback()); fb != "" {
		b.WriteString("\n" + fb + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("r 다시 도전 · h 기록 · Enter 처음으로"))
	return b.String()
}

func (m *Model) viewHistory() string {
	h, ok := m.sess.History()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(headStyle.Render("📈 성장 그래프") + "\n")
	b.WriteString(strings.TrimRight(stats.RenderGraph(h.Graph, graphWidth), "\n") + "\n\n")
	b.WriteString(headStyle.Render("📜 최근 기록") + "\n")
	b.WriteString(strings.TrimRight(stats.RenderList(h.List), "\n") + "\n")
	if h.Summary.Count > 0 {
		s := h.Summary
		b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("총 %d회 · 평균 %.1f점 (±%.1f) · 평균 %s · 최고 %d점 %s",
			s.Count, s.MeanScore, s.StdScore, stats.FormatClock(int(s.MeanSeconds+0.5)), s.BestScore, stats.FormatClock(s.BestSeconds))) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("Esc/b 돌아가기"))
	return b.String()
}

func dailyText(count, limit int) string {
	if limit <= 0 {
		return fmt.Sprintf("오늘 %d회 도전", count)
	}
	return fmt.Sprintf("오늘 %d회 도전 (최대 %d회)", count, limit)
}
