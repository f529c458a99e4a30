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
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zintix-labs/antigravity/catalog"
	"github.com/zintix-labs/antigravity/configs"
	"github.com/zintix-labs/antigravity/core"
	"github.com/zintix-labs/antigravity/game"
	"github.com/zintix-labs/antigravity/record"
	"github.com/zintix-labs/antigravity/spec"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newModel(t *testing.T) (*Model, *game.Session, *[]game.Player) {
	t.Helper()
	gs, err := spec.Load(configs.FS, configs.Default)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	cat, err := catalog.New(gs.Characters)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	clk := &fakeClock{t: time.Date(2026, 10, 17, 9, 0, 0, 0, time.Local)}
	book := record.NewBook(record.NewAdapter(record.NewMemKV(), nil), clk, gs.Record.HistoryCap, nil)
	book.Load(context.Background())
	sess, err := game.NewSession(game.Config{
		Setting: gs,
		Catalog: cat,
		Book:    book,
		Core:    core.New(core.Default().New(7)),
		Clock:   clk,
	})
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	started := &[]game.Player{}
	m := New(context.Background(), sess, nil, func(p game.Player) { *started = append(*started, p) })
	return m, sess, started
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

// solveStage1 依序選出正解並送出到期的動作，直到進入第二關。
func solveStage1(t *testing.T, m *Model, sess *game.Session) {
	t.Helper()
	for i := 0; i < 20 && sess.Screen() == game.ScreenStage1; i++ {
		v, _ := sess.Stage1()
		send(m, key(strconv.Itoa(v.Puzzle.Answer()+1)))
		send(m, taskMsg{Kind: game.TaskStage1Advance, Epoch: sess.Epoch()})
	}
	if sess.Screen() != game.ScreenStage2 {
		t.Fatalf("expected stage2, got %s", sess.Screen())
	}
}

func TestStartScreenKeys(t *testing.T) {
	m, sess, started := newModel(t)
	if !strings.Contains(m.View(), "용감한 우주비행사") {
		t.Fatalf("start view missing character list:\n%s", m.View())
	}

	send(m, key("민지"), key("down"))
	if sess.Name() != "민지" {
		t.Fatalf("name = %q", sess.Name())
	}
	if sess.Character().Index != 1 {
		t.Fatalf("character = %d", sess.Character().Index)
	}
	send(m, key("up"), key("up"))
	if sess.Character().Index != 2 {
		t.Fatalf("character should wrap, got %d", sess.Character().Index)
	}

	send(m, key("enter"))
	if sess.Screen() != game.ScreenStage1 {
		t.Fatalf("screen = %s", sess.Screen())
	}
	if len(*started) != 1 || (*started)[0].Name != "민지" || (*started)[0].Character.Index != 2 {
		t.Fatalf("onStart = %#v", *started)
	}
}

func TestStage1Keys(t *testing.T) {
	m, sess, _ := newModel(t)
	send(m, key("enter"))

	v, _ := sess.Stage1()
	wrong := (v.Puzzle.Answer() + 1) % len(v.Puzzle.Options)
	for i := 0; i < wrong; i++ {
		send(m, key("right"))
	}
	send(m, key("enter"))
	v, _ = sess.Stage1()
	if !v.Locked || v.Wrong != wrong || v.Mistakes != 1 {
		t.Fatalf("wrong pick not applied: %+v", v)
	}
	if !strings.Contains(m.View(), "다시 생각해보세요") {
		t.Fatalf("missing wrong feedback:\n%s", m.View())
	}

	// 鎖定期間的按鍵無效
	send(m, key(strconv.Itoa(v.Puzzle.Answer()+1)))
	if v2, _ := sess.Stage1(); v2.Progress != 0 {
		t.Fatalf("locked puzzle accepted a pick")
	}

	send(m, taskMsg{Kind: game.TaskStage1Unlock, Epoch: sess.Epoch()})
	send(m, key(strconv.Itoa(v.Puzzle.Answer()+1)))
	if v2, _ := sess.Stage1(); v2.Progress != 1 || v2.Solved != v.Puzzle.Answer() {
		t.Fatalf("correct pick not applied: %+v", v2)
	}

	solveStage1(t, m, sess)
}

func TestStage2AnswerAndTimer(t *testing.T) {
	m, sess, _ := newModel(t)
	send(m, key("enter"))
	solveStage1(t, m, sess)

	if !sess.TimerRunning() {
		t.Fatalf("timer should run in stage2")
	}
	if cmd := send(m, tickMsg{epoch: sess.Epoch()}); cmd == nil {
		t.Fatalf("tick chain should continue")
	}
	if cmd := send(m, tickMsg{epoch: sess.Epoch() - 1}); cmd != nil {
		t.Fatalf("stale tick should end the chain")
	}

	send(m, key("abc"), key("enter"))
	if fb := sess.Feedback(); fb.Kind != game.FeedbackWarning {
		t.Fatalf("non-number feedback = %+v", fb)
	}
	m.answer.Reset()

	v, _ := sess.Stage2()
	send(m, key(strconv.Itoa(v.Question.Answer)), key("enter"))
	v, _ = sess.Stage2()
	if v.Score != 1 || v.Progress != 1 || !v.Locked {
		t.Fatalf("correct answer not applied: %+v", v)
	}
	if m.answer.Value() != "" {
		t.Fatalf("input should be cleared, got %q", m.answer.Value())
	}
}

// playRun 從第一關玩到結算畫面，全部答對。
func playRun(t *testing.T, m *Model, sess *game.Session) {
	t.Helper()
	solveStage1(t, m, sess)
	for i := 0; i < 40 && sess.Screen() == game.ScreenStage2; i++ {
		v, _ := sess.Stage2()
		send(m, key(strconv.Itoa(v.Question.Answer)), key("enter"))
		send(m, taskMsg{Kind: game.TaskStage2Advance, Epoch: sess.Epoch()})
	}
	if sess.Screen() != game.ScreenResult {
		t.Fatalf("screen = %s", sess.Screen())
	}
}

func TestFullRunToResultAndHistory(t *testing.T) {
	m, sess, _ := newModel(t)
	send(m, key("enter"))
	playRun(t, m, sess)

	r, _ := sess.Result()
	if r.Score != r.Total {
		t.Fatalf("score = %d/%d", r.Score, r.Total)
	}
	if !strings.Contains(m.View(), "오늘 1회 도전 (최대 5회)") {
		t.Fatalf("result view:\n%s", m.View())
	}

	send(m, key("h"))
	if sess.Screen() != game.ScreenHistory {
		t.Fatalf("screen = %s", sess.Screen())
	}
	if h, _ := sess.History(); len(h.History) != 1 {
		t.Fatalf("history = %d", len(h.History))
	}
	send(m, key("b"))
	if sess.Screen() != game.ScreenStart {
		t.Fatalf("screen = %s", sess.Screen())
	}
}

func TestRetryRefusedAtDailyLimitShowsWarning(t *testing.T) {
	m, sess, started := newModel(t)
	send(m, key("enter"))
	playRun(t, m, sess)
	for i := 1; i < 5; i++ {
		send(m, key("r"))
		playRun(t, m, sess)
	}
	if sess.DailyCount() != 5 || len(*started) != 5 {
		t.Fatalf("daily = %d, starts = %d", sess.DailyCount(), len(*started))
	}

	send(m, key("r"))
	if sess.Screen() != game.ScreenResult {
		t.Fatalf("refused retry should stay on result, got %s", sess.Screen())
	}
	if fb := sess.Feedback(); fb.Kind != game.FeedbackWarning {
		t.Fatalf("feedback = %+v", fb)
	}
	if !strings.Contains(m.View(), "오늘은 이미 5번 연습했어요") {
		t.Fatalf("daily limit warning not shown:\n%s", m.View())
	}
	if len(*started) != 5 {
		t.Fatalf("refused retry should not call onStart")
	}
}

func TestHistoryPlaceholderAndQuit(t *testing.T) {
	m, sess, _ := newModel(t)
	send(m, key("ctrl+r"))
	if sess.Screen() != game.ScreenHistory {
		t.Fatalf("screen = %s", sess.Screen())
	}
	if !strings.Contains(m.View(), "아직 기록이 없습니다") {
		t.Fatalf("history view:\n%s", m.View())
	}
	send(m, key("esc"))

	send(m, key("enter"))
	solveStage1(t, m, sess)
	cmd := send(m, key("ctrl+c"))
	if sess.TimerRunning() {
		t.Fatalf("ctrl+c should stop the timer")
	}
	if cmd == nil {
		t.Fatalf("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c cmd is not quit")
	}
}

func TestEscLeavesStage2(t *testing.T) {
	m, sess, _ := newModel(t)
	send(m, key("enter"))
	solveStage1(t, m, sess)
	epoch := sess.Epoch()
	send(m, key("esc"))
	if sess.Screen() != game.ScreenStart || sess.TimerRunning() {
		t.Fatalf("esc should go home and stop the timer")
	}
	if cmd := send(m, tickMsg{epoch: epoch}); cmd != nil {
		t.Fatalf("old tick chain should end")
	}
	if sess.DailyCount() != 0 {
		t.Fatalf("abandoned run should not count")
	}
}
