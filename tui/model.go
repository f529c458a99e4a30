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

// Package tui 以 bubbletea 呈現遊戲畫面。
//
// Model 只負責把按鍵轉成 game.Session 的操作、把 Session 回傳的 Effect 轉成 tea.Cmd，
// 再依 Session 目前的狀態畫出畫面；所有遊戲規則都在 game 內。
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zintix-labs/antigravity/errs"
	"github.com/zintix-labs/antigravity/game"
)

// taskMsg 延遲動作到期
type taskMsg game.Task

// tickMsg 計時器的一次 tick
type tickMsg struct{ epoch uint64 }

// Model bubbletea 的根 Model
type Model struct {
	ctx     context.Context
	sess    *game.Session
	log     *slog.Logger
	name    textinput.Model
	answer  textinput.Model
	bar     progress.Model
	cursor  int // 第一關目前指到的選項
	width   int
	onStart func(game.Player)
}

var _ tea.Model = (*Model)(nil)

// New 建立 Model；onStart 在每次成功開局後呼叫（例如記住玩家名稱），可為 nil。
func New(ctx context.Context, sess *game.Session, log *slog.Logger, onStart func(game.Player)) *Model {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	name := textinput.New()
	name.Placeholder = sess.Setting().DefaultPlayer
	name.CharLimit = 20
	name.Prompt = "› "
	name.SetValue(sess.Name())
	name.Focus()

	answer := textinput.New()
	answer.Placeholder = "?"
	answer.CharLimit = 6
	answer.Prompt = "› "

	return &Model{
		ctx:     ctx,
		sess:    sess,
		log:     log,
		name:    name,
		answer:  answer,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(36), progress.WithoutPercentage()),
		onStart: onStart,
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case taskMsg:
		return m, m.run(m.sess.Fire(m.ctx, game.Task(msg)))

	case tickMsg:
		if m.sess.Tick(msg.epoch) {
			return m, tick(msg.epoch, m.sess.Setting().Stage2.Tick)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.run(m.sess.Abandon())
			return m, tea.Quit
		}
		switch m.sess.Screen() {
		case game.ScreenStart:
			return m.updateStart(msg)
		case game.ScreenStage1:
			return m.updateStage1(msg)
		case game.ScreenStage2:
			return m.updateStage2(msg)
		case game.ScreenResult:
			return m.updateResult(msg)
		case game.ScreenHistory:
			return m.updateHistory(msg)
		}
	}

	// 其他訊息（游標閃爍等）交給目前有焦點的輸入框
	var cmd tea.Cmd
	switch m.sess.Screen() {
	case game.ScreenStart:
		m.name, cmd = m.name.Update(msg)
	case game.ScreenStage2:
		m.answer, cmd = m.answer.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateStart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.start()
	case "up":
		m.sess.CycleCharacter(-1)
		return m, nil
	case "down":
		m.sess.CycleCharacter(1)
		return m, nil
	case "ctrl+r":
		return m, m.run(m.sess.ShowHistory(m.ctx))
	}
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	m.sess.SetName(m.name.Value())
	return m, cmd
}

func (m *Model) updateStage1(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v, _ := m.sess.Stage1()
	n := len(v.Puzzle.Options)
	switch k := msg.String(); k {
	case "left":
		m.cursor = (m.cursor + n - 1) % n
	case "right":
		m.cursor = (m.cursor + 1) % n
	case "enter":
		return m, m.run(m.sess.ChooseOption(m.cursor))
	case "esc":
		return m, m.home()
	default:
		if len(k) == 1 && k[0] >= '1' && int(k[0]-'0') <= n {
			m.cursor = int(k[0] - '1')
			return m, m.run(m.sess.ChooseOption(m.cursor))
		}
	}
	return m, nil
}

func (m *Model) updateStage2(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		eff, err := m.sess.SubmitAnswer(m.ctx, m.answer.Value())
		if err != nil {
			m.log.Debug("answer rejected", "err", err)
		}
		return m, m.run(eff)
	case "esc":
		return m, m.home()
	}
	var cmd tea.Cmd
	m.answer, cmd = m.answer.Update(msg)
	return m, cmd
}

func (m *Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		return m, m.start()
	case "h":
		return m, m.run(m.sess.ShowHistory(m.ctx))
	case "enter", "esc":
		return m, m.home()
	}
	return m, nil
}

func (m *Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b", "enter":
		return m, m.home()
	}
	return m, nil
}

func (m *Model) start() tea.Cmd {
	eff, err := m.sess.Start(m.ctx)
	if err != nil {
		if errs.LevelOf(err) == errs.Fatal {
			m.log.Error("start failed", "err", err)
		}
		return nil
	}
	m.cursor = 0
	m.name.Blur()
	if m.onStart != nil {
		m.onStart(m.sess.Player())
	}
	return m.run(eff)
}

func (m *Model) home() tea.Cmd {
	cmd := m.run(m.sess.Home())
	m.answer.Blur()
	m.name.SetValue(m.sess.Name())
	return tea.Batch(cmd, m.name.Focus())
}

// run 把 Effect 轉成 tea.Cmd
func (m *Model) run(eff []game.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range eff {
		switch v := e.(type) {
		case game.Schedule:
			t := v.Task
			cmds = append(cmds, tea.Tick(v.After, func(time.Time) tea.Msg { return taskMsg(t) }))
		case game.StartTimer:
			cmds = append(cmds, tick(v.Epoch, v.Every), m.answer.Focus())
		case game.StopTimer:
			m.answer.Blur()
		case game.ClearInput:
			m.answer.Reset()
			m.cursor = 0
		}
	}
	return tea.Batch(cmds...)
}

func tick(epoch uint64, every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg { return tickMsg{epoch: epoch} })
}
