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
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zintix-labs/antigravity/catalog"
	"github.com/zintix-labs/antigravity/core"
	"github.com/zintix-labs/antigravity/errs"
	"github.com/zintix-labs/antigravity/record"
	"github.com/zintix-labs/antigravity/spec"
	"github.com/zintix-labs/antigravity/stats"
)

// Config 建立 Session 需要的元件，全部必填（Log 可省略）。
type Config struct {
	Setting *spec.GameSetting
	Catalog *catalog.Catalog
	Book    *record.Book
	Core    *core.Core
	Clock   record.Clock
	Log     *slog.Logger
}

// Session 一個玩家從開始畫面到結算、紀錄畫面的完整狀態。
//
// 並發語意：Session 不是 goroutine-safe，所有操作必須在同一條事件迴圈上呼叫。
type Session struct {
	gs    *spec.GameSetting
	cat   *catalog.Catalog
	book  *record.Book
	core  *core.Core
	clock record.Clock
	log   *slog.Logger

	name    string // 輸入框內容，開始時才套用預設名稱
	charIdx int
	player  Player
	runID   string

	ph      phase
	epoch   uint64
	fb      Feedback
	timerOn bool
}

// NewSession 檢查元件後建立 Session，初始畫面為開始畫面。紀錄簿需事先 Load。
func NewSession(cfg Config) (*Session, error) {
	if cfg.Setting == nil || cfg.Catalog == nil || cfg.Book == nil || cfg.Core == nil || cfg.Clock == nil {
		return nil, errs.NewFatal("game session: missing component")
	}
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Session{
		gs:    cfg.Setting,
		cat:   cfg.Catalog,
		book:  cfg.Book,
		core:  cfg.Core,
		clock: cfg.Clock,
		log:   log,
		ph:    startPhase{},
	}
	s.player = Player{Name: s.gs.DefaultPlayer, Character: s.cat.At(0)}
	return s, nil
}

// ============================================================
// ** 開始畫面 **
// ============================================================

// SetName 更新輸入中的名稱，只在開始畫面有效。
func (s *Session) SetName(name string) {
	if s.Screen() != ScreenStart {
		return
	}
	s.name = name
}

// SelectCharacter 選擇第 i 個角色（超出範圍會繞回），只在開始畫面有效。
func (s *Session) SelectCharacter(i int) {
	if s.Screen() != ScreenStart {
		return
	}
	e := s.cat.At(i)
	s.charIdx = e.Index
	s.player.Character = e
}

// CycleCharacter 以目前角色為基準前後切換。
func (s *Session) CycleCharacter(delta int) {
	s.SelectCharacter(s.charIdx + delta)
}

// Start 開始新的一局（開始畫面或結算畫面的「다시 도전」）。
//
// 今日次數已達上限時停在原畫面、顯示警告並回傳 ErrDailyLimit。
func (s *Session) Start(ctx context.Context) ([]Effect, error) {
	switch s.ph.(type) {
	case startPhase, *resultPhase:
	default:
		return nil, nil
	}
	today := record.Day(s.clock.Now())
	if limit := s.gs.Daily.Limit; limit > 0 && s.book.CountOn(today) >= limit {
		s.fb = warning(msgDailyLimit(limit))
		s.log.Info("daily limit reached", "count", s.book.CountOn(today), "limit", limit)
		return nil, ErrDailyLimit
	}

	name := strings.TrimSpace(s.name)
	if name == "" {
		name = s.gs.DefaultPlayer
	}
	s.player = Player{Name: name, Character: s.cat.At(s.charIdx)}
	s.runID = uuid.NewString()

	set := &s.gs.Stage1
	seq := s.core.Perm(set.Numbers.Lo(), set.Numbers.Hi())
	ph := &stage1Phase{seq: seq, wrong: -1, solved: -1}
	ph.puzzle = NewPuzzle(s.core, set, seq[0])

	s.log.Info("session start", "run", s.runID, "player", name, "avatar", s.player.Character.Token)
	eff := s.enter(ph)
	return append(eff, ClearInput{}), nil
}

// ============================================================
// ** 第一關 **
// ============================================================

// ChooseOption 選擇第 i 個選項；鎖定中或不在第一關時忽略。
func (s *Session) ChooseOption(i int) []Effect {
	ph, ok := s.ph.(*stage1Phase)
	if !ok || ph.locked || i < 0 || i >= len(ph.puzzle.Options) {
		return nil
	}
	ph.locked = true
	if ph.puzzle.Options[i] == ph.puzzle.Target {
		ph.solved = i
		ph.progress++
		s.fb = success(msgPuzzleCorrect)
		return []Effect{Schedule{Task: Task{Kind: TaskStage1Advance, Epoch: s.epoch}, After: s.gs.Stage1.CorrectDelay}}
	}
	ph.wrong = i
	ph.mistakes++
	s.fb = failure(msgPuzzleWrong)
	return []Effect{Schedule{Task: Task{Kind: TaskStage1Unlock, Epoch: s.epoch}, After: s.gs.Stage1.WrongDelay}}
}

// ============================================================
// ** 第二關 **
// ============================================================

func (s *Session) startStage2(mistakes1 int) []Effect {
	set := &s.gs.Stage2
	ph := &stage2Phase{
		total:     set.Total(),
		chances:   set.Chances,
		startedAt: s.clock.Now(),
		mistakes1: mistakes1,
	}
	ph.question = NewQuestion(s.core, set, 1)
	eff := s.enter(ph)
	s.timerOn = true
	s.log.Debug("stage2 start", "run", s.runID)
	return append(eff, StartTimer{Epoch: s.epoch, Every: set.Tick}, ClearInput{})
}

// SubmitAnswer 提交答案。
//
// 不是整數時只顯示警告並回傳 ErrNotNumber，不扣機會。
func (s *Session) SubmitAnswer(ctx context.Context, input string) ([]Effect, error) {
	ph, ok := s.ph.(*stage2Phase)
	if !ok || ph.locked {
		return nil, nil
	}
	v, err := ParseAnswer(input)
	if err != nil {
		s.fb = warning(msgNotNumber)
		return nil, err
	}
	set := &s.gs.Stage2
	if v == ph.question.Answer {
		ph.score++
		ph.progress++
		ph.locked = true
		s.fb = success(msgQuizCorrect)
		return []Effect{ClearInput{}, Schedule{Task: Task{Kind: TaskStage2Advance, Epoch: s.epoch}, After: set.CorrectDelay}}, nil
	}
	ph.chances--
	if ph.chances > 0 {
		s.fb = warning(msgRetry(ph.chances))
		return []Effect{ClearInput{}}, nil
	}
	ph.progress++
	ph.locked = true
	ph.revealed = true
	s.fb = failure(msgReveal(ph.question.Answer))
	return []Effect{ClearInput{}, Schedule{Task: Task{Kind: TaskStage2Advance, Epoch: s.epoch}, After: set.RevealDelay}}, nil
}

// Tick 更新第二關的經過時間；回傳 false 表示計時器應該停止。
func (s *Session) Tick(epoch uint64) bool {
	ph, ok := s.ph.(*stage2Phase)
	if !ok || !s.timerOn || epoch != s.epoch {
		return false
	}
	ph.elapsed = elapsedSeconds(ph.startedAt, s.clock.Now())
	return true
}

// ============================================================
// ** 延遲動作 **
// ============================================================

// Fire 執行到期的延遲動作；epoch 不符（畫面已經換過）時忽略。
func (s *Session) Fire(ctx context.Context, t Task) []Effect {
	if t.Epoch != s.epoch {
		s.log.Debug("stale task dropped", "task", t.Kind.String(), "epoch", t.Epoch, "current", s.epoch)
		return nil
	}
	switch t.Kind {
	case TaskStage1Unlock:
		ph, ok := s.ph.(*stage1Phase)
		if !ok {
			return nil
		}
		ph.locked = false
		ph.wrong = -1
		s.fb = Feedback{}
		return nil

	case TaskStage1Advance:
		ph, ok := s.ph.(*stage1Phase)
		if !ok {
			return nil
		}
		if ph.progress >= len(ph.seq) {
			return s.startStage2(ph.mistakes)
		}
		ph.puzzle = NewPuzzle(s.core, &s.gs.Stage1, ph.seq[ph.progress])
		ph.locked = false
		ph.solved = -1
		ph.wrong = -1
		s.fb = Feedback{}
		return []Effect{ClearInput{}}

	case TaskStage2Advance:
		ph, ok := s.ph.(*stage2Phase)
		if !ok {
			return nil
		}
		if ph.progress >= ph.total {
			return s.endGame(ctx, ph)
		}
		ph.question = NewQuestion(s.core, &s.gs.Stage2, ph.progress+1)
		ph.chances = s.gs.Stage2.Chances
		ph.locked = false
		ph.revealed = false
		s.fb = Feedback{}
		return []Effect{ClearInput{}}
	}
	return nil
}

// ============================================================
// ** 結算與紀錄 **
// ============================================================

func (s *Session) endGame(ctx context.Context, ph *stage2Phase) []Effect {
	secs := elapsedSeconds(ph.startedAt, s.clock.Now())
	entry, err := s.book.Complete(ctx, ph.score, secs)

	res := Result{
		RunID:      s.runID,
		Player:     s.player,
		Entry:      entry,
		Score:      ph.score,
		Total:      ph.total,
		Seconds:    secs,
		Accuracy:   stats.Accuracy(ph.score, ph.total),
		Mistakes1:  ph.mistakes1,
		DailyCount: s.book.DailyCount(),
		DailyLimit: s.gs.Daily.Limit,
		SaveErr:    err,
		Graph:      stats.Graph(s.book.Snapshot().History, s.gs.Record.GraphWindow, ph.total),
	}
	d := s.gs.Daily
	if res.DailyCount >= d.RewardThreshold && len(d.Fortunes) > 0 {
		res.Reward = true
		res.Title = d.RewardTitle
		res.Fortune = d.Fortunes[s.core.IntN(len(d.Fortunes))]
	}
	if err != nil {
		s.log.Warn("session result not saved", "run", s.runID, "err", err)
	}
	s.log.Info("session complete", "run", s.runID, "score", res.Score, "seconds", secs, "daily", res.DailyCount, "reward", res.Reward)
	return s.enter(&resultPhase{res: res})
}

// ShowHistory 重新讀取紀錄並進入紀錄畫面（開始畫面或結算畫面）。
func (s *Session) ShowHistory(ctx context.Context) []Effect {
	switch s.ph.(type) {
	case startPhase, *resultPhase:
	default:
		return nil
	}
	d := s.book.Load(ctx)
	total := s.gs.Stage2.Total()
	v := HistoryView{
		History: d.History,
		Graph:   stats.Graph(d.History, s.gs.Record.GraphWindow, total),
		List:    stats.List(d.History, s.gs.Record.ListWindow, total),
		Summary: stats.Aggregate(d.History),
	}
	return s.enter(&historyPhase{view: v})
}

// Home 回到開始畫面，第二關進行中會一併停止計時器。
func (s *Session) Home() []Effect {
	if s.Screen() == ScreenStart {
		return nil
	}
	if ph, ok := s.ph.(*stage2Phase); ok {
		s.log.Info("session abandoned", "run", s.runID, "progress", ph.progress)
	}
	return s.enter(startPhase{})
}

// Abandon 程式結束前呼叫，停止還在跑的計時器。
func (s *Session) Abandon() []Effect {
	if !s.timerOn {
		return nil
	}
	s.timerOn = false
	s.epoch++
	s.log.Info("session abandoned", "run", s.runID)
	return []Effect{StopTimer{}}
}

// enter 切換畫面：停止計時器、遞增 epoch、清掉提示。
func (s *Session) enter(next phase) []Effect {
	var eff []Effect
	if s.timerOn {
		s.timerOn = false
		eff = append(eff, StopTimer{})
	}
	s.epoch++
	s.ph = next
	s.fb = Feedback{}
	s.log.Debug("screen", "to", next.screen().String(), "epoch", s.epoch)
	return eff
}

func elapsedSeconds(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

// ============================================================
// ** 查詢 **
// ============================================================

func (s *Session) Screen() Screen { return s.ph.screen() }

func (s *Session) Epoch() uint64 { return s.epoch }

func (s *Session) Feedback() Feedback { return s.fb }

func (s *Session) TimerRunning() bool { return s.timerOn }

// Player 目前的玩家；開始畫面上名稱要等 Start 才套用。
func (s *Session) Player() Player { return s.player }

func (s *Session) Name() string { return s.name }

func (s *Session) Character() catalog.Entry { return s.cat.At(s.charIdx) }

func (s *Session) Characters() []catalog.Entry { return s.cat.All() }

func (s *Session) Setting() *spec.GameSetting { return s.gs }

// DailyCount 今天已完成的局數
func (s *Session) DailyCount() int { return s.book.CountOn(record.Day(s.clock.Now())) }

func (s *Session) Stage1() (Stage1View, bool) {
	ph, ok := s.ph.(*stage1Phase)
	if !ok {
		return Stage1View{}, false
	}
	return ph.view(), true
}

func (s *Session) Stage2() (Stage2View, bool) {
	ph, ok := s.ph.(*stage2Phase)
	if !ok {
		return Stage2View{}, false
	}
	return ph.view(s.gs.Stage2.Chances), true
}

func (s *Session) Result() (Result, bool) {
	ph, ok := s.ph.(*resultPhase)
	if !ok {
		return Result{}, false
	}
	r := ph.res
	r.Graph = slices.Clone(r.Graph)
	return r, true
}

func (s *Session) History() (HistoryView, bool) {
	ph, ok := s.ph.(*historyPhase)
	if !ok {
		return HistoryView{}, false
	}
	return ph.view, true
}
