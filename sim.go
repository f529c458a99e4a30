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

package antigravity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/antigravity/core"
	"github.com/zintix-labs/antigravity/errs"
	"github.com/zintix-labs/antigravity/game"
	"github.com/zintix-labs/antigravity/record"
	"github.com/zintix-labs/antigravity/recorder"
	"github.com/zintix-labs/antigravity/stats"
)

// 模擬機器人每題的思考時間範圍（毫秒）
const (
	thinkMinMs = 1500
	thinkMaxMs = 6000
	restMinSec = 30 // 兩局之間的休息
	restMaxSec = 600
)

// Simulator 以機器人自動玩完整局數，檢查每局的不變量並產出統計報告。
//
// 單線執行：一個 Session、一個記憶體儲存區、一個假時鐘。延遲動作不真的等待，
// 而是把假時鐘往前撥再交回 Session。
type Simulator struct {
	GameName  string
	app       *Antigravity
	initSeed  int64
	seedmaker *seedMaker
}

func newSimulator(a *Antigravity, seed int64) *Simulator {
	return &Simulator{
		GameName:  a.gs.GameName,
		app:       a,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
	}
}

func (s *Simulator) Seed() int64 { return s.initSeed }

// Run 自動玩 sessions 局，機器人每次作答以 accuracy 的機率答對。
//
// 每日上限擋下時會把時鐘撥到隔天早上再開始，擋下的次數記在報告的 Refused。
func (s *Simulator) Run(sessions int, accuracy float64, showpb bool) (*stats.SimReport, time.Duration, error) {
	if sessions < 1 {
		return nil, 0, errs.NewWarn("sessions must > 0")
	}
	if accuracy < 0 || accuracy > 1 {
		return nil, 0, errs.NewWarn("accuracy must be in [0,1]")
	}
	ctx := context.Background()
	a := s.app
	rec, err := recorder.NewSessionRecorder(a.gs, s.initSeed, accuracy)
	if err != nil {
		return nil, 0, err
	}

	clk := &simClock{t: time.Date(2000, 1, 1, 9, 0, 0, 0, time.Local)}
	book, err := a.NewBook(ctx, record.NewMemKV(), clk)
	if err != nil {
		return nil, 0, err
	}
	sess, err := a.NewSessionWithSeed(book, clk, s.seedmaker.next())
	if err != nil {
		return nil, 0, err
	}
	r := &runner{
		ctx:      ctx,
		sess:     sess,
		book:     book,
		clk:      clk,
		bot:      core.New(a.cf.New(s.seedmaker.next())),
		accuracy: accuracy,
	}

	bar := pb.StartNew(sessions)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < sessions; i++ {
		res, refused, err := r.play()
		if err != nil {
			bar.Finish()
			return nil, 0, errs.Wrap(err, fmt.Sprintf("simulate session %d (seed %d)", i+1, s.initSeed))
		}
		for range refused {
			rec.Refuse()
		}
		if err := rec.Record(res); err != nil {
			bar.Finish()
			return nil, 0, err
		}
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()
	a.log.Info("simulation done", "sessions", sessions, "seed", s.initSeed, "used", used.String())
	return rec.Done(), used, nil
}

// simClock 模擬器的假時鐘
type simClock struct{ t time.Time }

func (c *simClock) Now() time.Time { return c.t }

// runner 執行 Session 回傳的 Effect 並扮演玩家。
type runner struct {
	ctx      context.Context
	sess     *game.Session
	book     *record.Book
	clk      *simClock
	bot      *core.Core
	accuracy float64

	timerEpoch uint64
	timerOn    bool
	tried      []int // 本題已選過的錯誤選項
}

// play 玩一局，回傳結算與被每日上限擋下的次數。
func (r *runner) play() (game.Result, int, error) {
	refused := 0
	prevLen := r.book.Len()
	var prevCount int
	for {
		prevCount = r.sess.DailyCount()
		eff, err := r.sess.Start(r.ctx)
		if errors.Is(err, game.ErrDailyLimit) {
			refused++
			if refused > 1 {
				return game.Result{}, refused, errs.NewFatal("daily limit did not reset on a new day")
			}
			r.nextMorning()
			continue
		}
		if err != nil {
			return game.Result{}, refused, err
		}
		r.apply(eff)
		break
	}

	for r.sess.Screen() == game.ScreenStage1 {
		r.stage1()
	}
	for r.sess.Screen() == game.ScreenStage2 {
		r.stage2()
	}
	res, ok := r.sess.Result()
	if !ok {
		return game.Result{}, refused, errs.NewFatal(fmt.Sprintf("session ended on %s screen", r.sess.Screen()))
	}
	if err := r.check(res, prevLen, prevCount); err != nil {
		return res, refused, err
	}
	r.advance(time.Duration(r.bot.IntRange(restMinSec, restMaxSec)) * time.Second)
	return res, refused, nil
}

func (r *runner) stage1() {
	v, _ := r.sess.Stage1()
	if v.Locked {
		return
	}
	answer := v.Puzzle.Answer()
	pick := answer
	if !r.bot.Chance(r.accuracy) {
		// 選一個還沒試過的錯誤選項，全試過就只剩正解
		wrongs := make([]int, 0, len(v.Puzzle.Options))
		for i := range v.Puzzle.Options {
			if i != answer && !slices.Contains(r.tried, i) {
				wrongs = append(wrongs, i)
			}
		}
		if len(wrongs) > 0 {
			pick = r.bot.Pick(wrongs)
		}
	}
	if pick == answer {
		r.tried = r.tried[:0]
	} else {
		r.tried = append(r.tried, pick)
	}
	r.think()
	r.apply(r.sess.ChooseOption(pick))
}

func (r *runner) stage2() {
	v, _ := r.sess.Stage2()
	if v.Locked {
		return
	}
	r.think()
	ans := v.Question.Answer
	if !r.bot.Chance(r.accuracy) {
		ans += r.bot.IntRange(1, 3)
	}
	eff, _ := r.sess.SubmitAnswer(r.ctx, strconv.Itoa(ans))
	r.apply(eff)
}

// apply 依序執行 Effect；排程的動作立即把時鐘撥到到期時間再觸發。
func (r *runner) apply(eff []game.Effect) {
	for len(eff) > 0 {
		var next []game.Effect
		for _, e := range eff {
			switch v := e.(type) {
			case game.Schedule:
				r.advance(v.After)
				next = append(next, r.sess.Fire(r.ctx, v.Task)...)
			case game.StartTimer:
				r.timerEpoch = v.Epoch
				r.timerOn = true
			case game.StopTimer:
				r.timerOn = false
			case game.ClearInput:
			}
		}
		eff = next
	}
}

func (r *runner) think() {
	r.advance(time.Duration(r.bot.IntRange(thinkMinMs, thinkMaxMs)) * time.Millisecond)
}

func (r *runner) advance(d time.Duration) {
	r.clk.t = r.clk.t.Add(d)
	if r.timerOn && !r.sess.Tick(r.timerEpoch) {
		r.timerOn = false
	}
}

func (r *runner) nextMorning() {
	y, m, d := r.clk.t.Date()
	r.clk.t = time.Date(y, m, d+1, 9, 0, 0, 0, r.clk.t.Location())
}

// check 驗證一局結束後的不變量。
func (r *runner) check(res game.Result, prevLen, prevCount int) error {
	gs := r.sess.Setting()
	switch {
	case r.timerOn || r.sess.TimerRunning():
		return errs.NewFatal("timer still running after the session ended")
	case res.Score < 0 || res.Score > res.Total:
		return errs.NewFatal(fmt.Sprintf("score out of range: %d", res.Score))
	case res.Accuracy != stats.Accuracy(res.Score, res.Total):
		return errs.NewFatal("accuracy mismatch")
	case r.book.Len() != min(prevLen+1, gs.Record.HistoryCap):
		return errs.NewFatal(fmt.Sprintf("history length %d after %d", r.book.Len(), prevLen))
	case res.DailyCount != prevCount+1:
		return errs.NewFatal(fmt.Sprintf("daily count %d after %d", res.DailyCount, prevCount))
	case res.Entry.Date != record.Day(r.clk.Now()):
		return errs.NewFatal("entry date is not today")
	case res.Reward != (res.DailyCount >= gs.Daily.RewardThreshold):
		return errs.NewFatal("reward panel mismatch")
	case res.Reward && !slices.Contains(gs.Daily.Fortunes, res.Fortune):
		return errs.NewFatal("unknown fortune")
	}
	latest := r.book.Latest(1)
	if len(latest) != 1 || latest[0] != res.Entry {
		return errs.NewFatal("newest history entry does not match the result")
	}
	return nil
}

const mask63 = uint64(1<<63) - 1

// seedMaker 由初始 seed 推出一串不重複的 seed（Session 與機器人各用一個）。
type seedMaker struct {
	state uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	return &seedMaker{state: uint64(seed) & mask63}
}

// next 以全週期 LCG 推進，再用可逆的 mix63 打散
func (s *seedMaker) next() int64 {
	s.state = (s.state*6364136223846793005 + 1442695040888963407) & mask63
	return int64(mix63(s.state))
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
