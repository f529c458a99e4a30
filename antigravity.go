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

// Package antigravity 是遊戲的組裝入口（assembler）。
//
// 它把三個地基組裝在一起，並提供建立 Session 與 Simulator 的入口：
//  1. GameSetting：遊戲規則（題數、範圍、節奏、角色、每日上限），由 fs.FS 提供。
//  2. Catalog：角色目錄，由設定檔的 characters 建出並檢查重複。
//  3. PRNGFactory：亂數核心工廠，同一個 seed 出同一串題目，方便重現與測試。
//
// 儲存區（record.KV）與時鐘由呼叫端注入：互動模式用檔案或 SQLite 與真實時間，
// 模擬器用記憶體儲存區與假時鐘。
package antigravity

import (
	"context"
	"io/fs"
	"log/slog"
	"time"

	"github.com/zintix-labs/antigravity/catalog"
	"github.com/zintix-labs/antigravity/configs"
	"github.com/zintix-labs/antigravity/core"
	"github.com/zintix-labs/antigravity/errs"
	"github.com/zintix-labs/antigravity/game"
	"github.com/zintix-labs/antigravity/record"
	"github.com/zintix-labs/antigravity/spec"
)

// Antigravity 組裝後的執行入口，建立後不再修改，可以同時建立多個 Session。
type Antigravity struct {
	gs  *spec.GameSetting
	cat *catalog.Catalog
	cf  core.PRNGFactory
	log *slog.Logger
}

// SystemClock 以系統時間實作 record.Clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// New 以設定檔來源 fsys 內名為 name 的設定建立實例；fsys 為 nil 時使用內嵌的預設設定。
func New(cf core.PRNGFactory, fsys fs.FS, name string, log *slog.Logger) (*Antigravity, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if fsys == nil {
		fsys, name = configs.FS, configs.Default
	}
	gs, err := spec.Load(fsys, name)
	if err != nil {
		return nil, err
	}
	return NewWithSetting(cf, gs, log)
}

// NewWithSetting 以已經載入的設定建立實例。
func NewWithSetting(cf core.PRNGFactory, gs *spec.GameSetting, log *slog.Logger) (*Antigravity, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if gs == nil {
		return nil, errs.NewFatal("game setting required")
	}
	cat, err := catalog.New(gs.Characters)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Antigravity{gs: gs, cat: cat, cf: cf, log: log}, nil
}

// NewDefault 以內嵌設定與預設 PRNG 建立實例。
func NewDefault(log *slog.Logger) (*Antigravity, error) {
	return New(core.Default(), nil, "", log)
}

func (a *Antigravity) Setting() *spec.GameSetting { return a.gs }

func (a *Antigravity) Catalog() *catalog.Catalog { return a.cat }

func (a *Antigravity) Logger() *slog.Logger { return a.log }

// NewBook 建立並載入紀錄簿。
func (a *Antigravity) NewBook(ctx context.Context, kv record.KV, clock record.Clock) (*record.Book, error) {
	if kv == nil || clock == nil {
		return nil, errs.NewFatal("record store and clock required")
	}
	b := record.NewBook(record.NewAdapter(kv, a.log), clock, a.gs.Record.HistoryCap, a.log)
	b.Load(ctx)
	return b, nil
}

// NewSession 以隨機 seed 建立 Session。
func (a *Antigravity) NewSession(book *record.Book, clock record.Clock) (*game.Session, error) {
	return a.NewSessionWithSeed(book, clock, core.NewSeed())
}

// NewSessionWithSeed 以指定 seed 建立 Session；同一個 seed 出同一串題目。
func (a *Antigravity) NewSessionWithSeed(book *record.Book, clock record.Clock, seed int64) (*game.Session, error) {
	a.log.Debug("new session", "seed", seed)
	return game.NewSession(game.Config{
		Setting: a.gs,
		Catalog: a.cat,
		Book:    book,
		Core:    core.New(a.cf.New(seed)),
		Clock:   clock,
		Log:     a.log,
	})
}

// NewSimulator 以隨機 seed 建立模擬器。
func (a *Antigravity) NewSimulator() *Simulator {
	return a.NewSimulatorWithSeed(core.NewSeed())
}

// NewSimulatorWithSeed 以指定 seed 建立模擬器，同一個 seed 的報告完全相同。
func (a *Antigravity) NewSimulatorWithSeed(seed int64) *Simulator {
	return newSimulator(a, seed)
}
