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

package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/zintix-labs/antigravity"
	"github.com/zintix-labs/antigravity/appcfg"
	"github.com/zintix-labs/antigravity/core"
	"github.com/zintix-labs/antigravity/errs"
	"github.com/zintix-labs/antigravity/game"
	"github.com/zintix-labs/antigravity/logger"
	"github.com/zintix-labs/antigravity/tui"
	"golang.org/x/term"
)

const logBuffer = 256

// 互動式遊戲
//
//	go run ./cmd/play
//	go run ./cmd/play -data ./tmp -backend sqlite
func main() {
	var (
		dataDir  = flag.String("data", "", "data dir (default: user config dir)")
		backend  = flag.String("backend", "", "record backend: file, sqlite, memory")
		logmode  = flag.String("log", "", "log mode: dev, prod, silence")
		settings = flag.String("settings", "", "game settings yaml (default: embedded)")
	)
	flag.Parse()

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fatal(errs.NewFatal("antigravity needs an interactive terminal"))
	}

	cfg, err := appcfg.Load(*dataDir)
	if err != nil {
		fatal(err)
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *logmode != "" {
		cfg.LogMode = *logmode
	}
	if err := cfg.Valid(); err != nil {
		fatal(err)
	}
	if err := run(&cfg, *settings); err != nil {
		fatal(err)
	}
}

func run(cfg *appcfg.Config, settings string) error {
	log, closeLog, err := logger.OpenAsyncFile(cfg.Mode(), cfg.LogPath(), logBuffer)
	if err != nil {
		return err
	}
	defer closeLog()

	var app *antigravity.Antigravity
	if settings == "" {
		app, err = antigravity.New(core.Default(), nil, "", log)
	} else {
		app, err = antigravity.New(core.Default(), os.DirFS(filepath.Dir(settings)), filepath.Base(settings), log)
	}
	if err != nil {
		return err
	}

	kv, err := antigravity.OpenStore(cfg.Backend, cfg.DataDir)
	if err != nil {
		return err
	}
	defer kv.Close()

	ctx := context.Background()
	clock := antigravity.SystemClock{}
	book, err := app.NewBook(ctx, kv, clock)
	if err != nil {
		return err
	}
	sess, err := app.NewSession(book, clock)
	if err != nil {
		return err
	}
	sess.SetName(cfg.Player)
	if e, ok := app.Catalog().ByToken(cfg.Avatar); ok {
		sess.SelectCharacter(e.Index)
	}

	remember := func(p game.Player) {
		if err := cfg.SavePlayer(p.Name, p.Character.Token); err != nil {
			log.Warn("save player prefs failed", "err", err)
		}
	}
	log.Info("antigravity start", "backend", cfg.Backend, "data", cfg.DataDir)

	m := tui.New(ctx, sess, log, remember)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return errs.Wrap(err, "run terminal ui")
	}
	log.Info("antigravity exit", "today", book.DailyCount())
	return nil
}

func fatal(err error) {
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "[%s] %v\n", errs.LevelOf(err), err)
	os.Exit(1)
}
