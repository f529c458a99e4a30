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
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/zintix-labs/antigravity"
	"github.com/zintix-labs/antigravity/core"
	"github.com/zintix-labs/antigravity/errs"
	"github.com/zintix-labs/antigravity/logger"
	"github.com/zintix-labs/antigravity/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	sessions  int
	accuracy  float64
	seed      int64
	format    string
	settings  string
	logmode   string
	showpb    bool
	pprofmode string
}

func bindVar() {
	flag.IntVar(&cfg.sessions, "n", 1000, "number of sessions to play")
	flag.Float64Var(&cfg.accuracy, "acc", 0.8, "bot accuracy per answer, in [0,1]")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.format, "format", "table", "report format: table, json, yaml")
	flag.StringVar(&cfg.settings, "settings", "", "game settings yaml (default: embedded)")
	flag.StringVar(&cfg.logmode, "log", "silence", "log mode: dev, prod, silence")
	flag.BoolVar(&cfg.showpb, "pb", true, "show progress bar")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()

	// 沒給或不合法的 seed 改用隨機 seed
	if cfg.seed < 1 {
		cfg.seed = core.NewSeed()
	}
}

func executeSimulator() error {
	if err := cfg.valid(); err != nil {
		return err
	}
	mode, err := logger.ParseMode(cfg.logmode)
	if err != nil {
		return err
	}
	log := logger.New(mode, os.Stderr)

	app, err := loadApp(cfg.settings, log)
	if err != nil {
		return err
	}
	s := app.NewSimulatorWithSeed(cfg.seed)

	p := message.NewPrinter(language.English)
	banner := color.New(color.FgGreen, color.Bold)
	banner.Fprintln(os.Stderr, p.Sprintf("[GAME:%s] [SESSIONS:%d] [ACCURACY:%.2f] [SEED:%d]", s.GameName, cfg.sessions, cfg.accuracy, s.Seed()))

	rep, used, err := s.Run(cfg.sessions, cfg.accuracy, cfg.showpb)
	if err != nil {
		return err
	}

	switch cfg.format {
	case "json":
		err = rep.WriteWith(os.Stdout, &stats.JsonSimReportRender{})
	case "yaml":
		err = rep.WriteWith(os.Stdout, &stats.YAMLSimReportRender{})
	default:
		fmt.Print(rep.Render())
	}
	if err != nil {
		return errs.Wrap(err, "write report")
	}
	fmt.Fprint(os.Stderr, stats.FormatElapsed(used, cfg.sessions))
	return nil
}

// loadApp 讀取 -settings 指定的設定檔，沒有指定時使用內嵌設定。
func loadApp(path string, log *slog.Logger) (*antigravity.Antigravity, error) {
	if path == "" {
		return antigravity.New(core.Default(), nil, "", log)
	}
	return antigravity.New(core.Default(), os.DirFS(filepath.Dir(path)), filepath.Base(path), log)
}

func (cfg *config) valid() error {
	if cfg.sessions < 1 {
		return errs.NewWarn("value err : sessions must > 0")
	}
	if cfg.accuracy < 0 || cfg.accuracy > 1 {
		return errs.NewWarn("value err : accuracy must be in [0,1]")
	}
	switch cfg.format {
	case "table", "json", "yaml":
	default:
		return errs.Warnf("value err : unknown format %q", cfg.format)
	}
	return nil
}

func fatal(err error) {
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "[%s] %v\n", errs.LevelOf(err), err)
	os.Exit(1)
}
