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
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/zintix-labs/antigravity"
	"github.com/zintix-labs/antigravity/appcfg"
	"github.com/zintix-labs/antigravity/errs"
	"github.com/zintix-labs/antigravity/logger"
	"github.com/zintix-labs/antigravity/record"
	"github.com/zintix-labs/antigravity/stats"
)

// 紀錄管理
//
//	go run ./cmd/record show [-format table|json|yaml]
//	go run ./cmd/record export -o backup.zst
//	go run ./cmd/record import -i backup.zst
func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	var err error
	switch task := os.Args[1]; task {
	case "show":
		err = runShow(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	default:
		color.Yellow("Unknown command: %s", task)
		usage()
		os.Exit(1)
	}
	if err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "[%s] %v\n", errs.LevelOf(err), err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: record [show|export|import] [flags]")
}

// env 每個子命令共用的資料目錄、儲存區與紀錄簿
type env struct {
	app   *antigravity.Antigravity
	kv    record.KV
	book  *record.Book
	clock antigravity.SystemClock
}

func (e *env) Close() error { return e.kv.Close() }

func commonFlags(fs *flag.FlagSet) (dataDir, backend *string) {
	dataDir = fs.String("data", "", "data dir (default: user config dir)")
	backend = fs.String("backend", "", "record backend: file, sqlite")
	return
}

func open(ctx context.Context, dataDir, backend string) (*env, error) {
	cfg, err := appcfg.Load(dataDir)
	if err != nil {
		return nil, err
	}
	if backend != "" {
		cfg.Backend = backend
	}
	if err := cfg.Valid(); err != nil {
		return nil, err
	}
	log := logger.New(cfg.Mode(), os.Stderr)
	app, err := antigravity.NewDefault(log)
	if err != nil {
		return nil, err
	}
	kv, err := antigravity.OpenStore(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, err
	}
	e := &env{app: app, kv: kv}
	if e.book, err = app.NewBook(ctx, kv, e.clock); err != nil {
		_ = kv.Close()
		return nil, err
	}
	return e, nil
}

func runShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	dataDir, backend := commonFlags(fs)
	format := fs.String("format", "table", "summary format: table, json, yaml")
	_ = fs.Parse(args)

	ctx := context.Background()
	e, err := open(ctx, *dataDir, *backend)
	if err != nil {
		return err
	}
	defer e.Close()

	gs := e.app.Setting()
	d := e.book.Snapshot()
	sum := stats.Aggregate(d.History)
	switch *format {
	case "json":
		return (&stats.JsonSummaryRender{}).Write(os.Stdout, &sum)
	case "yaml":
		return (&stats.YAMLSummaryRender{}).Write(os.Stdout, &sum)
	case "table":
	default:
		return errs.Warnf("unknown format %q", *format)
	}

	total := gs.Stage2.Total()
	keys := []string{"Today", "Played Today", "Records", "Mean Score", "Score STD", "Mean Time", "Best"}
	msg := map[string]string{
		"Today":        d.Today,
		"Played Today": strconv.Itoa(d.DailyCount),
		"Records":      strconv.Itoa(sum.Count),
		"Mean Score":   fmt.Sprintf("%.2f / %d", sum.MeanScore, total),
		"Score STD":    fmt.Sprintf("%.2f", sum.StdScore),
		"Mean Time":    stats.FormatClock(int(sum.MeanSeconds + 0.5)),
		"Best":         fmt.Sprintf("%d/%d %s", sum.BestScore, total, stats.FormatClock(sum.BestSeconds)),
	}
	fmt.Print(stats.Table(gs.GameName, keys, msg))
	fmt.Println()
	fmt.Print(stats.RenderGraph(stats.Graph(d.History, gs.Record.GraphWindow, total), 20))
	fmt.Println()
	fmt.Print(stats.RenderList(stats.List(d.History, gs.Record.ListWindow, total)))
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dataDir, backend := commonFlags(fs)
	out := fs.String("o", "antigravity-backup.zst", "output file")
	_ = fs.Parse(args)

	ctx := context.Background()
	e, err := open(ctx, *dataDir, *backend)
	if err != nil {
		return err
	}
	defer e.Close()

	f, err := os.Create(*out)
	if err != nil {
		return errs.Wrap(err, "create export file")
	}
	if err := record.Export(f, e.book.Snapshot(), e.clock.Now()); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(err, "close export file")
	}
	color.Green("exported %d records to %s", e.book.Len(), *out)
	return nil
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	dataDir, backend := commonFlags(fs)
	in := fs.String("i", "antigravity-backup.zst", "input file")
	_ = fs.Parse(args)

	ctx := context.Background()
	e, err := open(ctx, *dataDir, *backend)
	if err != nil {
		return err
	}
	defer e.Close()

	f, err := os.Open(*in)
	if err != nil {
		return errs.WrapAs(errs.Warn, err, "open import file")
	}
	defer f.Close()

	d, err := record.Import(f, e.app.Setting().Stage2.Total())
	if err != nil {
		return err
	}
	if err := e.book.Replace(ctx, d); err != nil {
		return err
	}
	color.Green("imported %d records from %s", e.book.Len(), *in)
	return nil
}
