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

// Package perf 給命令列工具用的 pprof 包裝。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/antigravity/errs"
)

// Dir pprof 檔案預設寫入路徑
const Dir = "build/profiling"

// Run 依 mode 決定對 exe 做哪種 profiling；mode 為空時直接執行。
//
//	go run ./cmd/sim -p cpu
func Run(exe func() error, mode, dir string) error {
	if dir == "" {
		dir = Dir
	}
	switch mode {
	case "":
		return exe()
	case "cpu":
		return CPU(exe, dir)
	case "heap":
		return snapshot(exe, dir, "heap")
	case "allocs":
		return snapshot(exe, dir, "allocs")
	default:
		return errs.Warnf("unknown pprof mode: %q", mode)
	}
}

// CPU 在 exe 執行期間收集 CPU profile，可作為 pgo 的輸入。
func CPU(exe func() error, dir string) error {
	f, err := create(dir, "cpu.pprof")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "start cpu profile")
	}
	defer pprof.StopCPUProfile()
	return exe()
}

// snapshot 在 exe 結束後寫出一次 heap（存活物件）或 allocs（累積配置）快照。
func snapshot(exe func() error, dir, name string) error {
	if err := exe(); err != nil {
		return err
	}
	if name == "heap" {
		// 讓快照貼近最新狀態
		runtime.GC()
	}
	f, err := create(dir, name+".pprof")
	if err != nil {
		return err
	}
	defer f.Close()
	prof := pprof.Lookup(name)
	if prof == nil {
		return errs.Fatalf("profile %s not found", name)
	}
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Wrap(err, "write "+name+" profile")
	}
	return nil
}

func create(dir, file string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "create pprof dir")
	}
	f, err := os.Create(filepath.Join(dir, file))
	if err != nil {
		return nil, errs.Wrap(err, "create "+file)
	}
	return f, nil
}
