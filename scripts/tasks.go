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
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// runTest 只留下每個套件的 ok / FAIL 結果行
func runTest() error {
	color.Green("running tests")
	cleanCache()
	return stream(exec.Command("go", "test", "./...", "-cover", "-count=1"), func(line string) {
		switch {
		case strings.HasPrefix(line, "ok"):
			color.Green("%s", line)
		case strings.HasPrefix(line, "FAIL"):
			color.Red("%s", line)
		case strings.Contains(line, "build failed"), strings.Contains(line, "setup failed"):
			// 編譯錯誤不是 ok/FAIL 開頭，也要看得到
			color.Red("%s", line)
		}
	})
}

// runTestAll 全部套件測試並顯示覆蓋率
func runTestAll() error {
	color.Green("running tests (all with coverage)")
	cleanCache()
	cmd := exec.Command("go", "test", "./...", "-cover")
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	return cmd.Run()
}

// runTestDetail verbose 測試，濾掉沒有測試檔的套件
func runTestDetail() error {
	color.Green("running tests (detail)")
	cleanCache()
	return stream(exec.Command("go", "test", "./...", "-v", "-count=1"), func(line string) {
		switch {
		case strings.Contains(line, "[no test files]"):
		case strings.HasPrefix(line, "ok"), strings.HasPrefix(line, "--- PASS"):
			color.Green("%s", line)
		case strings.HasPrefix(line, "FAIL"), strings.HasPrefix(line, "--- FAIL"):
			color.Red("%s", line)
		default:
			fmt.Println(line)
		}
	})
}

// runSim 固定 seed 跑一次模擬器，方便比對改動前後的報告
func runSim() error {
	color.Green("running simulator (seed 1)")
	cmd := exec.Command("go", "run", "./cmd/sim", "-n", "5000", "-acc", "0.85", "-seed", "1")
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	return cmd.Run()
}

// runPGO 收集模擬器的 CPU profile 並放到 cmd/sim/default.pgo
func runPGO() error {
	color.Green("collecting cpu profile for pgo")
	cmd := exec.Command("go", "run", "./cmd/sim", "-n", "20000", "-seed", "1", "-pb=false", "-p", "cpu")
	cmd.Stdout, cmd.Stderr = io.Discard, os.Stderr
	if err := cmd.Run(); err != nil {
		return err
	}
	src, err := os.ReadFile(filepath.Join("build", "profiling", "cpu.pprof"))
	if err != nil {
		return err
	}
	dst := filepath.Join("cmd", "sim", "default.pgo")
	if err := os.WriteFile(dst, src, 0o644); err != nil {
		return err
	}
	color.Green("wrote %s", dst)
	return nil
}

func cleanCache() {
	if err := exec.Command("go", "clean", "-testcache").Run(); err != nil {
		// clean 失敗不影響測試本身
		color.Yellow("go clean -testcache failed: %v", err)
	}
}

// stream 合併 stdout/stderr，逐行交給 handle
func stream(cmd *exec.Cmd, handle func(line string)) error {
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		handle(sc.Text())
	}
	if err := sc.Err(); err != nil {
		color.Red("scanner error: %v", err)
	}
	return cmd.Wait()
}
