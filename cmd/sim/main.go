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

import "github.com/zintix-labs/antigravity/perf"

// 自動遊玩模擬器
//
//	go run ./cmd/sim -n 10000 -acc 0.85
//	go run ./cmd/sim -n 1000 -format yaml -p cpu
func main() {
	bindVar()
	if err := perf.Run(executeSimulator, cfg.pprofmode, ""); err != nil {
		fatal(err)
	}
}
