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

// Package game 是遊戲的純邏輯層。
//
// Session 持有一局遊戲的所有狀態，每個操作只改變狀態並回傳 Effect（排程、計時器、清空輸入），
// 不碰任何畫面。畫面層（tui 或模擬器）負責執行 Effect，並在時間到時把 Task 交回 Session.Fire。
//
// 每次切換畫面 epoch 都會遞增；帶著舊 epoch 的 Task 與計時 tick 一律忽略，
// 所以離開某個畫面後，之前排好的延遲動作不會改到新畫面的狀態。
package game

// Screen 目前顯示的畫面，同一時間只有一個。
type Screen uint8

const (
	ScreenStart Screen = iota
	ScreenStage1
	ScreenStage2
	ScreenResult
	ScreenHistory
)

var screenNames = [...]string{"start", "stage1", "stage2", "result", "history"}

func (s Screen) String() string {
	if int(s) < len(screenNames) {
		return screenNames[s]
	}
	return "unknown"
}
