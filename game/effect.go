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

import "time"

// TaskKind 延遲動作的種類
type TaskKind uint8

const (
	_                 TaskKind = iota
	TaskStage1Unlock           // 答錯後解除鎖定
	TaskStage1Advance          // 答對後換下一題或進入第二關
	TaskStage2Advance          // 答對或公布答案後換下一題或結算
)

func (k TaskKind) String() string {
	switch k {
	case TaskStage1Unlock:
		return "stage1-unlock"
	case TaskStage1Advance:
		return "stage1-advance"
	case TaskStage2Advance:
		return "stage2-advance"
	}
	return "unknown"
}

// Task 一次性的延遲動作，Epoch 與 Session 目前的 epoch 不同時視為過期。
type Task struct {
	Kind  TaskKind
	Epoch uint64
}

// Effect Session 操作後要求畫面層執行的副作用。
type Effect interface {
	isEffect()
}

// Schedule 在 After 之後呼叫 Session.Fire(Task)。
type Schedule struct {
	Task  Task
	After time.Duration
}

// StartTimer 每 Every 呼叫一次 Session.Tick(Epoch)，直到 Tick 回傳 false。
type StartTimer struct {
	Epoch uint64
	Every time.Duration
}

// StopTimer 計時器已停止，畫面層可以丟掉還在路上的 tick。
type StopTimer struct{}

// ClearInput 清空答案輸入框。
type ClearInput struct{}

func (Schedule) isEffect()   {}
func (StartTimer) isEffect() {}
func (StopTimer) isEffect()  {}
func (ClearInput) isEffect() {}
