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

import (
	"fmt"

	"github.com/zintix-labs/antigravity/errs"
)

var (
	ErrDailyLimit = errs.NewWarn("daily limit reached")
	ErrNotNumber  = errs.NewLog("answer is not a number")
)

// FeedbackKind 提示訊息的種類，決定畫面上的顏色。
type FeedbackKind uint8

const (
	FeedbackNone FeedbackKind = iota
	FeedbackSuccess
	FeedbackError
	FeedbackWarning
)

func (k FeedbackKind) String() string {
	switch k {
	case FeedbackSuccess:
		return "success"
	case FeedbackError:
		return "error"
	case FeedbackWarning:
		return "warning"
	}
	return ""
}

// Feedback 目前畫面的提示訊息
type Feedback struct {
	Kind FeedbackKind
	Text string
}

func (f Feedback) Empty() bool { return f.Kind == FeedbackNone }

const (
	msgPuzzleCorrect = "✅ 퍼즐 합체! 에너지가 충전되었어요!"
	msgPuzzleWrong   = "❌ 다시 생각해보세요!"
	msgNotNumber     = "숫자를 입력해주세요!"
	msgQuizCorrect   = "⭐ 정답입니다! 에너지가 솟아나요!"
)

func success(text string) Feedback { return Feedback{Kind: FeedbackSuccess, Text: text} }
func failure(text string) Feedback { return Feedback{Kind: FeedbackError, Text: text} }
func warning(text string) Feedback { return Feedback{Kind: FeedbackWarning, Text: text} }

func msgRetry(chances int) string { return fmt.Sprintf("❌ 틀렸어요! 남은 기회: %d번", chances) }
func msgReveal(answer int) string { return fmt.Sprintf("🚨 정답: %d", answer) }
func msgDailyLimit(limit int) string {
	return fmt.Sprintf("🛑 오늘은 이미 %d번 연습했어요. 내일 또 만나요!", limit)
}
