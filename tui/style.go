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

package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/zintix-labs/antigravity/game"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	pickStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	optionStyle  = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	cursorStyle  = optionStyle.BorderForeground(lipgloss.Color("212"))
	rightStyle   = optionStyle.BorderForeground(lipgloss.Color("10")).Foreground(lipgloss.Color("10"))
	wrongStyle   = optionStyle.BorderForeground(lipgloss.Color("9")).Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	rewardStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	frameStyle   = lipgloss.NewStyle().Padding(1, 2)
)

func feedbackView(f game.Feedback) string {
	switch f.Kind {
	case game.FeedbackSuccess:
		return successStyle.Render(f.Text)
	case game.FeedbackError:
		return errorStyle.Render(f.Text)
	case game.FeedbackWarning:
		return warnStyle.Render(f.Text)
	default:
		return ""
	}
}
