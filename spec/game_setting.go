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

// Package spec 定義遊戲規則設定（GameSetting）與其讀取、檢查流程。
//
// 設定檔一律由 fs.FS 提供：預設值以 go:embed 編進 binary（見 configs），
// 也可以用 os.DirFS 讀取外部檔案來調整題數、範圍與節奏。
package spec

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"

	"github.com/zintix-labs/antigravity/errs"
	"gopkg.in/yaml.v3"
)

// GameSetting 一份完整的遊戲規則。
type GameSetting struct {
	GameName      string             `yaml:"game_name"      json:"game_name"`
	DefaultPlayer string             `yaml:"default_player" json:"default_player"`
	Characters    []CharacterSetting `yaml:"characters"     json:"characters"`
	Stage1        Stage1Setting      `yaml:"stage1"         json:"stage1"`
	Stage2        Stage2Setting      `yaml:"stage2"         json:"stage2"`
	Record        RecordSetting      `yaml:"record"         json:"record"`
	Daily         DailySetting       `yaml:"daily"          json:"daily"`
}

// CharacterSetting 角色（頭像符號 + 顯示名稱）。
type CharacterSetting struct {
	Token string `yaml:"token" json:"token"`
	Name  string `yaml:"name"  json:"name"`
}

// RecordSetting 歷史紀錄的保存與顯示範圍。
type RecordSetting struct {
	HistoryCap  int `yaml:"history_cap"  json:"history_cap"`  // 最多保存幾筆（超過從最舊的丟）
	GraphWindow int `yaml:"graph_window" json:"graph_window"` // 成長圖顯示最近幾筆
	ListWindow  int `yaml:"list_window"  json:"list_window"`  // 紀錄列表顯示最近幾筆
}

// DailySetting 每日次數限制與獎勵。
type DailySetting struct {
	Limit           int      `yaml:"limit"            json:"limit"` // 0 表示不限制
	RewardThreshold int      `yaml:"reward_threshold" json:"reward_threshold"`
	RewardTitle     string   `yaml:"reward_title"     json:"reward_title"`
	Fortunes        []string `yaml:"fortunes"         json:"fortunes"`
}

// Load 從 fsys 讀取名為 name 的 YAML 設定，並完成初始化與檢查。
func Load(fsys fs.FS, name string) (*GameSetting, error) {
	if fsys == nil {
		return nil, errs.NewFatal("settings fs required")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.Wrap(err, fmt.Sprintf("read settings %s", name))
	}
	return GetGameSettingByYAML(data)
}

// GetGameSettingByYAML
// 嚴格解析 YAML（多寫/拼錯欄位就報錯），初始化各子設定並執行基本檢查後回傳
func GetGameSettingByYAML(data []byte) (*GameSetting, error) {
	gs := &GameSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(gs); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}
	if err := gs.init(); err != nil {
		return nil, errs.Wrap(err, "game setting initialized err")
	}
	return gs, nil
}

// init 整理字串欄位後做檢查
func (gs *GameSetting) init() error {
	gs.GameName = strings.TrimSpace(gs.GameName)
	gs.DefaultPlayer = strings.TrimSpace(gs.DefaultPlayer)
	for i := range gs.Characters {
		gs.Characters[i].Token = strings.TrimSpace(gs.Characters[i].Token)
		gs.Characters[i].Name = strings.TrimSpace(gs.Characters[i].Name)
	}
	if err := gs.Stage1.init(); err != nil {
		return err
	}
	if err := gs.Stage2.init(); err != nil {
		return err
	}
	return gs.valid()
}

// valid 執行最基本的設定檔檢查
func (gs *GameSetting) valid() error {
	if gs.GameName == "" {
		return errs.NewFatal("empty game_name")
	}
	if gs.DefaultPlayer == "" {
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:empty default_player", gs.GameName))
	}
	if len(gs.Characters) == 0 {
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:empty characters", gs.GameName))
	}
	for i, c := range gs.Characters {
		if c.Token == "" || c.Name == "" {
			return errs.NewFatal(fmt.Sprintf("game_name: %s err:character %d needs token and name", gs.GameName, i))
		}
	}

	r := gs.Record
	if r.HistoryCap < 1 {
		return errs.NewFatal(fmt.Sprintf("invalid record.history_cap: %d", r.HistoryCap))
	}
	if r.GraphWindow < 1 || r.GraphWindow > r.HistoryCap {
		return errs.NewFatal(fmt.Sprintf("invalid record.graph_window: %d", r.GraphWindow))
	}
	if r.ListWindow < 1 || r.ListWindow > r.HistoryCap {
		return errs.NewFatal(fmt.Sprintf("invalid record.list_window: %d", r.ListWindow))
	}

	d := gs.Daily
	if d.Limit < 0 {
		return errs.NewFatal(fmt.Sprintf("invalid daily.limit: %d", d.Limit))
	}
	if d.RewardThreshold < 1 {
		return errs.NewFatal(fmt.Sprintf("invalid daily.reward_threshold: %d", d.RewardThreshold))
	}
	if len(d.Fortunes) == 0 {
		return errs.NewFatal("empty daily.fortunes")
	}
	return nil
}

// Questions 第二關總題數
func (gs *GameSetting) Questions() int {
	return gs.Stage2.Total()
}
