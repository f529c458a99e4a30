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

package spec

import (
	"fmt"
	"time"

	"github.com/zintix-labs/antigravity/errs"
)

// Range 閉區間 [lo, hi]，YAML 寫成 [1, 24]。
type Range [2]int

func (r Range) Lo() int { return r[0] }
func (r Range) Hi() int { return r[1] }

// Contains 判斷 v 是否落在區間內（含端點）
func (r Range) Contains(v int) bool { return v >= r[0] && v <= r[1] }

// Size 區間內整數個數
func (r Range) Size() int { return r[1] - r[0] + 1 }

func (r Range) valid(field string) error {
	if r[0] < 0 || r[0] > r[1] {
		return errs.NewFatal(fmt.Sprintf("invalid %s: [%d, %d]", field, r[0], r[1]))
	}
	return nil
}

// Stage1Setting 第一關：補數拼圖。
//
// 每一題給出 Numbers 內的一個數字 n，正解為 TargetSum - n；
// 選項從 Numbers 內抽不重複的錯誤答案補滿 Options 個。
type Stage1Setting struct {
	TargetSum    int           `yaml:"target_sum"    json:"target_sum"`
	Numbers      Range         `yaml:"numbers"       json:"numbers"`
	Options      int           `yaml:"options"       json:"options"`
	CorrectDelay time.Duration `yaml:"correct_delay" json:"correct_delay"`
	WrongDelay   time.Duration `yaml:"wrong_delay"   json:"wrong_delay"`
}

func (s *Stage1Setting) init() error {
	if err := s.Numbers.valid("stage1.numbers"); err != nil {
		return err
	}
	// 正解必須也在選項池內，否則永遠選不到
	if !s.Numbers.Contains(s.TargetSum-s.Numbers.Lo()) || !s.Numbers.Contains(s.TargetSum-s.Numbers.Hi()) {
		return errs.NewFatal(fmt.Sprintf("stage1.target_sum %d leaves complements outside numbers", s.TargetSum))
	}
	if s.Options < 2 || s.Options > s.Numbers.Size() {
		return errs.NewFatal(fmt.Sprintf("invalid stage1.options: %d", s.Options))
	}
	if s.CorrectDelay < 0 || s.WrongDelay < 0 {
		return errs.NewFatal("stage1 delays must be >= 0")
	}
	return nil
}

// Puzzles 第一關題數（Numbers 內每個數字各出一次）
func (s *Stage1Setting) Puzzles() int {
	return s.Numbers.Size()
}

// OperationSetting 一種運算的題數與運算元範圍。
type OperationSetting struct {
	Count  int   `yaml:"count"  json:"count"`
	First  Range `yaml:"first"  json:"first"`
	Second Range `yaml:"second" json:"second"`
}

func (o *OperationSetting) valid(name string) error {
	if o.Count < 0 {
		return errs.NewFatal(fmt.Sprintf("invalid stage2.%s.count: %d", name, o.Count))
	}
	if err := o.First.valid("stage2." + name + ".first"); err != nil {
		return err
	}
	return o.Second.valid("stage2." + name + ".second")
}

// Stage2Setting 第二關：計時加減法。
//
// 前 Addition.Count 題為加法，其後 Subtraction.Count 題為減法。
type Stage2Setting struct {
	Addition     OperationSetting `yaml:"addition"      json:"addition"`
	Subtraction  OperationSetting `yaml:"subtraction"   json:"subtraction"`
	Chances      int              `yaml:"chances"       json:"chances"`
	CorrectDelay time.Duration    `yaml:"correct_delay" json:"correct_delay"`
	RevealDelay  time.Duration    `yaml:"reveal_delay"  json:"reveal_delay"`
	Tick         time.Duration    `yaml:"tick"          json:"tick"`
}

func (s *Stage2Setting) init() error {
	if err := s.Addition.valid("addition"); err != nil {
		return err
	}
	if err := s.Subtraction.valid("subtraction"); err != nil {
		return err
	}
	if s.Total() < 1 {
		return errs.NewFatal("stage2 needs at least one question")
	}
	if s.Chances < 1 {
		return errs.NewFatal(fmt.Sprintf("invalid stage2.chances: %d", s.Chances))
	}
	if s.CorrectDelay < 0 || s.RevealDelay < 0 {
		return errs.NewFatal("stage2 delays must be >= 0")
	}
	if s.Tick <= 0 {
		s.Tick = time.Second
	}
	return nil
}

// Total 第二關總題數
func (s *Stage2Setting) Total() int {
	return s.Addition.Count + s.Subtraction.Count
}
