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

// Package catalog 角色目錄：開始畫面可選的角色（頭像符號 + 名稱）。
//
// 目錄建立時就檢查重複，之後只讀；順序與設定檔一致，方便以索引切換。
package catalog

import (
	"fmt"
	"strings"

	"github.com/zintix-labs/antigravity/errs"
	"github.com/zintix-labs/antigravity/spec"
)

var (
	ErrDupToken = errs.NewFatal("duplicate character token")
	ErrDupName  = errs.NewFatal("duplicate character name")
	ErrEmpty    = errs.NewFatal("empty character catalog")
)

type Entry struct {
	Index int
	Token string
	Name  string
}

// Label 顯示用字串，例如 "🚀 용감한 우주비행사"
func (e Entry) Label() string {
	return e.Token + " " + e.Name
}

type Catalog struct {
	entries []Entry
	byToken map[string]int
	byName  map[string]int
}

func New(chars []spec.CharacterSetting) (*Catalog, error) {
	if len(chars) == 0 {
		return nil, ErrEmpty
	}
	c := &Catalog{
		entries: make([]Entry, 0, len(chars)),
		byToken: make(map[string]int, len(chars)),
		byName:  make(map[string]int, len(chars)),
	}
	for i, ch := range chars {
		token := strings.TrimSpace(ch.Token)
		name := strings.TrimSpace(ch.Name)
		if token == "" || name == "" {
			return nil, errs.NewFatal(fmt.Sprintf("character %d needs token and name", i))
		}
		if _, ok := c.byToken[token]; ok {
			return nil, ErrDupToken
		}
		key := strings.ToLower(name)
		if _, ok := c.byName[key]; ok {
			return nil, ErrDupName
		}
		c.byToken[token] = i
		c.byName[key] = i
		c.entries = append(c.entries, Entry{Index: i, Token: token, Name: name})
	}
	return c, nil
}

func (c *Catalog) Len() int { return len(c.entries) }

// At 以索引取角色；超出範圍時會繞回（-1 代表最後一個），方便左右切換。
func (c *Catalog) At(i int) Entry {
	n := len(c.entries)
	i %= n
	if i < 0 {
		i += n
	}
	return c.entries[i]
}

func (c *Catalog) ByToken(token string) (Entry, bool) {
	i, ok := c.byToken[strings.TrimSpace(token)]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

func (c *Catalog) ByName(name string) (Entry, bool) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

func (c *Catalog) All() []Entry {
	return append([]Entry(nil), c.entries...)
}
