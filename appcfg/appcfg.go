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

// Package appcfg 執行期設定：資料目錄、儲存區種類、日誌模式與上次的玩家。
//
// 來源由低到高：內建預設值 → 資料目錄下的 antigravity.ini → 環境變數 → 指令列參數。
// 資料目錄本身不從 INI 讀取（INI 就放在資料目錄裡）。
package appcfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/zintix-labs/antigravity"
	"github.com/zintix-labs/antigravity/errs"
	"github.com/zintix-labs/antigravity/logger"
	"gopkg.in/ini.v1"
)

const (
	IniFile = "antigravity.ini"
	LogFile = "antigravity.log"
	dirName = "antigravity"
)

type Config struct {
	DataDir string `env:"ANTIGRAVITY_DATA_DIR"`
	Backend string `env:"ANTIGRAVITY_BACKEND"`
	LogMode string `env:"ANTIGRAVITY_LOG_MODE"`
	Player  string
	Avatar  string
}

// prefs antigravity.ini 的內容
type prefs struct {
	Settings struct {
		Backend string `ini:"backend"`
		LogMode string `ini:"log_mode"`
	} `ini:"settings"`
	Player struct {
		Name   string `ini:"name"`
		Avatar string `ini:"avatar"`
	} `ini:"player"`
}

// Defaults 內建預設值；資料目錄為使用者設定目錄下的 antigravity。
func Defaults() Config {
	dir := "."
	if base, err := os.UserConfigDir(); err == nil {
		dir = base
	}
	return Config{
		DataDir: filepath.Join(dir, dirName),
		Backend: antigravity.BackendFile,
		LogMode: logger.ModeProd.String(),
	}
}

// Load 套用預設值、INI 與環境變數。dataDir 非空時優先於環境變數。
//
// INI 不存在不是錯誤；格式錯誤回傳 Warn。
func Load(dataDir string) (Config, error) {
	cfg := Defaults()
	if v, ok := os.LookupEnv("ANTIGRAVITY_DATA_DIR"); ok && strings.TrimSpace(v) != "" {
		cfg.DataDir = v
	}
	if strings.TrimSpace(dataDir) != "" {
		cfg.DataDir = dataDir
	}

	p, err := readPrefs(cfg.IniPath())
	if err != nil {
		return cfg, err
	}
	if p != nil {
		cfg.Backend = pick(p.Settings.Backend, cfg.Backend)
		cfg.LogMode = pick(p.Settings.LogMode, cfg.LogMode)
		cfg.Player = p.Player.Name
		cfg.Avatar = p.Player.Avatar
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, errs.WrapAs(errs.Warn, err, "parse env")
	}
	if strings.TrimSpace(dataDir) != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// Valid 檢查並正規化設定。
func (c *Config) Valid() error {
	c.DataDir = strings.TrimSpace(c.DataDir)
	if c.DataDir == "" {
		return errs.NewFatal("data dir is required")
	}
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case antigravity.BackendFile, antigravity.BackendSQLite, antigravity.BackendMemory:
	default:
		return errs.NewFatal(fmt.Sprintf("unknown backend: %q", c.Backend))
	}
	if _, err := logger.ParseMode(c.LogMode); err != nil {
		return err
	}
	c.Player = strings.TrimSpace(c.Player)
	c.Avatar = strings.TrimSpace(c.Avatar)
	return nil
}

// Mode 日誌模式；無法解析時為 prod。
func (c *Config) Mode() logger.LogMode {
	m, err := logger.ParseMode(c.LogMode)
	if err != nil {
		return logger.ModeProd
	}
	return m
}

func (c *Config) IniPath() string { return filepath.Join(c.DataDir, IniFile) }

func (c *Config) LogPath() string { return filepath.Join(c.DataDir, LogFile) }

// SavePlayer 把玩家名稱與角色寫回 INI，保留檔案內其他設定。
func (c *Config) SavePlayer(name, avatar string) error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return errs.WrapAs(errs.Warn, err, "create data dir")
	}
	f, err := ini.LooseLoad(c.IniPath())
	if err != nil {
		return errs.WrapAs(errs.Warn, err, "load preferences")
	}
	sec := f.Section("player")
	sec.Key("name").SetValue(strings.TrimSpace(name))
	sec.Key("avatar").SetValue(strings.TrimSpace(avatar))
	if err := f.SaveTo(c.IniPath()); err != nil {
		return errs.WrapAs(errs.Warn, err, "save preferences")
	}
	c.Player, c.Avatar = strings.TrimSpace(name), strings.TrimSpace(avatar)
	return nil
}

func readPrefs(path string) (*prefs, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	f, err := ini.Load(path)
	if err != nil {
		return nil, errs.WrapAs(errs.Warn, err, "load preferences")
	}
	p := &prefs{}
	if err := f.MapTo(p); err != nil {
		return nil, errs.WrapAs(errs.Warn, err, "map preferences")
	}
	return p, nil
}

func pick(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}
