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

package record

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/antigravity/errs"
)

const archiveVersion = 1

// archive 匯出檔格式：JSON 再以 zstd 壓縮。
type archive struct {
	Version    int    `json:"version"`
	ExportedAt string `json:"exported_at"`
	Data       Data   `json:"data"`
}

// Export 將 d 寫成壓縮的匯出檔。
func Export(w io.Writer, d Data, now time.Time) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return errs.Wrap(err, "export: create zstd writer")
	}
	a := archive{Version: archiveVersion, ExportedAt: now.Format(time.RFC3339), Data: d.Clone()}
	if err := json.NewEncoder(zw).Encode(&a); err != nil {
		_ = zw.Close()
		return errs.Wrap(err, "export: encode json")
	}
	if err := zw.Close(); err != nil {
		return errs.Wrap(err, "export: close zstd writer")
	}
	return nil
}

// Import 讀取匯出檔並檢查內容；maxScore 為單局滿分。
//
// 格式錯誤屬於操作者可處理的問題，回傳 Warn 等級錯誤。
func Import(r io.Reader, maxScore int) (Data, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return Data{}, errs.WrapAs(errs.Warn, err, "import: open zstd reader")
	}
	defer zr.Close()

	var a archive
	if err := json.NewDecoder(zr).Decode(&a); err != nil {
		return Data{}, errs.WrapAs(errs.Warn, err, "import: decode json")
	}
	if a.Version != archiveVersion {
		return Data{}, errs.Warnf("import: unsupported archive version %d", a.Version)
	}
	for i, e := range a.Data.History {
		if e.Score < 0 || e.Score > maxScore {
			return Data{}, errs.NewWithExtra(errs.Warn, "import: score out of range", fmt.Sprintf("entry=%d score=%d", i, e.Score))
		}
		if e.Time < 0 {
			return Data{}, errs.NewWithExtra(errs.Warn, "import: negative time", fmt.Sprintf("entry=%d time=%d", i, e.Time))
		}
		if _, err := time.Parse(DayLayout, e.Date); err != nil {
			return Data{}, errs.NewWithExtra(errs.Warn, "import: bad date", fmt.Sprintf("entry=%d date=%q", i, e.Date))
		}
	}
	if a.Data.DailyCount < 0 {
		a.Data.DailyCount = 0
	}
	return a.Data.Clone(), nil
}
