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

package antigravity

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/antigravity/errs"
	"github.com/zintix-labs/antigravity/record"
)

// 儲存區種類
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DBFile SQLite 儲存區在資料目錄下的檔名
const DBFile = "antigravity.db"

// OpenStore 依 backend 開啟資料目錄 dir 下的儲存區。
func OpenStore(backend, dir string) (record.KV, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return record.NewFileKV(dir)
	case BackendSQLite:
		return record.OpenSQLite(filepath.Join(dir, DBFile))
	case BackendMemory:
		return record.NewMemKV(), nil
	default:
		return nil, errs.NewFatal(fmt.Sprintf("unknown record backend: %q", backend))
	}
}
