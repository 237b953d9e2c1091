// Copyright 2025 Kadir Pekel
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

package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainTextLoader_SplitsOnBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	content := "first paragraph\nstill first\n\nsecond paragraph\n\n\nthird paragraph\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := PlainTextLoader{}.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "first paragraph\nstill first", records[0].Text)
	require.Equal(t, "second paragraph", records[1].Text)
	require.Equal(t, "third paragraph", records[2].Text)
	require.Equal(t, "lines:1-2", records[0].Loc)
}

func TestPlainTextLoader_MissingFileIsAnError(t *testing.T) {
	_, err := PlainTextLoader{}.Load(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
