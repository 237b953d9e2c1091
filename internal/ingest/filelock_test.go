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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileLock_LockAndUnlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".ingest.lock")
	lock := NewFileLock(path)

	require.NoError(t, lock.Lock())
	require.FileExists(t, path)
	require.NoError(t, lock.Unlock())
}

func TestFileLock_SecondTryLockFailsWhileHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ingest.lock")
	first := NewFileLock(path)
	require.NoError(t, first.Lock())
	defer first.Unlock()

	second := flockTryLock(t, path)
	require.False(t, second)
}

func flockTryLock(t *testing.T, path string) bool {
	t.Helper()
	l := NewFileLock(path)
	ok, err := l.lock.TryLock()
	require.NoError(t, err)
	if ok {
		defer l.lock.Unlock()
	}
	return ok
}
