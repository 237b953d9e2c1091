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

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestFilteringHandler_SuppressesThirdPartyLogsAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	handler := &filteringHandler{handler: base, minLevel: slog.LevelInfo}

	// A record whose PC points into the standard library stands in for a
	// log emitted by a third-party package.
	record := slog.NewRecord(time.Now(), slog.LevelInfo, "a log not attributed to this module's call stack", reflect.ValueOf(strings.ToLower).Pointer())
	require.NoError(t, handler.Handle(context.Background(), record))
	require.Empty(t, buf.String(), "third-party logs above debug level must be suppressed")
}

func TestFilteringHandler_PassesEverythingAtDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	handler := &filteringHandler{handler: base, minLevel: slog.LevelDebug}
	logger := slog.New(handler)

	logger.Debug("verbose diagnostic")
	require.Contains(t, buf.String(), "verbose diagnostic")
}

func TestNew_WritesToProvidedOutput(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	logger := New(slog.LevelDebug, w)
	logger.Debug("hello from the pipeline")
	w.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "hello from the pipeline")
}
