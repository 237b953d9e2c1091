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

package tool

import (
	"strings"

	"github.com/kadirpekel/retrieval-core/internal/apierrors"
)

const catalogSearchMaxLimit = 20

func requireNonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &apierrors.ValidationError{Field: field, Message: "must not be empty"}
	}
	return nil
}

// clampLimit returns def when requested is non-positive, and caps at max
// when max > 0 and requested exceeds it.
func clampLimit(requested, def, max int) int {
	if requested <= 0 {
		return def
	}
	if max > 0 && requested > max {
		return max
	}
	return requested
}
