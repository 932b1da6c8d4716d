// Copyright 2025 The multiparts Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package multipart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenViews(t *testing.T) {
	tok := newToken([]byte("XYZ"))

	assert.Equal(t, "\r\n--XYZ", string(tok.Full()))
	assert.Equal(t, "--XYZ", string(tok.First()))
	assert.Equal(t, "XYZ", string(tok.Value()))
}

func TestTokenEmptyValue(t *testing.T) {
	tok := newToken(nil)
	assert.Equal(t, "\r\n--", string(tok.Full()))
	assert.Equal(t, "--", string(tok.First()))
	assert.Equal(t, "", string(tok.Value()))
}
