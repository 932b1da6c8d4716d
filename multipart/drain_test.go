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
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainAndReleaseCleanStream(t *testing.T) {
	body := "--X\r\nA: 1\r\n\r\nfirst\r\n--X\r\nA: 2\r\n\r\nsecond\r\n--X--\r\n"
	stream, err := Parse(context.Background(), strings.NewReader(body), "multipart/mixed; boundary=X", -1)
	require.NoError(t, err)

	err = DrainAndRelease(context.Background(), stream)
	assert.NoError(t, err)
}

func TestDrainAndReleaseSurfacesOtherFailures(t *testing.T) {
	body := "--X\r\n\r\n" + strings.Repeat("x", 100) + "\r\n--X--\r\n"
	stream, err := Parse(context.Background(), strings.NewReader(body), "multipart/mixed; boundary=X", -1, WithPartBodyLimit(10))
	require.NoError(t, err)

	err = DrainAndRelease(context.Background(), stream)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindLimitExceeded))
}
