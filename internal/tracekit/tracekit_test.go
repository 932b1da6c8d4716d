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

package tracekit

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestTraceIDFromHTTPHeader(t *testing.T) {
	genTc := func(traceID, spanID string) TraceContext {
		tid, _ := trace.TraceIDFromHex(traceID)
		sid, _ := trace.SpanIDFromHex(spanID)
		return TraceContext{TraceID: tid, SpanID: sid}
	}

	tests := []struct {
		name        string
		traceParent string
		tc          TraceContext
		ok          bool
	}{
		{
			name:        "valid",
			traceParent: "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01",
			tc:          genTc("0af7651916cd43dd8448eb211c80319c", "b7ad6b7169203331"),
			ok:          true,
		},
		{
			name:        "invalid traceid",
			traceParent: "00-0af7651916cd43dd8448eb211c80319!-b7ad6b7169203331-01",
			tc:          TraceContext{},
			ok:          false,
		},
		{
			name:        "invalid version",
			traceParent: "02-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01",
			tc:          TraceContext{},
			ok:          false,
		},
		{
			name:        "missing header",
			traceParent: "",
			tc:          TraceContext{},
			ok:          false,
		},
		{
			name:        "wrong number of parts",
			traceParent: "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331",
			tc:          TraceContext{},
			ok:          false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := make(http.Header)
			if tt.traceParent != "" {
				header.Set(headerTraceParent, tt.traceParent)
			}

			got, ok := TraceIDFromHTTPHeader(header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.tc, got)
		})
	}
}

func TestRandomTraceIDAndSpanID(t *testing.T) {
	t1, t2 := RandomTraceID(), RandomTraceID()
	assert.NotEqual(t, t1, t2)
	assert.True(t, t1.IsValid())

	s1, s2 := RandomSpanID(), RandomSpanID()
	assert.NotEqual(t, s1, s2)
	assert.True(t, s1.IsValid())
}
