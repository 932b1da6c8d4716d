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

package server

import (
	"context"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/packetd/multiparts/internal/tracekit"
	"github.com/packetd/multiparts/logger"
	"github.com/packetd/multiparts/multipart"
)

// parseEvent is one line of the /v1/parse NDJSON response. Only one of
// Preamble/Part/Epilogue is populated, mirroring which multipart.Event
// produced it.
type parseEvent struct {
	Kind     string            `json:"kind"`
	TraceID  string            `json:"trace_id,omitempty"`
	Preamble []byte            `json:"preamble,omitempty"`
	Epilogue []byte            `json:"epilogue,omitempty"`
	PartID   string            `json:"part_id,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
	BodyLen  int               `json:"body_len,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// NewParseHandler returns an http.HandlerFunc that parses a multipart/*
// request body and streams one JSON object per event back to the caller as
// newline-delimited JSON, so a client can start consuming parts before the
// request body has finished arriving. opts is applied on top of
// multipart.DefaultLimits for every request the handler serves, letting a
// caller (typically cmd/serve.go, from the "multipart" config section) cap
// part body size or queue depth without touching this file.
//
// It never buffers a part body in full: each part's bytes are read in
// chunks and only their count is reported, consistent with this package
// drawing the line at part semantics (no Content-Disposition decoding, no
// form-field materialization).
func NewParseHandler(opts ...multipart.Option) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var traceID string
		if tc, ok := tracekit.TraceIDFromHTTPHeader(r.Header); ok {
			traceID = tc.TraceID.String()
		}

		contentType, contentLength := multipart.HeaderFromRequest(r)
		stream, err := multipart.Parse(r.Context(), r.Body, contentType, contentLength, opts...)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer stream.Close()

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.WriteHeader(http.StatusOK)

		enc := json.NewEncoder(w)
		flusher, _ := w.(http.Flusher)

		for {
			evt, err := stream.Next(r.Context())
			if err != nil {
				_ = enc.Encode(parseEvent{Kind: "error", TraceID: traceID, Error: err.Error()})
				return
			}
			if evt == nil {
				return
			}

			line, encErr := eventToLine(r.Context(), evt, traceID)
			if encErr != nil {
				logger.Errorf("failed to encode parse event: %v", encErr)
				evt.Release()
				continue
			}
			if err := enc.Encode(line); err != nil {
				evt.Release()
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

// HandleParse is NewParseHandler with no overrides: multipart.DefaultLimits
// applies to every request. cmd/serve.go does not use it: it registers
// NewParseHandler directly with whatever overrides the "multipart" config
// section supplies.
var HandleParse = NewParseHandler()

func eventToLine(ctx context.Context, evt multipart.Event, traceID string) (parseEvent, error) {
	switch e := evt.(type) {
	case *multipart.PreambleEvent:
		return parseEvent{Kind: "preamble", TraceID: traceID, Preamble: e.Body}, nil

	case *multipart.EpilogueEvent:
		return parseEvent{Kind: "epilogue", TraceID: traceID, Epilogue: e.Body}, nil

	case *multipart.PartEvent:
		headers, err := e.Headers(ctx)
		if err != nil {
			return parseEvent{}, err
		}
		n, err := io.Copy(io.Discard, e.Body())
		if err != nil {
			return parseEvent{}, err
		}
		return parseEvent{
			Kind:    "part",
			TraceID: traceID,
			PartID:  e.ID(),
			Headers: headers.Map(),
			BodyLen: int(n),
		}, nil

	default:
		return parseEvent{Kind: "unknown", TraceID: traceID}, nil
	}
}
