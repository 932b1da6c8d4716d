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

	"github.com/hashicorp/go-multierror"
)

// DrainAndRelease releases every remaining event on the stream, to
// cleanly abandon a parse a caller no longer wants to finish reading.
// Each part's headers-future is cancelled and its body drained, so the
// producer never stalls waiting on a consumer that walked away.
//
// A stream-level error of KindCancelled is not reported. Any other error
// the stream surfaces (e.g. a part that hit LimitExceeded) is collected
// into a single combined error.
func DrainAndRelease(ctx context.Context, stream *EventStream) error {
	var result *multierror.Error
	for {
		evt, err := stream.Next(ctx)
		if err != nil {
			if !IsKind(err, KindCancelled) {
				result = multierror.Append(result, err)
			}
			continue
		}
		if evt == nil {
			break
		}
		evt.Release()
	}
	return result.ErrorOrNil()
}
