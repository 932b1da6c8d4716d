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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/packetd/multiparts/common"
)

var partsParsed = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: common.App,
		Name:      "parts_parsed_total",
		Help:      "multipart parses that completed without error",
	},
)

var parseErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: common.App,
		Name:      "parse_errors_total",
		Help:      "multipart parses that failed, by error kind",
	},
	[]string{"kind"},
)

var parseDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: common.App,
		Name:      "parse_duration_seconds",
		Help:      "time spent driving a multipart parse end to end",
		Buckets:   prometheus.DefBuckets,
	},
)
