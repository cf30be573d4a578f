// Copyright 2026 Blink Labs Software
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

package blob

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricNamePrefix = "chaincore_database_blob_"

type storeMetrics struct {
	reads        prometheus.Counter
	writes       prometheus.Counter
	bytesRead    prometheus.Counter
	bytesWritten prometheus.Counter
}

// init creates the counters. A nil registry leaves them unregistered.
func (m *storeMetrics) init(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	m.reads = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: metricNamePrefix + "reads_total",
		Help: "total number of blob values read",
	})
	m.writes = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: metricNamePrefix + "writes_total",
		Help: "total number of blob values written",
	})
	m.bytesRead = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: metricNamePrefix + "read_bytes_total",
		Help: "total bytes of blob values read",
	})
	m.bytesWritten = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: metricNamePrefix + "written_bytes_total",
		Help: "total bytes of blob values written",
	})
}
