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

package database

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricNamePrefix = "chaincore_database_"

type databaseMetrics struct {
	blocksStored            prometheus.Counter
	snapshotsStored         prometheus.Counter
	snapshotRawBytes        prometheus.Counter
	snapshotCompressedBytes prometheus.Counter
	decodeFailures          *prometheus.CounterVec
}

func (m *databaseMetrics) init(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	m.blocksStored = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: metricNamePrefix + "blocks_stored_total",
		Help: "total number of blocks stored",
	})
	m.snapshotsStored = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: metricNamePrefix + "snapshots_stored_total",
		Help: "total number of ledger snapshots stored",
	})
	m.snapshotRawBytes = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: metricNamePrefix + "snapshot_raw_bytes_total",
		Help: "total bytes of encoded snapshot streams stored",
	})
	m.snapshotCompressedBytes = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: metricNamePrefix + "snapshot_compressed_bytes_total",
		Help: "total bytes of compressed snapshot streams stored",
	})
	m.decodeFailures = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricNamePrefix + "decode_failures_total",
			Help: "total number of blocks or snapshots rejected on decode",
		},
		[]string{"kind"},
	)
}
