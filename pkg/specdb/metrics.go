// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Optional Prometheus instrumentation for the Lookup Engine and Handle
// stats, mirroring the metrics shape the teacher wires into its own
// ingestion pipeline.
package specdb

import "github.com/prometheus/client_golang/prometheus"

// Metrics is a small set of counters/histograms registered by NewMetrics
// and passed to a Handle with WithMetrics. The Handle only reports into
// Lookups (from Lookup and LookupBestMatch); nothing in this package
// increments Compiles or observes LookupNanos. nil fields are treated as
// "not registered"; callers that only want a subset can leave the rest
// nil.
type Metrics struct {
	Lookups     *prometheus.CounterVec // labels: result = hit|not_found|error
	Compiles    prometheus.Counter
	LookupNanos prometheus.Histogram
}

// NewMetrics registers the standard label-lookup metrics on reg and
// returns them ready to pass to WithMetrics.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "labelfs_lookups_total",
			Help: "Total path lookups by result.",
		}, []string{"result"}),
		Compiles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "labelfs_regex_compiles_total",
			Help: "Total lazy regex compilations performed.",
		}),
		LookupNanos: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "labelfs_lookup_duration_seconds",
			Help:    "Lookup latency in seconds.",
			Buckets: prometheus.ExponentialBuckets(1e-7, 4, 10),
		}),
	}
	for _, c := range []prometheus.Collector{m.Lookups, m.Compiles, m.LookupNanos} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeLookup(result string) {
	if m == nil || m.Lookups == nil {
		return
	}
	m.Lookups.WithLabelValues(result).Inc()
}
