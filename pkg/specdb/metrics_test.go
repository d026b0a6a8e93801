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

package specdb

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.observeLookup("hit")
	m.observeLookup("hit")
	m.observeLookup("not_found")

	require.Equal(t, float64(2), testutil.ToFloat64(m.Lookups.WithLabelValues("hit")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Lookups.WithLabelValues("not_found")))
}

func TestNilMetricsObserveLookupIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() { m.observeLookup("hit") })
}
