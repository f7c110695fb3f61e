/*
	Wanderlog
	Copyright (c) 2013 Matthew Holt

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package geojson

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanderlog/wanderlog/journal"
	"go.uber.org/zap/zaptest"
)

func feature(id any, ts any, label string) *orbgeo.Feature {
	return NewPosition(journal.GeoPoint{Latitude: 45.46, Longitude: 9.19}, orbgeo.Properties{
		PropSpotID:    id,
		PropTimestamp: ts,
		PropLabel:     label,
		PropSource:    "spot",
	})
}

func labels(fc *orbgeo.FeatureCollection) []string {
	out := make([]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		out = append(out, f.Properties.MustString(PropLabel, ""))
	}
	return out
}

func TestMergeIntoEmpty(t *testing.T) {
	a := feature("A", "2025-04-01T08:00:00Z", "a")

	merged := Merge(nil, []*orbgeo.Feature{a})

	require.Len(t, merged.Features, 1)
	assert.Same(t, a, merged.Features[0])
}

func TestMergeKeepsExistingOnCollision(t *testing.T) {
	first := feature("A", "2025-04-01T08:00:00Z", "first")
	dup := feature("A", "2025-04-01T08:00:00Z", "duplicate")

	merged := Merge([]*orbgeo.Feature{first}, []*orbgeo.Feature{dup})

	assert.Equal(t, []string{"first"}, labels(merged))
}

func TestMergeNumericAndStringIdentities(t *testing.T) {
	// ids read back from disk are float64; fresh ones may be too, or strings
	existing := []*orbgeo.Feature{feature(float64(1234567890), "2025-04-01T08:00:00Z", "old")}
	incoming := []*orbgeo.Feature{
		feature(float64(1234567890), "2025-04-01T08:00:00Z", "same number"),
		feature("1234567891", "2025-04-01T09:00:00Z", "new"),
	}

	assert.Equal(t, []string{"old", "new"}, labels(Merge(existing, incoming)))
}

func TestMergeNeverCollapsesFeaturesWithoutIdentity(t *testing.T) {
	x := feature("X", "2025-04-01T08:00:00Z", "x")
	anon := func() *orbgeo.Feature { return feature(nil, "2025-04-01T09:00:00Z", "anon") }

	history := Merge(nil, []*orbgeo.Feature{x, anon()})
	history = Merge(history.Features, []*orbgeo.Feature{x, anon()})
	history = Merge(history.Features, []*orbgeo.Feature{x, anon()})

	assert.Equal(t, []string{"x", "anon", "anon", "anon"}, labels(history))

	// empty and zero identities count as no identity at all
	history = Merge(nil, []*orbgeo.Feature{feature("", nil, "e1"), feature("", nil, "e2"), feature(float64(0), nil, "z")})
	assert.Len(t, history.Features, 3)
}

func TestMergeSortsByTimestamp(t *testing.T) {
	features := []*orbgeo.Feature{
		feature("C", "2025-04-02T08:00:00Z", "c"),
		feature("A", "2025-04-01T08:00:00Z", "a"),
		feature("N", nil, "no time"),
		feature("B", "2025-04-01T14:00:00Z", "b"),
		feature("M", nil, "no time either"),
	}

	merged := Merge(features[:2], features[2:])

	assert.Equal(t, []string{"no time", "no time either", "a", "b", "c"}, labels(merged))
}

func TestMergeIsIdempotent(t *testing.T) {
	existing := []*orbgeo.Feature{feature("A", "2025-04-01T08:00:00Z", "a")}
	incoming := []*orbgeo.Feature{
		feature("B", "2025-04-01T14:00:00Z", "b"),
		feature("A", "2025-04-01T08:00:00Z", "a again"),
	}

	once := Merge(existing, incoming)
	twice := Merge(once.Features, incoming)

	assert.Equal(t, labels(once), labels(twice))
	assert.Len(t, existing, 1, "input must not be modified")
	assert.Len(t, incoming, 2, "input must not be modified")
}

func TestLoadHistory(t *testing.T) {
	dir := t.TempDir()
	logger := zaptest.NewLogger(t)

	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
		return p
	}

	for i, tc := range []struct {
		filename string
		expect   int
	}{
		{filename: filepath.Join(dir, "missing.geojson"), expect: 0},
		{filename: write("garbage.geojson", "{not json"), expect: 0},
		{filename: write("array.geojson", "[1, 2, 3]"), expect: 0},
		{filename: write("feature.geojson", `{"type": "Feature", "geometry": {"type": "Point", "coordinates": [9.19, 45.46]}, "properties": {}}`), expect: 0},
		{filename: write("empty.geojson", `{"type": "FeatureCollection", "features": []}`), expect: 0},
		{filename: write("nofeatures.geojson", `{"type": "FeatureCollection"}`), expect: 0},
		{filename: write("good.geojson", `{
			"type": "FeatureCollection",
			"features": [
				{"type": "Feature", "geometry": {"type": "Point", "coordinates": [9.19, 45.4642]},
				 "properties": {"timestamp": "2025-04-01T08:00:00Z", "spot_id": 1234567890, "source": "spot"}},
				{"type": "Feature", "geometry": {"type": "Point", "coordinates": [13.7768, 45.65]},
				 "properties": {"timestamp": null, "spot_id": null, "source": "spot"}}
			]
		}`), expect: 2},
	} {
		fc := LoadHistory(logger, tc.filename)
		if fc == nil || fc.Features == nil {
			t.Errorf("Test %d: expected a non-nil, empty-or-not history", i)
			continue
		}
		if len(fc.Features) != tc.expect {
			t.Errorf("Test %d: expected %d features, got %d", i, tc.expect, len(fc.Features))
		}
	}

	fc := LoadHistory(logger, filepath.Join(dir, "good.geojson"))
	key, ok := Identity(fc.Features[0])
	assert.True(t, ok)
	assert.Equal(t, "1234567890", key)
	assert.Equal(t, orb.Point{9.19, 45.4642}, fc.Features[0].Geometry)
	_, ok = Identity(fc.Features[1])
	assert.False(t, ok)
	assert.Equal(t, "", Timestamp(fc.Features[1]))
}
