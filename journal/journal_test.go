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

package journal

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	for i, tc := range []struct {
		lat, lon  float64
		expectErr bool
	}{
		{lat: 0, lon: 0},
		{lat: 90, lon: 180},
		{lat: -90, lon: -180},
		{lat: 45.4642, lon: 9.19},
		{lat: 90.0001, lon: 0, expectErr: true},
		{lat: 0, lon: -180.5, expectErr: true},
		{lat: math.NaN(), lon: 0, expectErr: true},
		{lat: 0, lon: math.Inf(1), expectErr: true},
	} {
		pt, err := NewGeoPoint(tc.lat, tc.lon)
		if tc.expectErr {
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Test %d: Expected ErrInvalid, got %v", i, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Test %d: Unexpected error: %v", i, err)
			continue
		}
		if pt.Latitude != tc.lat || pt.Longitude != tc.lon {
			t.Errorf("Test %d: Expected (%v, %v), got %v", i, tc.lat, tc.lon, pt)
		}
	}
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(filename, []byte(contents), 0600))
	return filename
}

func clearEnv(t *testing.T) {
	t.Setenv("WANDERLOG_ROOT", "")
	t.Setenv("SPOT_FEED_URL", "")
}

func TestLoadConfigMissingDefaultFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig(DefaultConfigFile)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(writeConfig(t, `
root: /srv/travel
gpx_dir: tracks
time_zones: true
feed:
  url: https://example.com/feed.json
  timeout: 5s
simulate:
  jitter: 0.02
  seed: 9
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "/srv/travel", cfg.Root)
	assert.Equal(t, "tracks", cfg.GPXDir)
	assert.Equal(t, "photos", cfg.PhotosDir, "unset keys keep their defaults")
	assert.True(t, cfg.TimeZones)
	assert.Equal(t, "https://example.com/feed.json", cfg.Feed.URL)
	assert.Equal(t, 5*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, 0.02, cfg.Simulate.Jitter)
	assert.Equal(t, uint64(9), cfg.Simulate.Seed)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, filepath.Join("/srv/travel", "tracks"), cfg.Path(cfg.GPXDir))
	assert.Equal(t, "/tmp/x.json", cfg.Path("/tmp/x.json"))
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("WANDERLOG_ROOT", "/data/trip")
	t.Setenv("SPOT_FEED_URL", "https://example.com/private.json")

	cfg, err := LoadConfig(writeConfig(t, "root: ignored\n"))
	require.NoError(t, err)

	assert.Equal(t, "/data/trip", cfg.Root)
	assert.Equal(t, "https://example.com/private.json", cfg.Feed.URL)
}

func TestLoadConfigInvalid(t *testing.T) {
	clearEnv(t)

	for i, contents := range []string{
		"log_level: loud\n",
		"simulate:\n  jitter: 3\n",
		"photos_out: ''\n",
		"feed: [not, a, map]\n",
	} {
		if _, err := LoadConfig(writeConfig(t, contents)); err == nil {
			t.Errorf("Test %d: Expected error for %q", i, contents)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "data", "out.json")

	require.NoError(t, WriteJSON(filename, map[string]any{"caption": "a < b & c"}))
	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"caption\": \"a < b & c\"\n}\n", string(data))

	// replaced, with no temporary files left over
	require.NoError(t, WriteJSON(filename, []int{1}))
	data, err = os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "[\n  1\n]\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(filename))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteJSONFailureKeepsPreviousFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(filename, []byte("previous"), 0600))

	require.Error(t, WriteJSON(filename, math.NaN()))

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestListFiles(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{
		"b.JPG",
		"a.jpeg",
		"notes.txt",
		".hidden.jpg",
		filepath.Join("sub", "c.jpg"),
		filepath.Join(".cache", "d.jpg"),
	} {
		full := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, nil, 0600))
	}

	fsys, files, err := ListFiles(t.Context(), root, ".jpg", ".jpeg")
	require.NoError(t, err)
	require.NotNil(t, fsys)
	assert.Equal(t, []string{"a.jpeg", "b.JPG", "sub/c.jpg"}, files)
}

func TestListFilesMissingRoot(t *testing.T) {
	_, _, err := ListFiles(t.Context(), filepath.Join(t.TempDir(), "gpx"), ".gpx")
	assert.ErrorIs(t, err, ErrAbsent)
}

func TestPipelineRegistry(t *testing.T) {
	noop := func(ctx context.Context, cfg Config) error { return nil }

	assert.Error(t, RegisterPipeline(Pipeline{Title: "x", Run: noop}))
	assert.Error(t, RegisterPipeline(Pipeline{Name: "x", Run: noop}))
	assert.Error(t, RegisterPipeline(Pipeline{Name: "x", Title: "x"}))

	require.NoError(t, RegisterPipeline(Pipeline{Name: "zz_test_b", Title: "B", Run: noop}))
	require.NoError(t, RegisterPipeline(Pipeline{Name: "zz_test_a", Title: "A", Run: noop}))
	assert.Error(t, RegisterPipeline(Pipeline{Name: "zz_test_a", Title: "A again", Run: noop}))

	p, err := GetPipeline("zz_test_a")
	require.NoError(t, err)
	assert.Equal(t, "A", p.Title)

	_, err = GetPipeline("nonexistent")
	assert.Error(t, err)

	var names []string
	for _, p := range AllPipelines() {
		names = append(names, p.Name)
	}
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "zz_test_a")
}

func TestSetLogLevel(t *testing.T) {
	defer func() { _ = SetLogLevel("info") }()

	require.NoError(t, SetLogLevel("debug"))
	assert.Error(t, SetLogLevel("chatty"))
}
