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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file read when none is given explicitly.
// It is fine for it not to exist.
const DefaultConfigFile = "wanderlog.yml"

// DefaultFeedURL is a placeholder for the public SPOT feed of a device.
// The real URL is usually supplied with the SPOT_FEED_URL environment
// variable so the feed ID does not have to be committed anywhere.
const DefaultFeedURL = "https://api.findmespot.com/spot-main-web/consumer/rest-api/2.0/public/feed/YOUR_FEED_ID/message.json"

// Config describes where the pipelines read their inputs and
// write their outputs. Relative paths are relative to Root.
type Config struct {
	// The folder that contains photos/, gpx/ and data/. Photo file
	// paths in the photo index are relative to this folder.
	Root string `yaml:"root,omitempty"`

	// Folder (or archive file) of JPEG photos, and where to write the index.
	PhotosDir string `yaml:"photos_dir" validate:"required"`
	PhotosOut string `yaml:"photos_out" validate:"required"`

	// Folder (or archive file) of GPX tracks, and where to write the summary.
	GPXDir     string `yaml:"gpx_dir" validate:"required"`
	SummaryOut string `yaml:"summary_out" validate:"required"`

	// Resolve the IANA time zone of each day summary from its first point.
	TimeZones bool `yaml:"time_zones,omitempty"`

	// The position history; both input and output of the positions pipeline.
	PositionsOut string `yaml:"positions_out" validate:"required"`

	Feed     FeedConfig     `yaml:"feed"`
	Simulate SimulateConfig `yaml:"simulate"`

	LogLevel string `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// FeedConfig configures the satellite tracker feed.
type FeedConfig struct {
	// HTTP(S) URL of the feed, or a path to a saved response on disk.
	URL string `yaml:"url" validate:"required"`

	// How long to wait for the feed before giving up the run.
	Timeout time.Duration `yaml:"timeout,omitempty" validate:"gte=0"`
}

// SimulateConfig configures the fake position generator.
type SimulateConfig struct {
	// Maximum random offset, in degrees, applied to each route point.
	Jitter float64 `yaml:"jitter,omitempty" validate:"gte=0,lte=1"`

	// Seed for the jitter so runs are reproducible.
	Seed uint64 `yaml:"seed,omitempty"`
}

// DefaultConfig returns the configuration used when no config file is present.
func DefaultConfig() Config {
	return Config{
		Root:         ".",
		PhotosDir:    "photos",
		PhotosOut:    filepath.Join("data", "photos.json"),
		GPXDir:       "gpx",
		SummaryOut:   filepath.Join("data", "summary.json"),
		PositionsOut: filepath.Join("data", "positions.geojson"),
		Feed: FeedConfig{
			URL:     DefaultFeedURL,
			Timeout: defaultFeedTimeout,
		},
	}
}

// LoadConfig reads the YAML config file at filename on top of the defaults,
// applies environment overrides, and validates the result. A missing file
// is only an error if it is not the default config file.
func LoadConfig(filename string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || filename != DefaultConfigFile {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decoding config file %s: %w", filename, err)
		}
	}

	cfg.applyEnv()
	cfg.fillDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (cfg *Config) applyEnv() {
	if envVal := os.Getenv("WANDERLOG_ROOT"); envVal != "" {
		cfg.Root = envVal
	}
	if envVal := os.Getenv("SPOT_FEED_URL"); envVal != "" {
		cfg.Feed.URL = envVal
	}
}

func (cfg *Config) fillDefaults() {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Feed.Timeout == 0 {
		cfg.Feed.Timeout = defaultFeedTimeout
	}
}

// Path resolves a configured path against Root.
func (cfg Config) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(cfg.Root, p)
}

const defaultFeedTimeout = 20 * time.Second
