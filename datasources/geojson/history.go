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

// Package geojson maintains the position history, a GeoJSON (RFC 7946)
// FeatureCollection of Point features that grows with every feed update.
package geojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geojson"
	"github.com/wanderlog/wanderlog/journal"
	"go.uber.org/zap"
)

// Well-known keys of position feature properties.
const (
	PropTimestamp = "timestamp" // ISO-8601 string or null
	PropType      = "type"      // message type, e.g. TRACK or OK
	PropBattery   = "battery"   // battery state as reported by the device
	PropSpotID    = "spot_id"   // message identity; the dedup key
	PropSource    = "source"    // what produced the point
	PropLabel     = "label"     // optional place name
)

// NewPosition returns a Point feature at pt with the given properties.
func NewPosition(pt journal.GeoPoint, props orbgeo.Properties) *orbgeo.Feature {
	f := orbgeo.NewFeature(orb.Point{pt.Longitude, pt.Latitude})
	if props == nil {
		props = orbgeo.Properties{}
	}
	f.Properties = props
	return f
}

// NewHistory returns a feature collection containing features.
func NewHistory(features []*orbgeo.Feature) *orbgeo.FeatureCollection {
	fc := orbgeo.NewFeatureCollection()
	if features != nil {
		fc.Features = features
	}
	return fc
}

// LoadHistory reads the position history at filename. A missing, unreadable
// or invalid file is not an error: the history then starts out empty, and the
// reason is logged.
func LoadHistory(logger *zap.Logger, filename string) *orbgeo.FeatureCollection {
	fc, err := readHistory(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("no position history yet, starting empty", zap.String("path", filename))
		} else {
			logger.Warn("unusable position history, starting empty",
				zap.String("path", filename),
				zap.Error(err))
		}
		return NewHistory(nil)
	}
	return fc
}

func readHistory(filename string) (*orbgeo.FeatureCollection, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	if head.Type != "FeatureCollection" {
		return nil, fmt.Errorf("not a FeatureCollection: type=%q", head.Type)
	}

	fc, err := orbgeo.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	if fc.Features == nil {
		fc.Features = []*orbgeo.Feature{}
	}

	return fc, nil
}

// Merge appends incoming to existing, drops every feature whose identity
// was already seen, and sorts the result by timestamp. Existing features
// are processed first, so on a collision the previously recorded feature
// is kept. Features without an identity are always kept, even if they
// describe the same position as another feature. Neither input is modified.
func Merge(existing, incoming []*orbgeo.Feature) *orbgeo.FeatureCollection {
	merged := make([]*orbgeo.Feature, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{})

	for _, features := range [][]*orbgeo.Feature{existing, incoming} {
		for _, f := range features {
			if f == nil {
				continue
			}
			if key, ok := Identity(f); ok {
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			merged = append(merged, f)
		}
	}

	// ISO-8601 timestamps in a consistent offset sort correctly as text;
	// features without a timestamp sort as "" and end up first
	sort.SliceStable(merged, func(i, j int) bool {
		return Timestamp(merged[i]) < Timestamp(merged[j])
	})

	return NewHistory(merged)
}

// Identity returns the dedup key of f. Values that are empty, zero, false
// or null do not count as an identity.
func Identity(f *orbgeo.Feature) (string, bool) {
	return identityKey(f.Properties[PropSpotID])
}

func identityKey(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, val != ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), val != 0
	case int:
		return strconv.Itoa(val), val != 0
	case int64:
		return strconv.FormatInt(val, 10), val != 0
	case json.Number:
		return val.String(), val.String() != "0"
	case bool:
		return strconv.FormatBool(val), val
	case nil:
		return "", false
	default:
		return fmt.Sprint(val), true
	}
}

// Timestamp returns the timestamp property of f, or "" if it has none.
func Timestamp(f *orbgeo.Feature) string {
	ts, _ := f.Properties[PropTimestamp].(string)
	return ts
}
