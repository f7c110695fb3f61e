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

package spot

import (
	orbgeo "github.com/paulmach/orb/geojson"
	"github.com/wanderlog/wanderlog/datasources/geojson"
	"go.uber.org/zap"
)

// SourceTag marks features that came from the feed.
const SourceTag = "spot"

// Parse converts a raw feed payload into position features, oldest first.
// Messages without usable coordinates are logged and skipped.
func Parse(logger *zap.Logger, payload []byte) []*orbgeo.Feature {
	msgs := Messages(payload)

	features := make([]*orbgeo.Feature, 0, len(msgs))

	// the feed lists the newest message first
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]

		pt, err := m.Position()
		if err != nil {
			logger.Info("feed message without valid position, skipped",
				zap.Any("id", m.Identity()),
				zap.Error(err))
			continue
		}

		var ts any
		if s, err := m.Timestamp(); err == nil {
			ts = s
		}

		features = append(features, geojson.NewPosition(pt, orbgeo.Properties{
			geojson.PropTimestamp: ts,
			geojson.PropType:      m.Type(),
			geojson.PropBattery:   m.Battery(),
			geojson.PropSpotID:    m.Identity(),
			geojson.PropSource:    SourceTag,
		}))
	}

	return features
}
