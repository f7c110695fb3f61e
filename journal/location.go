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
	"fmt"
	"math"
)

// GeoPoint is a position on Earth in signed decimal degrees.
// Use NewGeoPoint to get a validated value.
type GeoPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// NewGeoPoint returns a GeoPoint if lat is within [-90,90] and lon is
// within [-180,180]. Otherwise the error wraps ErrInvalid.
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return GeoPoint{}, fmt.Errorf("latitude %v out of range: %w", lat, ErrInvalid)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return GeoPoint{}, fmt.Errorf("longitude %v out of range: %w", lon, ErrInvalid)
	}
	return GeoPoint{Latitude: lat, Longitude: lon}, nil
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Latitude, p.Longitude)
}
