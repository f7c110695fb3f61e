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

package gpx

import (
	"math"
	"path"
	"strings"
	"time"

	gpxgo "github.com/tkrajina/gpxgo/gpx"
)

// DaySummary describes one GPX file, which is usually one day of travel.
type DaySummary struct {
	Date         string  `json:"date"`
	Label        string  `json:"label"`
	DistanceKM   float64 `json:"distance_km"`
	ElevationUpM int     `json:"elevation_up_m"`
	MovingTimeH  float64 `json:"moving_time_h"`
	GPXFile      string  `json:"gpx_file"`

	// IANA name of the time zone at the start of the track, if resolved.
	TimeZone string `json:"time_zone,omitempty"`
}

// TimeZoneFinder resolves a time zone name from coordinates.
// It is implemented by tzf.F.
type TimeZoneFinder interface {
	GetTimezoneName(lng, lat float64) string
}

// Summarizer turns GPX documents into day summaries.
// The zero value is ready to use.
type Summarizer struct {
	// If set, used to fill in DaySummary.TimeZone.
	TimeZones TimeZoneFinder
}

// Summarize summarizes doc with the zero Summarizer.
func Summarize(doc *gpxgo.GPX, filename string) DaySummary {
	return Summarizer{}.Summarize(doc, filename)
}

// Summarize computes the distance, elevation gain and moving time of doc.
// filename is the base name of the file doc was read from; its stem is the
// fallback for the date and the label.
func (s Summarizer) Summarize(doc *gpxgo.GPX, filename string) DaySummary {
	stem := strings.TrimSuffix(filename, path.Ext(filename))

	var distanceM, elevationUpM float64
	for i := range doc.Tracks {
		for j := range doc.Tracks[i].Segments {
			seg := &doc.Tracks[i].Segments[j]
			distanceM += nonNegative(seg.Length3D())
			elevationUpM += elevationGain(seg.Points)
		}
	}

	movingTimeS := nonNegative(doc.MovingData().MovingTime)

	label := doc.Name
	if label == "" {
		label = stem
	}

	summary := DaySummary{
		Date:         trackDate(doc, stem),
		Label:        label,
		DistanceKM:   round1(distanceM / 1000.0),
		ElevationUpM: int(math.RoundToEven(elevationUpM)),
		MovingTimeH:  round1(movingTimeS / 3600.0),
		GPXFile:      filename,
	}

	if s.TimeZones != nil {
		if pt, ok := firstPoint(doc); ok {
			summary.TimeZone = s.TimeZones.GetTimezoneName(pt.Longitude, pt.Latitude)
		}
	}

	return summary
}

// elevationGain sums the ascents between consecutive points. Descents are
// ignored, and so is any pair where either point has no elevation.
func elevationGain(points []gpxgo.GPXPoint) float64 {
	var gain float64
	for i := 1; i < len(points); i++ {
		prev, curr := &points[i-1], &points[i]
		if !prev.Elevation.NotNull() || !curr.Elevation.NotNull() {
			continue
		}
		if diff := curr.Elevation.Value() - prev.Elevation.Value(); diff > 0 {
			gain += diff
		}
	}
	return gain
}

// trackDate returns the calendar date of the document's creation time or,
// failing that, the date prefix of a "YYYY-MM-DD-whatever" file stem.
// If neither is available it returns "".
func trackDate(doc *gpxgo.GPX, stem string) string {
	if doc.Time != nil && !doc.Time.IsZero() {
		return doc.Time.Format(time.DateOnly)
	}
	return dateFromStem(stem)
}

func dateFromStem(stem string) string {
	tokens := strings.Split(stem, "-")
	if len(tokens) < 3 {
		return ""
	}
	date := strings.Join(tokens[:3], "-")
	if _, err := time.Parse("2006-1-2", date); err != nil {
		return ""
	}
	return date
}

func firstPoint(doc *gpxgo.GPX) (gpxgo.GPXPoint, bool) {
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			if len(seg.Points) > 0 {
				return seg.Points[0], true
			}
		}
	}
	return gpxgo.GPXPoint{}, false
}

// nonNegative maps NaN, infinities and negative values to 0.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// round1 rounds half to even at one decimal place.
func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
