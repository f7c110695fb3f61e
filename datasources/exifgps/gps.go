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

package exifgps

import (
	"fmt"
	"io"
	"strings"

	"github.com/cozy/goexif2/exif"
	"github.com/cozy/goexif2/tiff"
	"github.com/wanderlog/wanderlog/journal"
)

// Rational is an unsigned EXIF rational as stored in the file.
type Rational struct {
	Num, Den int64
}

// Float returns the value of r. A zero denominator is reported as
// ErrInvalid instead of being divided by.
func (r Rational) Float() (float64, error) {
	if r.Den == 0 {
		return 0, fmt.Errorf("rational %d/0: %w", r.Num, journal.ErrInvalid)
	}
	return float64(r.Num) / float64(r.Den), nil
}

// GPSTags are the four EXIF GPS fields needed to locate a photo. A nil
// coordinate or an empty reference means the tag was not in the file.
type GPSTags struct {
	Latitude     []Rational // degrees, minutes, seconds
	LatitudeRef  string     // N or S
	Longitude    []Rational // degrees, minutes, seconds
	LongitudeRef string     // E or W
}

// Decode converts the GPS tags of a photo into a point. If any of the four
// tags is missing the error wraps ErrAbsent; if the values are corrupt (too
// few components, zero denominators, out of range) it wraps ErrInvalid.
func Decode(tags GPSTags) (journal.GeoPoint, error) {
	if tags.Latitude == nil || tags.LatitudeRef == "" ||
		tags.Longitude == nil || tags.LongitudeRef == "" {
		return journal.GeoPoint{}, fmt.Errorf("incomplete GPS tags: %w", journal.ErrAbsent)
	}

	lat, err := toDegrees(tags.Latitude)
	if err != nil {
		return journal.GeoPoint{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := toDegrees(tags.Longitude)
	if err != nil {
		return journal.GeoPoint{}, fmt.Errorf("longitude: %w", err)
	}

	// only the first letter of the reference counts ("N", "North", "n"...)
	if !strings.EqualFold(tags.LatitudeRef[:1], "N") {
		lat = -lat
	}
	if !strings.EqualFold(tags.LongitudeRef[:1], "E") {
		lon = -lon
	}

	return journal.NewGeoPoint(lat, lon)
}

// toDegrees computes d + m/60 + s/3600 from a degrees/minutes/seconds triple.
func toDegrees(dms []Rational) (float64, error) {
	if len(dms) < 3 {
		return 0, fmt.Errorf("expected degrees, minutes and seconds, got %d values: %w", len(dms), journal.ErrInvalid)
	}
	d, err := dms[0].Float()
	if err != nil {
		return 0, fmt.Errorf("degrees: %w", err)
	}
	m, err := dms[1].Float()
	if err != nil {
		return 0, fmt.Errorf("minutes: %w", err)
	}
	s, err := dms[2].Float()
	if err != nil {
		return 0, fmt.Errorf("seconds: %w", err)
	}
	return d + m/60.0 + s/3600.0, nil
}

// DecodeFile reads the EXIF block of a JPEG (or raw TIFF) and decodes its GPS
// position. Errors wrap ErrAbsent or ErrInvalid; a corrupt EXIF block never
// panics out of this function.
func DecodeFile(r io.Reader) (pt journal.GeoPoint, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed EXIF block: %v: %w", rec, journal.ErrInvalid)
		}
	}()

	x, err := exif.Decode(r)
	if err != nil && exif.IsCriticalError(err) {
		return journal.GeoPoint{}, fmt.Errorf("decoding EXIF: %w: %w", err, journal.ErrAbsent)
	}
	if x == nil {
		return journal.GeoPoint{}, fmt.Errorf("no EXIF data: %w", journal.ErrAbsent)
	}

	tags, err := readGPSTags(x)
	if err != nil {
		return journal.GeoPoint{}, err
	}

	return Decode(tags)
}

func readGPSTags(x *exif.Exif) (GPSTags, error) {
	var tags GPSTags
	var err error

	if tags.Latitude, err = rationals(x, exif.GPSLatitude); err != nil {
		return GPSTags{}, err
	}
	if tags.Longitude, err = rationals(x, exif.GPSLongitude); err != nil {
		return GPSTags{}, err
	}
	if tags.LatitudeRef, err = reference(x, exif.GPSLatitudeRef); err != nil {
		return GPSTags{}, err
	}
	if tags.LongitudeRef, err = reference(x, exif.GPSLongitudeRef); err != nil {
		return GPSTags{}, err
	}

	return tags, nil
}

// rationals returns up to the first three rational values of the field,
// or nil if the field is not present.
func rationals(x *exif.Exif, name exif.FieldName) ([]Rational, error) {
	tag, err := x.Get(name)
	if err != nil {
		return nil, nil
	}
	if tag.Format() != tiff.RatVal {
		return nil, fmt.Errorf("%s is not a rational field: %w", name, journal.ErrInvalid)
	}

	count := min(int(tag.Count), 3)
	vals := make([]Rational, 0, count)
	for i := range count {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return nil, fmt.Errorf("%s value %d: %v: %w", name, i, err, journal.ErrInvalid)
		}
		vals = append(vals, Rational{Num: num, Den: den})
	}

	return vals, nil
}

// reference returns the text of an N/S or E/W field, or "" if not present.
func reference(x *exif.Exif, name exif.FieldName) (string, error) {
	tag, err := x.Get(name)
	if err != nil {
		return "", nil
	}
	val, err := tag.StringVal()
	if err != nil {
		return "", fmt.Errorf("%s: %v: %w", name, err, journal.ErrInvalid)
	}
	return strings.TrimSpace(strings.TrimRight(val, "\x00")), nil
}
