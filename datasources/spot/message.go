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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/wanderlog/wanderlog/journal"
)

// messagesPath is where the list of messages lives in a feed response.
const messagesPath = "response.feedMessageResponse.messages.message"

// DefaultMessageType is assumed for messages that do not state a type.
const DefaultMessageType = "TRACK"

// Message is one position report from the feed. Each field holds the raw
// JSON value, which may not exist; the methods interpret them.
type Message struct {
	Latitude     gjson.Result
	Longitude    gjson.Result
	ID           gjson.Result
	MessageID    gjson.Result
	DateTime     gjson.Result
	UnixTime     gjson.Result
	MessageType  gjson.Result
	BatteryState gjson.Result
}

func newMessage(m gjson.Result) Message {
	return Message{
		Latitude:     m.Get("latitude"),
		Longitude:    m.Get("longitude"),
		ID:           m.Get("id"),
		MessageID:    m.Get("messageId"),
		DateTime:     m.Get("dateTime"),
		UnixTime:     m.Get("unixTime"),
		MessageType:  m.Get("messageType"),
		BatteryState: m.Get("batteryState"),
	}
}

// Messages returns the messages in a raw feed payload in the order the feed
// lists them (newest first). A single message object is returned as a list
// of one; a payload of any other shape yields no messages.
func Messages(payload []byte) []Message {
	if !gjson.ValidBytes(payload) {
		return nil
	}
	res := gjson.GetBytes(payload, messagesPath)
	var raw []gjson.Result
	switch {
	case res.IsArray():
		raw = res.Array()
	case res.IsObject():
		raw = []gjson.Result{res}
	}
	msgs := make([]Message, 0, len(raw))
	for _, m := range raw {
		msgs = append(msgs, newMessage(m))
	}
	return msgs
}

// Position returns the reported coordinates. Both must be numbers, or
// strings holding numbers, and within range; otherwise the error wraps
// ErrAbsent or ErrInvalid.
func (m Message) Position() (journal.GeoPoint, error) {
	lat, err := parseFloat(m.Latitude)
	if err != nil {
		return journal.GeoPoint{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := parseFloat(m.Longitude)
	if err != nil {
		return journal.GeoPoint{}, fmt.Errorf("longitude: %w", err)
	}
	return journal.NewGeoPoint(lat, lon)
}

func parseFloat(v gjson.Result) (float64, error) {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Num
	case gjson.String:
		var err error
		f, err = strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number: %w", v.Str, journal.ErrInvalid)
		}
	case gjson.Null:
		return 0, journal.ErrAbsent
	default:
		if !v.Exists() {
			return 0, journal.ErrAbsent
		}
		return 0, fmt.Errorf("unexpected JSON value %s: %w", v.Raw, journal.ErrInvalid)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v is not a finite number: %w", f, journal.ErrInvalid)
	}
	return f, nil
}

// Timestamp returns the time of the report as an ISO-8601 string. The
// feed's own date-time string is preferred; otherwise the Unix time is
// formatted in UTC with a "Z" suffix. If neither is usable the error
// wraps ErrAbsent.
func (m Message) Timestamp() (string, error) {
	if m.DateTime.Type == gjson.String && m.DateTime.Str != "" {
		return m.DateTime.Str, nil
	}

	var sec int64
	switch m.UnixTime.Type {
	case gjson.Number:
		sec = int64(m.UnixTime.Num)
	case gjson.String:
		var err error
		sec, err = strconv.ParseInt(strings.TrimSpace(m.UnixTime.Str), 10, 64)
		if err != nil {
			return "", fmt.Errorf("unix time %q: %w", m.UnixTime.Str, journal.ErrAbsent)
		}
	}
	if sec == 0 {
		return "", fmt.Errorf("no date-time or unix time: %w", journal.ErrAbsent)
	}

	return time.Unix(sec, 0).UTC().Format(time.RFC3339), nil
}

// Identity returns the message identity: the id field, else the messageId
// field, else nil. Empty strings and zero do not count.
func (m Message) Identity() any {
	for _, v := range []gjson.Result{m.ID, m.MessageID} {
		if truthy(v) {
			return v.Value()
		}
	}
	return nil
}

// Type returns the message type, DefaultMessageType if unspecified.
func (m Message) Type() any {
	if !m.MessageType.Exists() || m.MessageType.Type == gjson.Null {
		return DefaultMessageType
	}
	return m.MessageType.Value()
}

// Battery returns the battery state verbatim, or nil.
func (m Message) Battery() any {
	return m.BatteryState.Value()
}

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}
