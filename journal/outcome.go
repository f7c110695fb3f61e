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

import "errors"

// Named outcomes of the tolerant decoders. A decoder that cannot produce
// a value returns (or wraps) one of these so callers can tell expected
// absence apart from corrupt input with errors.Is.
var (
	// ErrAbsent means the input simply does not carry the value, for
	// example a photo without GPS tags. It is not a failure.
	ErrAbsent = errors.New("value absent")

	// ErrInvalid means the value is present but corrupt or out of range,
	// for example a rational with a zero denominator.
	ErrInvalid = errors.New("value invalid")
)
