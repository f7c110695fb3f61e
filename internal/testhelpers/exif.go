package testhelpers

import (
	"bytes"
	"encoding/binary"
)

// DMS is a degrees/minutes/seconds triple of EXIF rationals,
// each as {numerator, denominator}.
type DMS [3][2]uint32

// GPSTIFF returns a little-endian TIFF document whose only content is a GPS
// IFD with the given latitude and longitude. EXIF decoders accept raw TIFF,
// so this stands in for a JPEG in tests. References must be at most 3 bytes.
func GPSTIFF(latRef string, lat DMS, lonRef string, lon DMS) []byte {
	buf := new(bytes.Buffer)
	w16 := func(v uint16) { _ = binary.Write(buf, binary.LittleEndian, v) }
	w32 := func(v uint32) { _ = binary.Write(buf, binary.LittleEndian, v) }

	ascii := func(tag uint16, s string) {
		val := make([]byte, 4)
		copy(val, s)
		w16(tag)
		w16(2) // ASCII
		w32(uint32(len(s) + 1))
		buf.Write(val)
	}
	rational := func(tag uint16, offset uint32) {
		w16(tag)
		w16(5) // RATIONAL
		w32(3)
		w32(offset)
	}

	// header
	buf.WriteString("II")
	w16(42)
	w32(8)

	// IFD0, which only points to the GPS IFD
	const gpsIFDOffset = 8 + 2 + 12 + 4
	w16(1)
	w16(0x8825) // GPSInfoIFDPointer
	w16(4)      // LONG
	w32(1)
	w32(gpsIFDOffset)
	w32(0)

	// GPS IFD
	const dataOffset = gpsIFDOffset + 2 + 4*12 + 4
	w16(4)
	ascii(0x0001, latRef)
	rational(0x0002, dataOffset)
	ascii(0x0003, lonRef)
	rational(0x0004, dataOffset+24)
	w32(0)

	for _, dms := range []DMS{lat, lon} {
		for _, r := range dms {
			w32(r[0])
			w32(r[1])
		}
	}

	return buf.Bytes()
}
