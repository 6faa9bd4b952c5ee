// Package olecftest builds minimal compound files for tests.
package olecftest

import (
	"encoding/binary"
	"unicode/utf16"
)

const (
	sectorSize = 512
	entrySize  = 128

	freeSect   uint32 = 0xFFFFFFFF
	endOfChain uint32 = 0xFFFFFFFE
	fatSect    uint32 = 0xFFFFFFFD
	noStream   uint32 = 0xFFFFFFFF

	storageRoot = 5
	streamEntry = 2
)

// MaxStreams is the number of streams that fit next to the root entry in
// the single directory sector Build writes.
const MaxStreams = sectorSize/entrySize - 1

// Build returns a version 3 compound file whose root storage holds empty
// streams with the given names. It has three sectors: the header, one FAT
// sector and one directory sector.
func Build(streams ...string) []byte {
	if len(streams) > MaxStreams {
		panic("olecftest: too many streams")
	}

	data := make([]byte, 3*sectorSize)
	header := data[:sectorSize]
	fat := data[sectorSize : 2*sectorSize]
	dir := data[2*sectorSize:]

	copy(header, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	binary.LittleEndian.PutUint16(header[24:], 0x003E) // minor version
	binary.LittleEndian.PutUint16(header[26:], 0x0003) // major version
	binary.LittleEndian.PutUint16(header[28:], 0xFFFE) // byte order
	binary.LittleEndian.PutUint16(header[30:], 0x0009) // 512 byte sectors
	binary.LittleEndian.PutUint16(header[32:], 0x0006) // 64 byte mini sectors
	binary.LittleEndian.PutUint32(header[44:], 1)      // FAT sectors
	binary.LittleEndian.PutUint32(header[48:], 1)      // first directory sector
	binary.LittleEndian.PutUint32(header[56:], 4096)   // mini stream cutoff
	binary.LittleEndian.PutUint32(header[60:], endOfChain)
	binary.LittleEndian.PutUint32(header[68:], endOfChain)
	binary.LittleEndian.PutUint32(header[76:], 0) // FAT lives in sector 0
	for off := 80; off < sectorSize; off += 4 {
		binary.LittleEndian.PutUint32(header[off:], freeSect)
	}

	for off := 0; off < sectorSize; off += 4 {
		binary.LittleEndian.PutUint32(fat[off:], freeSect)
	}
	binary.LittleEndian.PutUint32(fat[0:], fatSect)
	binary.LittleEndian.PutUint32(fat[4:], endOfChain)

	// root's child is entry 1; streams are chained through right siblings
	child := noStream
	if len(streams) > 0 {
		child = 1
	}
	writeEntry(dir[0:entrySize], "Root Entry", storageRoot, noStream, child)

	for i, name := range streams {
		right := noStream
		if i+1 < len(streams) {
			right = uint32(i + 2)
		}
		writeEntry(dir[(i+1)*entrySize:(i+2)*entrySize], name, streamEntry, right, noStream)
	}

	return data
}

func writeEntry(b []byte, name string, objectType byte, right, child uint32) {
	units := utf16.Encode([]rune(name))
	for i, u := range units {
		binary.LittleEndian.PutUint16(b[i*2:], u)
	}
	binary.LittleEndian.PutUint16(b[64:], uint16((len(units)+1)*2))
	b[66] = objectType
	b[67] = 1 // black
	binary.LittleEndian.PutUint32(b[68:], noStream)
	binary.LittleEndian.PutUint32(b[72:], right)
	binary.LittleEndian.PutUint32(b[76:], child)
	binary.LittleEndian.PutUint32(b[116:], endOfChain)
}
