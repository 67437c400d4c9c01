package codec

import "encoding/binary"

// EncodeStatusV1 builds a V1 status reply: FF FF id length errByte params...
// checksum. length = 2 + len(params). Returns the frame length.
func EncodeStatusV1(buffer []byte, id byte, errByte byte, params []byte) int {
	n := len(params) + v1Overhead
	buffer[0] = 0xFF
	buffer[1] = 0xFF
	buffer[2] = id
	buffer[3] = byte(2 + len(params))
	buffer[4] = errByte
	copy(buffer[5:5+len(params)], params)

	var sum byte
	for _, b := range buffer[2 : 5+len(params)] {
		sum += b
	}
	buffer[5+len(params)] = ^sum
	return n
}

// EncodeStatusV2 builds a V2 status reply: FF FF FD 00 id length_lo
// length_hi 0x55 errByte params... crc_lo crc_hi. length = 4 + len(params).
// Returns the frame length.
func EncodeStatusV2(buffer []byte, id byte, errByte byte, params []byte) int {
	length := uint16(4 + len(params))
	buffer[0] = 0xFF
	buffer[1] = 0xFF
	buffer[2] = 0xFD
	buffer[3] = 0x00
	buffer[4] = id
	binary.LittleEndian.PutUint16(buffer[5:7], length)
	buffer[7] = 0x55
	buffer[8] = errByte
	copy(buffer[9:9+len(params)], params)

	end := 9 + len(params)
	crc := CRC16UMTS(buffer[0:end])
	binary.LittleEndian.PutUint16(buffer[end:end+2], crc)
	return end + 2
}
