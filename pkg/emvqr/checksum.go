package emvqr

import (
	"fmt"

	"github.com/sigurn/crc16"
)

// CRC-16/CCITT-FALSE: poly 0x1021, init 0xFFFF, no reflection, xorout 0.
var crcTable = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

// Checksum computes the payload CRC over data, which must already end with
// the checksum field header "6304".
func Checksum(data []byte) uint16 {
	return crc16.Checksum(data, crcTable)
}

// FormatChecksum renders sum as four uppercase hex digits.
func FormatChecksum(sum uint16) string {
	return fmt.Sprintf("%04X", sum)
}

// checksumHeader is the tag and fixed length prefix of the checksum field.
func checksumHeader() string {
	return fmt.Sprintf("%s%02d", TagCRC, crcLength)
}
