// Package protocol defines the version and opcode vocabulary shared by the
// codec, master, and slave engines.
package protocol

import "fmt"

// Version selects the wire framing, checksum, and opcode width used on the
// bus. It is fixed for the lifetime of a master or slave engine instance.
type Version int

const (
	V1 Version = iota
	V2
)

func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// Opcode is the 8-bit instruction/status discriminator carried in every
// frame. Status replies on V1 reuse byte value 0 as their marker; V2 status
// replies carry a distinguished 0x55 marker byte ahead of the error byte
// instead of repurposing an opcode value.
type Opcode uint8

const (
	Ping                Opcode = 0x01
	Read                Opcode = 0x02
	Write               Opcode = 0x03
	RegWrite            Opcode = 0x04
	Action              Opcode = 0x05
	FactoryReset        Opcode = 0x06
	Reboot              Opcode = 0x08
	Clear               Opcode = 0x10
	ControlTableBackup  Opcode = 0x20
	SyncRead            Opcode = 0x82
	SyncWrite           Opcode = 0x83
	FastSyncRead        Opcode = 0x8A
	BulkRead            Opcode = 0x92
	BulkWrite           Opcode = 0x93
	FastBulkRead        Opcode = 0x9A
	// StatusV1 is the opcode-slot value carried by a V1 status packet.
	StatusV1 Opcode = 0x00
)

// StatusV2Marker is the byte V2 status frames emit immediately before the
// error byte; it never appears as an opcode of an instruction frame.
const StatusV2Marker byte = 0x55

// BroadcastID addresses every device on the bus for sync-read/sync-write
// and other write-style broadcasts. No device replies to a broadcast write.
const BroadcastID byte = 0xFE

// InvalidID is reserved and never a legal device ID.
const InvalidID byte = 0xFF

var opcodeNames = map[Opcode]string{
	Ping:               "Ping",
	Read:               "Read",
	Write:              "Write",
	RegWrite:           "RegWrite",
	Action:             "Action",
	FactoryReset:       "FactoryReset",
	Reboot:             "Reboot",
	Clear:              "Clear",
	ControlTableBackup: "ControlTableBackup",
	SyncRead:           "SyncRead",
	SyncWrite:          "SyncWrite",
	FastSyncRead:       "FastSyncRead",
	BulkRead:           "BulkRead",
	BulkWrite:          "BulkWrite",
	FastBulkRead:       "FastBulkRead",
}

func (o Opcode) String() string {
	if n, ok := opcodeNames[o]; ok {
		return n
	}
	return fmt.Sprintf("Opcode(0x%02X)", uint8(o))
}

// OpcodeFromByte parses a raw instruction opcode byte. Unknown opcodes are a
// parse failure the slave engine treats as a resync trigger, not a panic.
func OpcodeFromByte(b byte) (Opcode, bool) {
	o := Opcode(b)
	if _, ok := opcodeNames[o]; ok {
		return o, true
	}
	return 0, false
}

// RawInstruction is produced by the slave engine on each successful parse.
// It is never stored by the engine; the caller consumes it and it is gone.
type RawInstruction struct {
	Version Version
	ID      byte
	Opcode  Opcode
	Data    []byte
}
