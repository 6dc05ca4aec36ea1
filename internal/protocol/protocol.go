// Package protocol implements the Xiaomi Giiker cube BLE notification format.
package protocol

import "errors"

// Giiker BLE service and characteristic UUIDs
const (
	DataServiceUUID = "0000aadb-0000-1000-8000-00805f9b34fb"
	DataCharUUID    = "0000aadc-0000-1000-8000-00805f9b34fb" // Notify, state frames

	RWServiceUUID   = "0000aaaa-0000-1000-8000-00805f9b34fb"
	RWReadCharUUID  = "0000aaab-0000-1000-8000-00805f9b34fb" // Notify, command replies
	RWWriteCharUUID = "0000aaac-0000-1000-8000-00805f9b34fb" // Write
)

// Command codes for writing to the RW write characteristic
const (
	CmdRequestBattery byte = 0xB5
)

// Notification layout
const (
	NotificationSize = 20   // bytes per state notification
	FrameCells       = 36   // half-byte cells carrying the cube state
	EncryptedMarker  = 0xA7 // value of byte 18 when the payload is encrypted
	markerOffset     = 18
	keyOffsetCell1   = 38 // half-byte cells holding the key offsets
	keyOffsetCell2   = 39
)

// Errors
var (
	ErrInvalidLength = errors.New("protocol: invalid notification length")
)

// key is the additive key table for encrypted notifications.
var key = [36]byte{
	176, 81, 104, 224, 86, 137, 237, 119, 38, 26, 193, 161,
	210, 126, 150, 81, 93, 13, 236, 249, 89, 235, 88, 24,
	113, 81, 214, 131, 130, 199, 2, 169, 39, 165, 171, 41,
}

// BuildCommand builds a single-byte command for the RW write characteristic.
func BuildCommand(cmd byte) []byte {
	return []byte{cmd}
}
