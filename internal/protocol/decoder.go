package protocol

import (
	"encoding/base64"
	"fmt"
)

// Notification is a state notification after decryption, unpacked into
// half-byte cells.
type Notification struct {
	Encrypted bool            // The payload carried the encryption marker
	Cells     [FrameCells]byte // Plaintext half-byte cells, one nibble each
	RawBase64 string          // Base64 of the payload as received, for logs and storage
}

// HalfByte returns the i-th half byte of data: the high nibble of byte i/2
// for even i, the low nibble for odd i.
func HalfByte(data []byte, i int) byte {
	b := data[i/2]
	if i%2 == 1 {
		return b & 0x0F
	}
	return b >> 4
}

// IsEncrypted reports whether a notification carries the encryption marker.
func IsEncrypted(data []byte) bool {
	return len(data) > markerOffset && data[markerOffset] == EncryptedMarker
}

// Decrypt returns a decrypted copy of a 20-byte notification.
// The two key offsets are the half bytes at cells 38 and 39 of the encrypted
// payload; every byte is shifted by the key entries at both offsets, modulo 256.
func Decrypt(data []byte) ([]byte, error) {
	if len(data) != NotificationSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidLength, NotificationSize, len(data))
	}

	o1 := int(HalfByte(data, keyOffsetCell1))
	o2 := int(HalfByte(data, keyOffsetCell2))

	out := make([]byte, NotificationSize)
	for i := range data {
		out[i] = data[i] + key[o1+i] + key[o2+i]
	}
	return out, nil
}

// Unpack splits the first 18 bytes of a plaintext payload into 36 half-byte cells.
func Unpack(data []byte) ([FrameCells]byte, error) {
	var cells [FrameCells]byte
	if len(data)*2 < FrameCells {
		return cells, fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidLength, FrameCells/2, len(data))
	}
	for i := range cells {
		cells[i] = HalfByte(data, i)
	}
	return cells, nil
}

// ParseNotification decrypts a raw state notification if needed and unpacks
// its cells.
func ParseNotification(data []byte) (*Notification, error) {
	if len(data) != NotificationSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidLength, NotificationSize, len(data))
	}

	n := &Notification{
		Encrypted: IsEncrypted(data),
		RawBase64: base64.StdEncoding.EncodeToString(data),
	}

	plain := data
	if n.Encrypted {
		var err error
		if plain, err = Decrypt(data); err != nil {
			return nil, err
		}
	}

	cells, err := Unpack(plain)
	if err != nil {
		return nil, err
	}
	n.Cells = cells
	return n, nil
}

// DecodeBattery decodes a reply on the RW read characteristic to a battery
// request. The level is the second byte.
func DecodeBattery(payload []byte) (int, error) {
	if len(payload) < 2 {
		return 0, fmt.Errorf("%w: battery reply has %d bytes", ErrInvalidLength, len(payload))
	}
	return int(payload[1]), nil
}
