package knotctl

import (
	"encoding/binary"
	"fmt"
	"io"
)

// unitType discriminates the message units exchanged over the control
// socket.
type unitType uint8

const (
	// unitEnd terminates an exchange.
	unitEnd unitType = iota
	// unitData carries a set of data items.
	unitData
	// unitExtra carries additional data items for the previous unit.
	unitExtra
	// unitBlock terminates one block of a multi-block reply.
	unitBlock
)

// dataIdx identifies one data item within a unit.
type dataIdx uint8

const (
	idxCommand dataIdx = iota
	idxFlags
	idxError
	idxSection
	idxItem
	idxID
	idxZone
	idxOwner
	idxTTL
	idxType
	idxData
	idxFilter

	idxCount
)

// unit is one decoded control message.
type unit struct {
	typ   unitType
	items map[dataIdx]string
}

// maxPayload bounds a single unit's encoded payload. The length prefix is
// 16 bits, so nothing larger can be framed anyway.
const maxPayload = 1<<16 - 1

// writeUnit frames and writes a single unit.
//
// Framing: a big-endian uint16 payload length, then the payload: one type
// byte followed by zero or more data items, each encoded as a one-byte index,
// a big-endian uint16 value length, and the value bytes. Items are written in
// index order so the encoding is deterministic.
func writeUnit(w io.Writer, u unit) error {
	payload := []byte{byte(u.typ)}

	for idx := dataIdx(0); idx < idxCount; idx++ {
		value, ok := u.items[idx]
		if !ok {
			continue
		}
		if len(value) > maxPayload {
			return fmt.Errorf("item %d value too long: %d bytes", idx, len(value))
		}

		payload = append(payload, byte(idx))
		payload = binary.BigEndian.AppendUint16(payload, uint16(len(value)))
		payload = append(payload, value...)
	}

	if len(payload) > maxPayload {
		return fmt.Errorf("unit too long: %d bytes", len(payload))
	}

	frame := binary.BigEndian.AppendUint16(nil, uint16(len(payload)))
	frame = append(frame, payload...)

	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	return nil
}

// readUnit reads and decodes a single framed unit.
func readUnit(r io.Reader) (unit, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return unit{}, fmt.Errorf("read frame length: %w", err)
	}

	length := binary.BigEndian.Uint16(lenBuf[:])
	if length == 0 {
		return unit{}, fmt.Errorf("empty frame")
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return unit{}, fmt.Errorf("read frame payload: %w", err)
	}

	u := unit{
		typ:   unitType(payload[0]),
		items: map[dataIdx]string{},
	}

	rest := payload[1:]
	for len(rest) > 0 {
		if len(rest) < 3 {
			return unit{}, fmt.Errorf("truncated data item")
		}

		idx := dataIdx(rest[0])
		valueLen := int(binary.BigEndian.Uint16(rest[1:3]))
		rest = rest[3:]

		if len(rest) < valueLen {
			return unit{}, fmt.Errorf("truncated data item value")
		}
		if idx >= idxCount {
			return unit{}, fmt.Errorf("unknown data item index %d", idx)
		}

		u.items[idx] = string(rest[:valueLen])
		rest = rest[valueLen:]
	}

	return u, nil
}
