// Package capture implements the wire framing shared by the capture relay
// client and server: a small binary envelope wrapping one opaque HPACK byte
// block (or a heartbeat) in flight between a capture agent and the relay.
//
// Adapted from the protocol package's DataHeader binary framing: a flags
// byte followed by big-endian length prefixes and the variable-length
// fields they describe.
package capture

import (
	"encoding/binary"
	"errors"
	"time"
)

// HeartbeatInterval is how often a capture client sends a KindHeartbeat
// envelope to keep its session alive on the relay server.
const HeartbeatInterval = 5 * time.Second

// Kind is the envelope's frame type.
type Kind uint8

const (
	// KindData carries an opaque HPACK byte block to be decoded.
	KindData Kind = 0x00
	// KindHeartbeat carries no payload; it only keeps a session alive.
	KindHeartbeat Kind = 0x01
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// ErrTruncatedEnvelope is returned when a byte slice is shorter than the
// envelope header it claims to contain.
var ErrTruncatedEnvelope = errors.New("capture: truncated envelope")

const envelopeMinSize = 1 + 2 + 4 // kind + session-id length + payload length

// Envelope is one framed message on the capture relay's binary channel.
type Envelope struct {
	Kind      Kind
	SessionID string
	Payload   []byte
}

// Marshal encodes the envelope to its wire format: 1-byte kind, 2-byte
// big-endian session-id length, 4-byte big-endian payload length, the
// session id, then the payload.
func (e *Envelope) Marshal() []byte {
	sidLen := len(e.SessionID)
	total := envelopeMinSize + sidLen + len(e.Payload)
	buf := make([]byte, total)

	buf[0] = byte(e.Kind)
	binary.BigEndian.PutUint16(buf[1:3], uint16(sidLen))
	binary.BigEndian.PutUint32(buf[3:7], uint32(len(e.Payload)))

	offset := envelopeMinSize
	copy(buf[offset:], e.SessionID)
	offset += sidLen
	copy(buf[offset:], e.Payload)

	return buf
}

// Unmarshal decodes an envelope from data, sharing data's backing array for
// Payload rather than copying it.
func (e *Envelope) Unmarshal(data []byte) error {
	if len(data) < envelopeMinSize {
		return ErrTruncatedEnvelope
	}

	e.Kind = Kind(data[0])
	sidLen := int(binary.BigEndian.Uint16(data[1:3]))
	payloadLen := int(binary.BigEndian.Uint32(data[3:7]))

	expected := envelopeMinSize + sidLen + payloadLen
	if len(data) < expected {
		return ErrTruncatedEnvelope
	}

	offset := envelopeMinSize
	e.SessionID = string(data[offset : offset+sidLen])
	offset += sidLen
	e.Payload = data[offset : offset+payloadLen]

	return nil
}
