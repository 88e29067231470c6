// Package protocol implements the framed link between the host and the
// robot controller. Frames travel over a BLE UART service.
package protocol

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// Nordic UART service UUIDs exposed by the robot controller.
const (
	ServiceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	TxCharUUID  = "6e400003-b5a3-f393-e0a9-e50e24dcca9e" // Notify
	RxCharUUID  = "6e400002-b5a3-f393-e0a9-e50e24dcca9e" // Write
)

// Message types sent by the host.
const (
	MsgTypeProgram   byte = 0x10 // payload: program tokens, "F1R1S3"
	MsgTypeAbort     byte = 0x11
	MsgTypeStatusReq byte = 0x12
)

// Message types sent by the robot.
const (
	MsgTypeAck    byte = 0x20 // program accepted, payload: token count
	MsgTypeDone   byte = 0x21 // payload: robot moves (u16), elapsed ms (u32)
	MsgTypeError  byte = 0x22 // payload: ASCII reason
	MsgTypeStatus byte = 0x23 // payload: state, battery percent
)

// Frame layout: [0x2A] [length] [type] [payload...] [checksum] [0x0D 0x0A].
// length counts every byte after itself.
const (
	FramePrefix  byte = 0x2A // '*'
	FrameSuffix1 byte = 0x0D // CR
	FrameSuffix2 byte = 0x0A // LF

	frameOverhead = 6
	// MaxPayload is the largest payload a frame can carry.
	MaxPayload = 255 - 4
)

// Errors
var (
	ErrInvalidPrefix   = errors.New("invalid message prefix")
	ErrInvalidSuffix   = errors.New("invalid message suffix")
	ErrInvalidChecksum = errors.New("invalid checksum")
	ErrMessageTooShort = errors.New("message too short")
	ErrInvalidLength   = errors.New("invalid message length")
	ErrPayloadTooLarge = errors.New("payload too large")
)

// Message is a parsed frame.
type Message struct {
	Type      byte   // Message type identifier
	Payload   []byte // Payload without frame overhead
	RawBase64 string // Base64 of the whole frame, for logs
}

func checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// Parse parses one complete frame.
func Parse(data []byte) (*Message, error) {
	if len(data) < frameOverhead {
		return nil, ErrMessageTooShort
	}
	if data[0] != FramePrefix {
		return nil, ErrInvalidPrefix
	}

	length := int(data[1])
	if length < frameOverhead-2 {
		return nil, fmt.Errorf("%w: length byte %d", ErrInvalidLength, length)
	}
	total := 2 + length
	if len(data) < total {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidLength, total, len(data))
	}

	checksumIdx := total - 3
	if data[checksumIdx+1] != FrameSuffix1 || data[checksumIdx+2] != FrameSuffix2 {
		return nil, ErrInvalidSuffix
	}
	if sum := checksum(data[:checksumIdx]); sum != data[checksumIdx] {
		return nil, fmt.Errorf("%w: expected 0x%02X, got 0x%02X", ErrInvalidChecksum, data[checksumIdx], sum)
	}

	payload := make([]byte, checksumIdx-3)
	copy(payload, data[3:checksumIdx])
	return &Message{
		Type:      data[2],
		Payload:   payload,
		RawBase64: base64.StdEncoding.EncodeToString(data[:total]),
	}, nil
}

// Build frames a message.
func Build(msgType byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}
	frame := make([]byte, 0, len(payload)+frameOverhead)
	frame = append(frame, FramePrefix, byte(len(payload)+4), msgType)
	frame = append(frame, payload...)
	frame = append(frame, checksum(frame), FrameSuffix1, FrameSuffix2)
	return frame, nil
}

// BuildCommand frames a message without payload.
func BuildCommand(msgType byte) []byte {
	frame, _ := Build(msgType, nil)
	return frame
}

// Assembler rebuilds frames from notification chunks, which may split or
// join frames arbitrarily. Bytes before a prefix are dropped.
type Assembler struct {
	buf []byte
}

// Feed appends data and returns every complete frame, in order. Frames that
// fail to parse are returned as errors and skipped.
func (a *Assembler) Feed(data []byte) ([]*Message, []error) {
	a.buf = append(a.buf, data...)
	var msgs []*Message
	var errs []error
	for {
		start := 0
		for start < len(a.buf) && a.buf[start] != FramePrefix {
			start++
		}
		a.buf = a.buf[start:]
		if len(a.buf) < 2 {
			return msgs, errs
		}
		total := 2 + int(a.buf[1])
		if len(a.buf) < total {
			return msgs, errs
		}
		msg, err := Parse(a.buf[:total])
		if err != nil {
			errs = append(errs, err)
			a.buf = a.buf[1:]
			continue
		}
		msgs = append(msgs, msg)
		a.buf = a.buf[total:]
	}
}

// Chunk splits a frame into writes of at most size bytes.
func Chunk(frame []byte, size int) [][]byte {
	if size <= 0 {
		size = len(frame)
	}
	var out [][]byte
	for len(frame) > size {
		out = append(out, frame[:size])
		frame = frame[size:]
	}
	if len(frame) > 0 {
		out = append(out, frame)
	}
	return out
}

// MessageTypeName returns a readable name for a message type.
func MessageTypeName(msgType byte) string {
	switch msgType {
	case MsgTypeProgram:
		return "program"
	case MsgTypeAbort:
		return "abort"
	case MsgTypeStatusReq:
		return "status_request"
	case MsgTypeAck:
		return "ack"
	case MsgTypeDone:
		return "done"
	case MsgTypeError:
		return "error"
	case MsgTypeStatus:
		return "status"
	default:
		return fmt.Sprintf("unknown_0x%02X", msgType)
	}
}
