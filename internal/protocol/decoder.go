package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPayload is returned when a payload does not match its type.
var ErrInvalidPayload = errors.New("invalid payload")

// Done reports a finished program.
type Done struct {
	RobotMoves int
	Elapsed    time.Duration
}

// DecodeDone decodes a done payload: robot moves (u16 BE), elapsed ms (u32 BE).
func DecodeDone(payload []byte) (Done, error) {
	if len(payload) != 6 {
		return Done{}, fmt.Errorf("%w: done payload is %d bytes", ErrInvalidPayload, len(payload))
	}
	return Done{
		RobotMoves: int(binary.BigEndian.Uint16(payload[0:2])),
		Elapsed:    time.Duration(binary.BigEndian.Uint32(payload[2:6])) * time.Millisecond,
	}, nil
}

// EncodeDone is the inverse of DecodeDone. The virtual controller uses it.
func EncodeDone(d Done) []byte {
	out := make([]byte, 6)
	binary.BigEndian.PutUint16(out[0:2], uint16(d.RobotMoves))
	binary.BigEndian.PutUint32(out[2:6], uint32(d.Elapsed/time.Millisecond))
	return out
}

// DecodeAck returns the number of tokens the robot accepted.
func DecodeAck(payload []byte) (int, error) {
	if len(payload) != 2 {
		return 0, fmt.Errorf("%w: ack payload is %d bytes", ErrInvalidPayload, len(payload))
	}
	return int(binary.BigEndian.Uint16(payload)), nil
}

// DecodeError returns the robot's reason text.
func DecodeError(payload []byte) string {
	if len(payload) == 0 {
		return "unspecified"
	}
	return string(payload)
}

// State is the robot controller state.
type State byte

const (
	StateIdle State = iota
	StateBusy
	StateFault
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBusy:
		return "busy"
	case StateFault:
		return "fault"
	default:
		return fmt.Sprintf("state(%d)", byte(s))
	}
}

// Status is the decoded status reply.
type Status struct {
	State   State
	Battery int // percent
}

// DecodeStatus decodes a status payload: state, battery percent.
func DecodeStatus(payload []byte) (Status, error) {
	if len(payload) != 2 {
		return Status{}, fmt.Errorf("%w: status payload is %d bytes", ErrInvalidPayload, len(payload))
	}
	if payload[1] > 100 {
		return Status{}, fmt.Errorf("%w: battery %d%%", ErrInvalidPayload, payload[1])
	}
	return Status{State: State(payload[0]), Battery: int(payload[1])}, nil
}
