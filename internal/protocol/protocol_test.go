package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildParse(t *testing.T) {
	frame, err := Build(MsgTypeProgram, []byte("F1R1S3"))
	require.NoError(t, err)

	assert.Equal(t, FramePrefix, frame[0])
	assert.Equal(t, byte(len(frame)-2), frame[1])
	assert.Equal(t, []byte{FrameSuffix1, FrameSuffix2}, frame[len(frame)-2:])

	msg, err := Parse(frame)
	require.NoError(t, err)
	assert.Equal(t, MsgTypeProgram, msg.Type)
	assert.Equal(t, "F1R1S3", string(msg.Payload))
	assert.NotEmpty(t, msg.RawBase64)
}

func TestBuildCommand(t *testing.T) {
	frame := BuildCommand(MsgTypeStatusReq)
	assert.Len(t, frame, 6)

	msg, err := Parse(frame)
	require.NoError(t, err)
	assert.Equal(t, MsgTypeStatusReq, msg.Type)
	assert.Empty(t, msg.Payload)
}

func TestBuildPayloadTooLarge(t *testing.T) {
	_, err := Build(MsgTypeProgram, make([]byte, MaxPayload+1))
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	_, err = Build(MsgTypeProgram, make([]byte, MaxPayload))
	assert.NoError(t, err)
}

func TestParseErrors(t *testing.T) {
	good, err := Build(MsgTypeError, []byte("jam"))
	require.NoError(t, err)

	mutate := func(f func([]byte)) []byte {
		b := append([]byte(nil), good...)
		f(b)
		return b
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short", good[:4], ErrMessageTooShort},
		{"prefix", mutate(func(b []byte) { b[0] = 0x00 }), ErrInvalidPrefix},
		{"suffix", mutate(func(b []byte) { b[len(b)-1] = 0x00 }), ErrInvalidSuffix},
		{"checksum", mutate(func(b []byte) { b[3] ^= 0xFF }), ErrInvalidChecksum},
		{"truncated", good[:len(good)-1], ErrInvalidLength},
		{"length", mutate(func(b []byte) { b[1] = 1 }), ErrInvalidLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAssemblerSplitFrames(t *testing.T) {
	ack, _ := Build(MsgTypeAck, []byte{0, 3})
	done, _ := Build(MsgTypeDone, EncodeDone(Done{RobotMoves: 5, Elapsed: 2 * time.Second}))
	stream := append([]byte{0x00, 0x13}, ack...)
	stream = append(stream, done...)

	var a Assembler
	var got []*Message
	for _, chunk := range Chunk(stream, 4) {
		msgs, errs := a.Feed(chunk)
		assert.Empty(t, errs)
		got = append(got, msgs...)
	}

	require.Len(t, got, 2)
	assert.Equal(t, MsgTypeAck, got[0].Type)
	assert.Equal(t, MsgTypeDone, got[1].Type)

	n, err := DecodeAck(got[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	d, err := DecodeDone(got[1].Payload)
	require.NoError(t, err)
	assert.Equal(t, Done{RobotMoves: 5, Elapsed: 2 * time.Second}, d)
}

func TestAssemblerSkipsCorruptFrame(t *testing.T) {
	bad, _ := Build(MsgTypeAck, []byte{0, 1})
	bad[3] ^= 0xFF
	good, _ := Build(MsgTypeStatus, []byte{byte(StateIdle), 80})

	var a Assembler
	msgs, errs := a.Feed(append(bad, good...))
	require.Len(t, msgs, 1)
	assert.NotEmpty(t, errs)
	assert.Equal(t, MsgTypeStatus, msgs[0].Type)
}

func TestChunk(t *testing.T) {
	frame := make([]byte, 45)
	chunks := Chunk(frame, 20)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 20)
	assert.Len(t, chunks[2], 5)

	assert.Len(t, Chunk(frame, 0), 1)
}

func TestDecoders(t *testing.T) {
	_, err := DecodeDone([]byte{1})
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = DecodeAck(nil)
	assert.ErrorIs(t, err, ErrInvalidPayload)

	st, err := DecodeStatus([]byte{byte(StateBusy), 64})
	require.NoError(t, err)
	assert.Equal(t, Status{State: StateBusy, Battery: 64}, st)
	assert.Equal(t, "busy", st.State.String())

	_, err = DecodeStatus([]byte{0, 101})
	assert.ErrorIs(t, err, ErrInvalidPayload)

	assert.Equal(t, "unspecified", DecodeError(nil))
	assert.Equal(t, "servo timeout", DecodeError([]byte("servo timeout")))
}

func TestMessageTypeName(t *testing.T) {
	assert.Equal(t, "done", MessageTypeName(MsgTypeDone))
	assert.Equal(t, "unknown_0x7F", MessageTypeName(0x7F))
}
