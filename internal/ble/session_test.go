package ble

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreaFavero71/cubotino-pocket/internal/protocol"
	"github.com/AndreaFavero71/cubotino-pocket/internal/robot"
)

// fakeRobot reassembles host frames and answers through respond.
type fakeRobot struct {
	mu      sync.Mutex
	asm     protocol.Assembler
	writes  [][]byte
	got     []*protocol.Message
	respond func(msg *protocol.Message) [][]byte
	s       *session
}

func (f *fakeRobot) write(data []byte) error {
	f.mu.Lock()
	f.writes = append(f.writes, append([]byte(nil), data...))
	msgs, _ := f.asm.Feed(data)
	f.got = append(f.got, msgs...)
	f.mu.Unlock()

	for _, msg := range msgs {
		if f.respond == nil {
			continue
		}
		for _, reply := range f.respond(msg) {
			go f.s.handleNotification(reply)
		}
	}
	return nil
}

func (f *fakeRobot) received() []*protocol.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*protocol.Message(nil), f.got...)
}

func newTestSession(respond func(*protocol.Message) [][]byte) (*session, *fakeRobot) {
	f := &fakeRobot{respond: respond}
	f.s = newSession(f, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f.s, f
}

func frame(t byte, payload []byte) []byte {
	b, err := protocol.Build(t, payload)
	if err != nil {
		panic(err)
	}
	return b
}

func TestExecuteDone(t *testing.T) {
	prog, err := robot.ParseProgram("F1R1S3F2R3S1F1R1")
	require.NoError(t, err)

	s, f := newTestSession(func(msg *protocol.Message) [][]byte {
		if msg.Type != protocol.MsgTypeProgram {
			return nil
		}
		p, _ := robot.ParseProgram(string(msg.Payload))
		done := frame(protocol.MsgTypeDone, protocol.EncodeDone(protocol.Done{
			RobotMoves: p.RobotMoves(),
			Elapsed:    1500 * time.Millisecond,
		}))
		ack := frame(protocol.MsgTypeAck, []byte{0, byte(len(p))})
		// Both replies arrive in one notification.
		both := append(ack, done...)
		return [][]byte{both}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Execute(ctx, prog))

	got := f.received()
	require.Len(t, got, 1)
	assert.Equal(t, prog.String(), string(got[0].Payload))
	for _, w := range f.writes {
		assert.LessOrEqual(t, len(w), chunkSize)
	}
	assert.Equal(t, protocol.Done{RobotMoves: prog.RobotMoves(), Elapsed: 1500 * time.Millisecond}, s.LastRun())
}

func TestExecuteRobotError(t *testing.T) {
	prog, _ := robot.ParseProgram("F1")
	s, _ := newTestSession(func(msg *protocol.Message) [][]byte {
		return [][]byte{frame(protocol.MsgTypeError, []byte("servo stall"))}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.Execute(ctx, prog)
	assert.ErrorIs(t, err, ErrRobot)
	assert.Contains(t, err.Error(), "servo stall")
}

func TestExecuteAckMismatch(t *testing.T) {
	prog, _ := robot.ParseProgram("F1R1")
	s, _ := newTestSession(func(msg *protocol.Message) [][]byte {
		return [][]byte{frame(protocol.MsgTypeAck, []byte{0, 1})}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.ErrorIs(t, s.Execute(ctx, prog), ErrRobot)
}

func TestExecuteCancelSendsAbort(t *testing.T) {
	prog, _ := robot.ParseProgram("S1")
	s, f := newTestSession(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Execute(ctx, prog), context.DeadlineExceeded)

	got := f.received()
	require.Len(t, got, 2)
	assert.Equal(t, protocol.MsgTypeProgram, got[0].Type)
	assert.Equal(t, protocol.MsgTypeAbort, got[1].Type)
}

func TestRequestStatus(t *testing.T) {
	s, _ := newTestSession(func(msg *protocol.Message) [][]byte {
		if msg.Type != protocol.MsgTypeStatusReq {
			return nil
		}
		return [][]byte{frame(protocol.MsgTypeStatus, []byte{byte(protocol.StateIdle), 72})}
	})
	assert.Equal(t, -1, s.Status().Battery)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := s.RequestStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, protocol.Status{State: protocol.StateIdle, Battery: 72}, st)
	assert.Equal(t, 72, s.Status().Battery)
}

func (s *session) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// programOnly acknowledges and completes programs but never answers a
// status request.
func programOnly(msg *protocol.Message) [][]byte {
	if msg.Type != protocol.MsgTypeProgram {
		return nil
	}
	p, _ := robot.ParseProgram(string(msg.Payload))
	ack := frame(protocol.MsgTypeAck, []byte{0, byte(len(p))})
	done := frame(protocol.MsgTypeDone, protocol.EncodeDone(protocol.Done{RobotMoves: p.RobotMoves()}))
	return [][]byte{ack, done}
}

func TestExecuteWhileStatusPending(t *testing.T) {
	prog, _ := robot.ParseProgram("F1R1S3")
	s, _ := newTestSession(programOnly)

	statusCtx, cancelStatus := context.WithCancel(context.Background())
	statusErr := make(chan error, 1)
	go func() {
		_, err := s.RequestStatus(statusCtx)
		statusErr <- err
	}()
	require.Eventually(t, s.isRunning, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.ErrorIs(t, s.Execute(ctx, prog), ErrBusy)

	cancelStatus()
	assert.ErrorIs(t, <-statusErr, context.Canceled)

	// The program's replies are no longer lost to the status request.
	require.NoError(t, s.Execute(ctx, prog))
	assert.Equal(t, 3, s.LastRun().RobotMoves)
}

func TestStatusWhileExecuting(t *testing.T) {
	prog, _ := robot.ParseProgram("S1")
	s, _ := newTestSession(nil)

	ctx, cancel := context.WithCancel(context.Background())
	execErr := make(chan error, 1)
	go func() { execErr <- s.Execute(ctx, prog) }()
	require.Eventually(t, s.isRunning, time.Second, time.Millisecond)

	_, err := s.RequestStatus(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	cancel()
	assert.ErrorIs(t, <-execErr, context.Canceled)
	assert.False(t, s.isRunning())
}

func TestCorruptNotificationIgnored(t *testing.T) {
	s, _ := newTestSession(nil)
	s.handleNotification([]byte{0x2A, 0x04, 0x21, 0x00, 0x0D, 0x0A})
	select {
	case msg := <-s.replies:
		t.Fatalf("unexpected message %v", msg)
	default:
	}
}
