package ble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/AndreaFavero71/cubotino-pocket/internal/protocol"
	"github.com/AndreaFavero71/cubotino-pocket/internal/robot"
)

// ErrRobot wraps an error reply sent by the robot.
var ErrRobot = errors.New("ble: robot reported error")

// ErrBusy is returned when an exchange is started while another one is
// waiting for its replies.
var ErrBusy = errors.New("ble: robot busy")

// chunkSize is the default BLE ATT payload.
const chunkSize = 20

// writer sends raw bytes to the robot.
type writer interface {
	write(data []byte) error
}

// session tracks one program exchange over a framed link. Notifications
// arrive on a BLE callback goroutine and are handed to waiting callers
// through the replies channel.
type session struct {
	w      writer
	logger *slog.Logger

	mu      sync.Mutex
	asm     protocol.Assembler
	replies chan *protocol.Message
	running bool // an exchange owns the replies channel
	last    protocol.Done
	status  protocol.Status
}

func newSession(w writer, logger *slog.Logger) *session {
	if logger == nil {
		logger = slog.Default()
	}
	return &session{
		w:       w,
		logger:  logger,
		replies: make(chan *protocol.Message, 8),
		status:  protocol.Status{Battery: -1},
	}
}

// handleNotification feeds raw notification data.
func (s *session) handleNotification(data []byte) {
	s.mu.Lock()
	msgs, errs := s.asm.Feed(data)
	s.mu.Unlock()

	for _, err := range errs {
		s.logger.Warn("dropping robot frame", "error", err)
	}
	for _, msg := range msgs {
		s.logger.Debug("robot message", "type", protocol.MessageTypeName(msg.Type), "raw", msg.RawBase64)
		if msg.Type == protocol.MsgTypeStatus {
			if st, err := protocol.DecodeStatus(msg.Payload); err == nil {
				s.mu.Lock()
				s.status = st
				s.mu.Unlock()
			}
		}
		select {
		case s.replies <- msg:
		default:
			s.logger.Warn("reply queue full", "type", protocol.MessageTypeName(msg.Type))
		}
	}
}

func (s *session) send(frame []byte) error {
	for _, chunk := range protocol.Chunk(frame, chunkSize) {
		if err := s.w.write(chunk); err != nil {
			return fmt.Errorf("ble: write: %w", err)
		}
	}
	return nil
}

// drain discards replies left over from an earlier exchange.
func (s *session) drain() {
	for {
		select {
		case <-s.replies:
		default:
			return
		}
	}
}

// begin claims the replies channel for one exchange. The returned func
// releases it.
func (s *session) begin() (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil, ErrBusy
	}
	s.running = true
	return func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}, nil
}

// Execute sends a program and blocks until the robot reports done or error.
// Cancelling ctx sends an abort command.
func (s *session) Execute(ctx context.Context, prog robot.Program) error {
	end, err := s.begin()
	if err != nil {
		return err
	}
	defer end()

	s.drain()
	frame, err := protocol.Build(protocol.MsgTypeProgram, []byte(prog.String()))
	if err != nil {
		return err
	}
	if err := s.send(frame); err != nil {
		return err
	}
	s.logger.Info("program sent", "program", prog.String(), "robot_moves", prog.RobotMoves())

	for {
		select {
		case <-ctx.Done():
			if err := s.send(protocol.BuildCommand(protocol.MsgTypeAbort)); err != nil {
				s.logger.Warn("abort failed", "error", err)
			}
			return ctx.Err()
		case msg := <-s.replies:
			switch msg.Type {
			case protocol.MsgTypeAck:
				n, err := protocol.DecodeAck(msg.Payload)
				if err != nil {
					return err
				}
				if n != len(prog) {
					return fmt.Errorf("%w: robot accepted %d of %d primitives", ErrRobot, n, len(prog))
				}
			case protocol.MsgTypeDone:
				d, err := protocol.DecodeDone(msg.Payload)
				if err != nil {
					return err
				}
				s.mu.Lock()
				s.last = d
				s.mu.Unlock()
				s.logger.Info("program done", "robot_moves", d.RobotMoves, "elapsed", d.Elapsed)
				return nil
			case protocol.MsgTypeError:
				return fmt.Errorf("%w: %s", ErrRobot, protocol.DecodeError(msg.Payload))
			}
		}
	}
}

// RequestStatus asks the robot for a status report and waits for it. It
// fails with ErrBusy while a program runs, and Execute fails the same way
// while the request is pending.
func (s *session) RequestStatus(ctx context.Context) (protocol.Status, error) {
	end, err := s.begin()
	if err != nil {
		return protocol.Status{}, err
	}
	defer end()

	if err := s.send(protocol.BuildCommand(protocol.MsgTypeStatusReq)); err != nil {
		return protocol.Status{}, err
	}
	for {
		select {
		case <-ctx.Done():
			return protocol.Status{}, ctx.Err()
		case msg := <-s.replies:
			if msg.Type != protocol.MsgTypeStatus {
				continue
			}
			return protocol.DecodeStatus(msg.Payload)
		}
	}
}

// LastRun returns the report of the last completed program.
func (s *session) LastRun() protocol.Done {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Status returns the last status the robot reported. Battery is -1 when unknown.
func (s *session) Status() protocol.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

var _ robot.Executor = (*session)(nil)
