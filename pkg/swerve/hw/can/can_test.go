package can

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/swerve.go/pkg/swerve/drive"
	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
)

type fakeSocket struct {
	lock   sync.Mutex
	sent   []Frame
	recvCh chan Frame
	closed chan struct{}
	once   sync.Once
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{recvCh: make(chan Frame), closed: make(chan struct{})}
}

func (s *fakeSocket) Send(f Frame) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.sent = append(s.sent, f)
	return nil
}

func (s *fakeSocket) Recv() (Frame, error) {
	select {
	case f := <-s.recvCh:
		return f, nil
	case <-s.closed:
		return Frame{}, io.EOF
	}
}

func (s *fakeSocket) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func (s *fakeSocket) frames() []Frame {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]Frame(nil), s.sent...)
}

func TestFrameCodec(t *testing.T) {
	f := DutyCycleFrame(3, 1)
	require.Equal(t, uint32(0x0103), f.ID)
	require.Equal(t, APIDutyCycle, f.API())
	require.Equal(t, uint8(3), f.Device())
	duty, err := DecodeDutyCycle(f)
	require.NoError(t, err)
	require.InDelta(t, 1, duty, 1e-4)

	duty, err = DecodeDutyCycle(DutyCycleFrame(3, -2))
	require.NoError(t, err)
	require.InDelta(t, -1, duty, 1e-4)

	duty, err = DecodeDutyCycle(DutyCycleFrame(3, 0.5))
	require.NoError(t, err)
	require.InDelta(t, 0.5, duty, 1e-4)

	pos, err := DecodePosition(PositionFrame(4, -828.5))
	require.NoError(t, err)
	require.InDelta(t, -828.5, pos, 1e-3)

	st, err := DecodeStatus(StatusFrame(Status{Device: 2, Position: -1234567, Velocity: -42}))
	require.NoError(t, err)
	require.Equal(t, Status{Device: 2, Position: -1234567, Velocity: -42}, st)

	require.Equal(t, []byte{0x2c, 0x03, 0, 0}, SetSensorFrame(1, 812).Data)
	require.Equal(t, FrameID(APIStop, 9), StopFrame(9).ID)
	require.Empty(t, StopFrame(9).Data)

	_, err = DecodeStatus(Frame{ID: FrameID(APIStatus, 1), Data: []byte{1}})
	require.True(t, errors.Is(err, ErrMalformedFrame))
	_, err = DecodePosition(DutyCycleFrame(1, 0))
	require.True(t, errors.Is(err, ErrMalformedFrame))
	_, err = DecodeDutyCycle(PositionFrame(1, 0))
	require.True(t, errors.Is(err, ErrMalformedFrame))
}

func TestBusStatus(t *testing.T) {
	now := time.Unix(1000, 0)
	bus := NewBus(newFakeSocket())
	bus.now = func() time.Time { return now }

	_, err := bus.Status(2)
	require.True(t, errors.Is(err, ErrNoStatus))

	bus.HandleFrame(StatusFrame(Status{Device: 2, Position: 828}))
	bus.HandleFrame(DutyCycleFrame(2, 1))
	bus.HandleFrame(Frame{ID: FrameID(APIStatus, 2), Data: []byte{1, 2}})
	st, err := bus.Status(2)
	require.NoError(t, err)
	require.EqualValues(t, 828, st.Position)

	now = now.Add(DefaultStatusTimeout + time.Millisecond)
	_, err = bus.Status(2)
	require.True(t, errors.Is(err, ErrStaleStatus))

	bus.StatusTimeout = time.Second
	_, err = bus.Status(2)
	require.NoError(t, err)
}

func TestBusRun(t *testing.T) {
	sock := newFakeSocket()
	bus := NewBus(sock)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- bus.Run(ctx) }()

	sock.recvCh <- StatusFrame(Status{Device: 7, Position: 414})
	// a second send guarantees the first frame is handled.
	sock.recvCh <- StatusFrame(Status{Device: 8, Position: 1})
	require.Eventually(t, func() bool {
		st, err := bus.Status(7)
		return err == nil && st.Position == 414
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("bus didn't stop")
	}
}

func TestEnclosureHardware(t *testing.T) {
	sock := newFakeSocket()
	bus := NewBus(sock)
	var hw drive.Hardware = bus.NewEnclosure(1, 2)

	_, err := hw.AbsolutePosition()
	require.Error(t, err)

	require.NoError(t, hw.SetAbsolutePosition(207))
	ticks, err := hw.AbsolutePosition()
	require.NoError(t, err)
	require.EqualValues(t, 207, ticks)

	require.NoError(t, hw.SetDrive(-0.5))
	require.NoError(t, hw.SetSteering(414))
	require.NoError(t, hw.Stop())

	frames := sock.frames()
	require.Len(t, frames, 5)
	require.Equal(t, SetSensorFrame(2, 207), frames[0])
	require.Equal(t, DutyCycleFrame(1, -0.5), frames[1])
	require.Equal(t, PositionFrame(2, 414), frames[2])
	require.Equal(t, StopFrame(1), frames[3])
	require.Equal(t, StopFrame(2), frames[4])
}

func TestEnclosureDrive(t *testing.T) {
	sock := newFakeSocket()
	bus := NewBus(sock)
	bus.HandleFrame(StatusFrame(Status{Device: 2, Position: 828}))

	enc, err := drive.NewEnclosure("front-right", 1988/1.2, bus.NewEnclosure(1, 2))
	require.NoError(t, err)
	st, err := enc.Move(kinematics.WheelDirective{Angle: 0, Speed: 1})
	require.NoError(t, err)
	require.True(t, st.DriveSign < 0)

	frames := sock.frames()
	require.Len(t, frames, 2)
	duty, err := DecodeDutyCycle(frames[0])
	require.NoError(t, err)
	require.InDelta(t, -1, duty, 1e-4)
	pos, err := DecodePosition(frames[1])
	require.NoError(t, err)
	require.InDelta(t, 1988/1.2/2, pos, 1e-2)
	require.Equal(t, uint8(2), frames[1].Device())
}

func TestEnclosureAnalog(t *testing.T) {
	frame := StatusFrame(Status{Device: 2, Position: 5, Analog: 3248, HasAnalog: true})
	require.Len(t, frame.Data, 8)
	st, err := DecodeStatus(frame)
	require.NoError(t, err)
	require.True(t, st.HasAnalog)
	require.EqualValues(t, 3248, st.Analog)

	sock := newFakeSocket()
	bus := NewBus(sock)
	enc := bus.NewEnclosure(1, 2)
	bus.HandleFrame(StatusFrame(Status{Device: 2, Position: 5}))
	_, err = enc.RawAbsolute()
	require.True(t, errors.Is(err, ErrNoAnalog))

	bus.HandleFrame(frame)
	raw, err := enc.RawAbsolute()
	require.NoError(t, err)
	require.EqualValues(t, 3248, raw)

	// re-zeroing keeps the analog reading.
	var sensor drive.AbsoluteSensor = enc
	require.NoError(t, enc.SetAbsolutePosition(0))
	raw, err = sensor.RawAbsolute()
	require.NoError(t, err)
	require.EqualValues(t, 3248, raw)
}
