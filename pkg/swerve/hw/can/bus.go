package can

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
	pkgerrors "github.com/pkg/errors"

	fx "github.com/robotalks/swerve.go/pkg/framework"
)

// Errors reading positions.
var (
	ErrNoStatus    = errors.New("no status received")
	ErrStaleStatus = errors.New("status expired")
	ErrNoAnalog    = errors.New("no analog reading")
)

// DefaultStatusTimeout is used when Bus.StatusTimeout is 0.
const DefaultStatusTimeout = 100 * time.Millisecond

// Socket is a raw CAN socket.
type Socket interface {
	io.Closer
	Send(Frame) error
	Recv() (Frame, error)
}

// Bus sends commands to motor controllers and caches their status reports.
type Bus struct {
	Socket        Socket
	StatusTimeout time.Duration

	lock   sync.RWMutex
	status map[uint8]timedStatus
	now    func() time.Time
}

type timedStatus struct {
	Status
	at time.Time
}

// NewBus creates a Bus over a socket.
func NewBus(sock Socket) *Bus {
	return &Bus{Socket: sock, status: make(map[uint8]timedStatus), now: time.Now}
}

// Run implements framework.Runnable. It receives status reports until ctx
// is canceled, then closes the socket.
func (b *Bus) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, b.Socket, func() error {
		for {
			f, err := b.Socket.Recv()
			if err != nil {
				return pkgerrors.Wrap(err, "can recv")
			}
			b.HandleFrame(f)
		}
	})
}

// HandleFrame processes a received frame.
func (b *Bus) HandleFrame(f Frame) {
	if f.API() != APIStatus {
		glog.V(4).Infof("can: ignore %s", f)
		return
	}
	st, err := DecodeStatus(f)
	if err != nil {
		glog.Warningf("can: %v", err)
		return
	}
	b.update(st)
}

func (b *Bus) update(st Status) {
	b.lock.Lock()
	b.status[st.Device] = timedStatus{Status: st, at: b.now()}
	b.lock.Unlock()
}

// Status returns the latest fresh status of a device.
func (b *Bus) Status(device uint8) (Status, error) {
	b.lock.RLock()
	st, ok := b.status[device]
	b.lock.RUnlock()
	if !ok {
		return Status{}, pkgerrors.Wrapf(ErrNoStatus, "device %d", device)
	}
	timeout := b.StatusTimeout
	if timeout == 0 {
		timeout = DefaultStatusTimeout
	}
	if b.now().Sub(st.at) > timeout {
		return st.Status, pkgerrors.Wrapf(ErrStaleStatus, "device %d", device)
	}
	return st.Status, nil
}

// Send sends a frame.
func (b *Bus) Send(f Frame) error {
	glog.V(4).Infof("can: send %s", f)
	if err := b.Socket.Send(f); err != nil {
		return pkgerrors.Wrapf(err, "can send %s", f)
	}
	return nil
}

// Enclosure is the drive.Hardware of one wheel on the bus.
type Enclosure struct {
	Bus     *Bus
	DriveID uint8
	SteerID uint8
}

// NewEnclosure creates the hardware with drive and steer motor controllers.
func (b *Bus) NewEnclosure(driveID, steerID uint8) *Enclosure {
	return &Enclosure{Bus: b, DriveID: driveID, SteerID: steerID}
}

// AbsolutePosition implements drive.Hardware.
func (e *Enclosure) AbsolutePosition() (int64, error) {
	st, err := e.Bus.Status(e.SteerID)
	return st.Position, err
}

// SetAbsolutePosition implements drive.Hardware.
func (e *Enclosure) SetAbsolutePosition(ticks int64) error {
	if err := e.Bus.Send(SetSensorFrame(e.SteerID, ticks)); err != nil {
		return err
	}
	// until the next report arrives.
	e.Bus.lock.Lock()
	st := e.Bus.status[e.SteerID]
	st.Device, st.Position, st.at = e.SteerID, ticks, e.Bus.now()
	e.Bus.status[e.SteerID] = st
	e.Bus.lock.Unlock()
	return nil
}

// RawAbsolute implements drive.AbsoluteSensor with the analog reading
// of the steering controller.
func (e *Enclosure) RawAbsolute() (int64, error) {
	st, err := e.Bus.Status(e.SteerID)
	if err != nil {
		return 0, err
	}
	if !st.HasAnalog {
		return 0, pkgerrors.Wrapf(ErrNoAnalog, "device %d", e.SteerID)
	}
	return int64(st.Analog), nil
}

// SetDrive implements drive.Hardware.
func (e *Enclosure) SetDrive(speed float64) error {
	return e.Bus.Send(DutyCycleFrame(e.DriveID, speed))
}

// SetSteering implements drive.Hardware.
func (e *Enclosure) SetSteering(position float64) error {
	return e.Bus.Send(PositionFrame(e.SteerID, position))
}

// Stop implements drive.Hardware.
func (e *Enclosure) Stop() error {
	var errs fx.AggregatedError
	errs.Add(e.Bus.Send(StopFrame(e.DriveID)), e.Bus.Send(StopFrame(e.SteerID)))
	return errs.Aggregate()
}
