// Package can drives swerve enclosures whose motor controllers sit on a
// CAN bus.
//
// Frames use 29-bit identifiers: the low 8 bits address the device and
// the next 8 bits select the API. Payloads are little-endian.
package can

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// API identifies the meaning of a frame.
type API uint8

// Frame APIs.
const (
	// APIDutyCycle sets motor output: int16 scaled from [-1, 1].
	APIDutyCycle API = 0x01
	// APIPosition sets the closed-loop position setpoint: float32 ticks.
	APIPosition API = 0x02
	// APISetSensor overwrites the accumulated sensor position: int32 ticks.
	APISetSensor API = 0x03
	// APIStop puts the motor into neutral.
	APIStop API = 0x04
	// APIStatus is reported by the device: int32 ticks, int16 velocity
	// and optionally uint16 absolute analog counts.
	APIStatus API = 0x10
)

const dutyScale = math.MaxInt16

// ErrMalformedFrame indicates a frame payload doesn't match its API.
var ErrMalformedFrame = errors.New("malformed frame")

// Frame is a CAN frame with an extended identifier.
type Frame struct {
	ID   uint32
	Data []byte
}

// FrameID composes the identifier.
func FrameID(api API, device uint8) uint32 {
	return uint32(api)<<8 | uint32(device)
}

// API extracts the API from the identifier.
func (f Frame) API() API {
	return API(f.ID >> 8)
}

// Device extracts the device id from the identifier.
func (f Frame) Device() uint8 {
	return uint8(f.ID)
}

func (f Frame) String() string {
	return fmt.Sprintf("%08x#%x", f.ID, f.Data)
}

// DutyCycleFrame encodes a duty cycle, clamped to [-1, 1].
func DutyCycleFrame(device uint8, duty float64) Frame {
	duty = math.Max(-1, math.Min(1, duty))
	data := make([]byte, 2)
	binary.LittleEndian.PutUint16(data, uint16(int16(math.Round(duty*dutyScale))))
	return Frame{ID: FrameID(APIDutyCycle, device), Data: data}
}

// PositionFrame encodes a position setpoint in ticks.
func PositionFrame(device uint8, ticks float64) Frame {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, math.Float32bits(float32(ticks)))
	return Frame{ID: FrameID(APIPosition, device), Data: data}
}

// SetSensorFrame encodes a sensor position overwrite.
func SetSensorFrame(device uint8, ticks int64) Frame {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(int32(ticks)))
	return Frame{ID: FrameID(APISetSensor, device), Data: data}
}

// StopFrame encodes a stop request.
func StopFrame(device uint8) Frame {
	return Frame{ID: FrameID(APIStop, device)}
}

// Status is the periodic report of a device.
type Status struct {
	Device   uint8
	Position int64
	Velocity int16
	// Analog is the absolute sensor reading, valid if HasAnalog.
	Analog    uint16
	HasAnalog bool
}

// StatusFrame encodes a status report.
func StatusFrame(st Status) Frame {
	size := 6
	if st.HasAnalog {
		size = 8
	}
	data := make([]byte, size)
	binary.LittleEndian.PutUint32(data, uint32(int32(st.Position)))
	binary.LittleEndian.PutUint16(data[4:], uint16(st.Velocity))
	if st.HasAnalog {
		binary.LittleEndian.PutUint16(data[6:], st.Analog)
	}
	return Frame{ID: FrameID(APIStatus, st.Device), Data: data}
}

// DecodeStatus decodes a status report.
func DecodeStatus(f Frame) (st Status, err error) {
	if f.API() != APIStatus || len(f.Data) < 6 {
		return st, fmt.Errorf("%w: status %s", ErrMalformedFrame, f)
	}
	st.Device = f.Device()
	st.Position = int64(int32(binary.LittleEndian.Uint32(f.Data)))
	st.Velocity = int16(binary.LittleEndian.Uint16(f.Data[4:]))
	if len(f.Data) >= 8 {
		st.Analog, st.HasAnalog = binary.LittleEndian.Uint16(f.Data[6:]), true
	}
	return
}

// DecodeDutyCycle decodes a duty cycle frame.
func DecodeDutyCycle(f Frame) (float64, error) {
	if f.API() != APIDutyCycle || len(f.Data) < 2 {
		return 0, fmt.Errorf("%w: duty cycle %s", ErrMalformedFrame, f)
	}
	return float64(int16(binary.LittleEndian.Uint16(f.Data))) / dutyScale, nil
}

// DecodePosition decodes a position setpoint frame.
func DecodePosition(f Frame) (float64, error) {
	if f.API() != APIPosition || len(f.Data) < 4 {
		return 0, fmt.Errorf("%w: position %s", ErrMalformedFrame, f)
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(f.Data))), nil
}
