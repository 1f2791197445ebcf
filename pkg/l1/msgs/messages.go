package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandOK) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandOK) Reset() { *m = CommandOK{} }

// String implements proto.Message.
func (m *CommandOK) String() string { return proto.CompactTextString(m) }

// CommandErr is the generic message representing command error.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{Message: message}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandErr) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// SwerveDrive sets the chassis command. It's held by the controller until
// replaced, stopped or expired.
type SwerveDrive struct {
	Forward  float64 `protobuf:"fixed64,1,opt,name=forward,proto3" json:"forward,omitempty"`
	Strafe   float64 `protobuf:"fixed64,2,opt,name=strafe,proto3" json:"strafe,omitempty"`
	Rotation float64 `protobuf:"fixed64,3,opt,name=rotation,proto3" json:"rotation,omitempty"`
	// Heading in degrees, valid when HasHeading is set.
	Heading    float64 `protobuf:"fixed64,4,opt,name=heading,proto3" json:"heading,omitempty"`
	HasHeading bool    `protobuf:"varint,5,opt,name=has_heading,json=hasHeading,proto3" json:"has_heading,omitempty"`
}

// NewSwerveDrive creates SwerveDrive from a chassis command.
func NewSwerveDrive(cmd kinematics.ChassisCommand) *SwerveDrive {
	m := &SwerveDrive{Forward: cmd.Forward, Strafe: cmd.Strafe, Rotation: cmd.Rotation}
	if cmd.Heading != nil {
		m.Heading, m.HasHeading = *cmd.Heading, true
	}
	return m
}

// ChassisCommand converts the message into a chassis command.
func (m *SwerveDrive) ChassisCommand() kinematics.ChassisCommand {
	cmd := kinematics.ChassisCommand{Forward: m.Forward, Strafe: m.Strafe, Rotation: m.Rotation}
	if m.HasHeading {
		cmd = cmd.WithHeading(m.Heading)
	}
	return cmd
}

// NewMessage implements Message.
func (m *SwerveDrive) NewMessage() fx.Message { return &SwerveDrive{} }

// TypeID implements SerializableMessage.
func (m *SwerveDrive) TypeID() uint32 { return SwerveDriveTypeID }

// Serializable implements SerializableMessage.
func (m *SwerveDrive) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SwerveDrive) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SwerveDrive) Reset() { *m = SwerveDrive{} }

// String implements proto.Message.
func (m *SwerveDrive) String() string { return proto.CompactTextString(m) }

// SwerveMode switches the reference mode: robot or field.
type SwerveMode struct {
	Mode string `protobuf:"bytes,1,opt,name=mode,proto3" json:"mode,omitempty"`
}

// NewMessage implements Message.
func (m *SwerveMode) NewMessage() fx.Message { return &SwerveMode{} }

// TypeID implements SerializableMessage.
func (m *SwerveMode) TypeID() uint32 { return SwerveModeTypeID }

// Serializable implements SerializableMessage.
func (m *SwerveMode) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SwerveMode) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SwerveMode) Reset() { *m = SwerveMode{} }

// String implements proto.Message.
func (m *SwerveMode) String() string { return proto.CompactTextString(m) }

// SwerveStop stops all wheels and clears the held command.
type SwerveStop struct {
}

// NewMessage implements Message.
func (m *SwerveStop) NewMessage() fx.Message { return &SwerveStop{} }

// TypeID implements SerializableMessage.
func (m *SwerveStop) TypeID() uint32 { return SwerveStopTypeID }

// Serializable implements SerializableMessage.
func (m *SwerveStop) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SwerveStop) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SwerveStop) Reset() { *m = SwerveStop{} }

// String implements proto.Message.
func (m *SwerveStop) String() string { return proto.CompactTextString(m) }

// SwerveZero re-zeroes steering sensors.
type SwerveZero struct {
	// Wheel is the kinematics.WheelIndex, or SwerveZeroAllWheels.
	Wheel int32 `protobuf:"varint,1,opt,name=wheel,proto3" json:"wheel,omitempty"`
	Ticks int64 `protobuf:"varint,2,opt,name=ticks,proto3" json:"ticks,omitempty"`
}

// SwerveZeroAllWheels selects all wheels in SwerveZero.
const SwerveZeroAllWheels = -1

// NewMessage implements Message.
func (m *SwerveZero) NewMessage() fx.Message { return &SwerveZero{} }

// TypeID implements SerializableMessage.
func (m *SwerveZero) TypeID() uint32 { return SwerveZeroTypeID }

// Serializable implements SerializableMessage.
func (m *SwerveZero) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SwerveZero) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SwerveZero) Reset() { *m = SwerveZero{} }

// String implements proto.Message.
func (m *SwerveZero) String() string { return proto.CompactTextString(m) }

// SwerveStatusQuery queries the drive status.
type SwerveStatusQuery struct {
}

// NewMessage implements Message.
func (m *SwerveStatusQuery) NewMessage() fx.Message { return &SwerveStatusQuery{} }

// TypeID implements SerializableMessage.
func (m *SwerveStatusQuery) TypeID() uint32 { return SwerveStatusQueryTypeID }

// Serializable implements SerializableMessage.
func (m *SwerveStatusQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SwerveStatusQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SwerveStatusQuery) Reset() { *m = SwerveStatusQuery{} }

// String implements proto.Message.
func (m *SwerveStatusQuery) String() string { return proto.CompactTextString(m) }

// SwerveStatusReply is the response for SwerveStatusQuery.
type SwerveStatusReply struct {
	Status *SwerveStatus `protobuf:"bytes,1,opt,name=status,proto3" json:"status,omitempty"`
}

// NewMessage implements Message.
func (m *SwerveStatusReply) NewMessage() fx.Message { return &SwerveStatusReply{} }

// TypeID implements SerializableMessage.
func (m *SwerveStatusReply) TypeID() uint32 { return SwerveStatusReplyTypeID }

// Serializable implements SerializableMessage.
func (m *SwerveStatusReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SwerveStatusReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SwerveStatusReply) Reset() { *m = SwerveStatusReply{} }

// String implements proto.Message.
func (m *SwerveStatusReply) String() string { return proto.CompactTextString(m) }

// SwerveStatus is an Event message reflecting the drive state.
type SwerveStatus struct {
	Mode   string         `protobuf:"bytes,1,opt,name=mode,proto3" json:"mode,omitempty"`
	Wheels []*SwerveWheel `protobuf:"bytes,2,rep,name=wheels,proto3" json:"wheels,omitempty"`
	// Moving is false when stopped or the command expired.
	Moving bool `protobuf:"varint,3,opt,name=moving,proto3" json:"moving,omitempty"`
}

// NewMessage implements Message.
func (m *SwerveStatus) NewMessage() fx.Message { return &SwerveStatus{} }

// TypeID implements SerializableMessage.
func (m *SwerveStatus) TypeID() uint32 { return SwerveStatusEventTypeID }

// Serializable implements SerializableMessage.
func (m *SwerveStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SwerveStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SwerveStatus) Reset() { *m = SwerveStatus{} }

// String implements proto.Message.
func (m *SwerveStatus) String() string { return proto.CompactTextString(m) }

// SwerveWheel is the state of one enclosure. Angles are in turns.
type SwerveWheel struct {
	Name      string  `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Angle     float64 `protobuf:"fixed64,2,opt,name=angle,proto3" json:"angle,omitempty"`
	Speed     float64 `protobuf:"fixed64,3,opt,name=speed,proto3" json:"speed,omitempty"`
	Target    float64 `protobuf:"fixed64,4,opt,name=target,proto3" json:"target,omitempty"`
	DriveSign float64 `protobuf:"fixed64,5,opt,name=drive_sign,json=driveSign,proto3" json:"drive_sign,omitempty"`
	Position  float64 `protobuf:"fixed64,6,opt,name=position,proto3" json:"position,omitempty"`
}

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupSwerve  uint32 = 0x00030000
	GroupCustom  uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	CommandOKTypeID         uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID        uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	SwerveDriveTypeID       uint32 = GroupSwerve | 0x0000
	SwerveModeTypeID        uint32 = GroupSwerve | 0x0001
	SwerveStopTypeID        uint32 = GroupSwerve | 0x0002
	SwerveZeroTypeID        uint32 = GroupSwerve | 0x0003
	SwerveStatusQueryTypeID uint32 = GroupSwerve | 0x0004
	SwerveStatusReplyTypeID uint32 = SwerveStatusQueryTypeID | TypeIDMaskReply
	SwerveStatusEventTypeID uint32 = GroupSwerve | TypeIDKindEvent | 0x0000
)
