package msgs

import (
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
)

func TestTypedKinds(t *testing.T) {
	cases := []struct {
		msg   SerializableMessage
		event bool
		reply bool
	}{
		{&CommandOK{}, false, true},
		{&CommandErr{}, false, true},
		{&SwerveDrive{}, false, false},
		{&SwerveMode{}, false, false},
		{&SwerveStop{}, false, false},
		{&SwerveZero{}, false, false},
		{&SwerveStatusQuery{}, false, false},
		{&SwerveStatusReply{}, false, true},
		{&SwerveStatus{}, true, false},
	}
	for _, c := range cases {
		typed, err := TypedFrom(c.msg)
		require.NoError(t, err)
		require.Equal(t, c.event, typed.IsEvent(), "%T", c.msg)
		require.Equal(t, !c.event, typed.IsCommand(), "%T", c.msg)
		require.Equal(t, c.reply, typed.TypeId&TypeIDMaskReply != 0, "%T", c.msg)
		require.Equal(t, c.msg, MessageTypes[c.msg.TypeID()].NewMessage(), "%T", c.msg)
	}
}

func TestTypedEncodeDecode(t *testing.T) {
	typed, err := TypedFrom(NewSwerveDrive(kinematics.ChassisCommand{Forward: 0.5, Strafe: -0.25}.WithHeading(90)))
	require.NoError(t, err)
	typed.Sequence = 12
	data, err := typed.Encode()
	require.NoError(t, err)

	decoded, err := DecodeTyped(data)
	require.NoError(t, err)
	require.Equal(t, SwerveDriveTypeID, decoded.TypeId)
	require.EqualValues(t, 12, decoded.Sequence)
	msg, err := decoded.Decode()
	require.NoError(t, err)
	drive, ok := msg.(*SwerveDrive)
	require.True(t, ok)
	cmd := drive.ChassisCommand()
	require.Equal(t, 0.5, cmd.Forward)
	require.Equal(t, -0.25, cmd.Strafe)
	require.NotNil(t, cmd.Heading)
	require.Equal(t, 90.0, *cmd.Heading)
}

func TestSwerveStatusEncoding(t *testing.T) {
	status := &SwerveStatus{
		Mode:   "field",
		Moving: true,
		Wheels: []*SwerveWheel{
			{Name: "front-right", Angle: 0.125, Speed: 1, Target: 0.625, DriveSign: -1, Position: 0.5},
			{Name: "front-left", Angle: -0.25, Speed: 0.5, Target: -0.25, DriveSign: 1},
		},
	}
	typed, err := TypedFrom(&SwerveStatusReply{Status: status})
	require.NoError(t, err)
	msg, err := typed.Decode()
	require.NoError(t, err)
	reply := msg.(*SwerveStatusReply)
	require.True(t, proto.Equal(status, reply.Status), "%v", reply.Status)
}

func TestSwerveDriveWithoutHeading(t *testing.T) {
	m := NewSwerveDrive(kinematics.ChassisCommand{Rotation: 1})
	require.False(t, m.HasHeading)
	require.Nil(t, m.ChassisCommand().Heading)
	require.Equal(t, 1.0, m.ChassisCommand().Rotation)
}

func TestDecodeUnknown(t *testing.T) {
	typed := &Typed{TypeId: GroupCustom | 0x7fff}
	_, err := typed.Decode()
	require.Error(t, err)
	_, ok := err.(*ErrUnknownType)
	require.True(t, ok)

	_, err = TypedFrom(&notSerializable{})
	require.Equal(t, ErrNotSerializable, err)

	_, err = DecodeTyped([]byte{0xff})
	require.Error(t, err)
}

type notSerializable struct{}

func (m *notSerializable) NewMessage() fx.Message { return &notSerializable{} }

func TestCommandErr(t *testing.T) {
	err := NewCommandErr(kinematics.ErrMissingHeadingReference)
	require.Equal(t, kinematics.ErrMissingHeadingReference.Error(), err.Error())
}
