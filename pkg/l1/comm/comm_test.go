package comm

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/l1"
	"github.com/robotalks/swerve.go/pkg/l1/msgs"
)

type chanReadWriter struct {
	in     <-chan []byte
	out    chan<- []byte
	closed chan struct{}
}

func packetPair() (*chanReadWriter, *chanReadWriter) {
	a, b := make(chan []byte, 16), make(chan []byte, 16)
	return &chanReadWriter{in: a, out: b, closed: make(chan struct{})},
		&chanReadWriter{in: b, out: a, closed: make(chan struct{})}
}

func (c *chanReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-c.in:
		return pkt, nil
	case <-c.closed:
		return nil, io.EOF
	}
}

func (c *chanReadWriter) WritePacket(pkt []byte) error {
	c.out <- pkt
	return nil
}

func (c *chanReadWriter) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

type unknownCommand struct {
	msgs.SwerveStop
}

func (m *unknownCommand) TypeID() uint32 { return msgs.GroupCustom | 0x7f }

func stopHandler(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		if cmdMsg, ok := mctx.CurrentMessage().(*l1.CommandMsg); ok {
			if _, ok := cmdMsg.Command.Msg().(*msgs.SwerveStop); ok {
				mctx.MessageTaken()
				cmdMsg.Command.Done(msgs.NewCommandOK())
			}
		}
	}))
	return nil
}

func TestRegistrarControllerConn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctlSide, connSide := packetPair()
	var reg Registrar
	reg.Init(ctlSide)
	ctlLoop := fx.NewLoop()
	ctlLoop.Interval = 10 * time.Millisecond
	ctlLoop.Add(&reg, &UnsupportedCommands{})
	ctlLoop.AddController(fx.PrLvControl, fx.ControlFunc(stopHandler))

	var conn ControllerConn
	conn.Init(connSide)
	events := make(chan fx.Message, 4)
	connLoop := fx.NewLoop()
	connLoop.Interval = 10 * time.Millisecond
	connLoop.Add(&conn)
	connLoop.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
			if msg, ok := mctx.CurrentMessage().(*msgs.SwerveStatus); ok {
				mctx.MessageTaken()
				events <- msg
			}
		}))
		return nil
	}))

	go ctlLoop.Run(ctx)
	go connLoop.Run(ctx)

	t.Run("handled", func(t *testing.T) {
		msg, err := l1.Wait(ctx, conn.DoCommand(&msgs.SwerveStop{}))
		require.NoError(t, err)
		require.IsType(t, &msgs.CommandOK{}, msg)
	})

	t.Run("unsupported", func(t *testing.T) {
		msg, err := l1.Wait(ctx, conn.DoCommand(&msgs.SwerveZero{Wheel: 1}))
		require.EqualError(t, err, msgs.ErrUnsupportedCommand.Error())
		require.IsType(t, &msgs.CommandErr{}, msg)
	})

	t.Run("undecodable", func(t *testing.T) {
		_, err := l1.Wait(ctx, conn.DoCommand(&unknownCommand{}))
		require.Error(t, err)
		require.Contains(t, err.Error(), "unknown")
	})

	t.Run("event", func(t *testing.T) {
		require.NoError(t, reg.SendEvent(ctx, &msgs.SwerveStatus{Mode: "field"}))
		select {
		case msg := <-events:
			require.Equal(t, "field", msg.(*msgs.SwerveStatus).Mode)
		case <-time.After(time.Second):
			t.Fatal("event not received")
		}
	})
}

func TestPipeKinds(t *testing.T) {
	a, _ := packetPair()
	p := NewPipe(a)
	require.ErrorIs(t, p.SendEventMsg(&msgs.SwerveStop{}), ErrNotEvent)
	require.ErrorIs(t, p.SendCommandMsg(&msgs.SwerveStatus{}, 1), ErrNotCommand)
	require.NoError(t, p.SendCommandMsg(&msgs.SwerveStop{}, 1))
	require.NoError(t, p.Close())
}

func TestCommandExpiration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, connSide := packetPair()
	var conn ControllerConn
	conn.Init(connSide)
	conn.Expiration = 20 * time.Millisecond
	loop := fx.NewLoop()
	loop.Interval = 10 * time.Millisecond
	loop.Add(&conn)
	go loop.Run(ctx)

	_, err := l1.Wait(ctx, conn.DoCommand(&msgs.SwerveStop{}))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestControllerConnClose(t *testing.T) {
	_, connSide := packetPair()
	var conn ControllerConn
	conn.Init(connSide)
	f := conn.DoCommand(&msgs.SwerveStop{})
	require.NoError(t, conn.Close())

	_, err := l1.Wait(context.Background(), f)
	require.ErrorIs(t, err, ErrConnClosed)
	_, err = connSide.ReadPacket()
	require.Equal(t, io.EOF, err)
}
