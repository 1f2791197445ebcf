package websocket

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/l1"
	"github.com/robotalks/swerve.go/pkg/l1/comm"
	"github.com/robotalks/swerve.go/pkg/l1/msgs"
)

func TestParseURL(t *testing.T) {
	u, err := parseURL("ws://:8080/swerve/")
	require.NoError(t, err)
	require.Equal(t, "/swerve", u.Path)
	_, err = parseURL("http://localhost/")
	require.Error(t, err)

	c, err := NewConnector("wss://robot.local/swerve")
	require.NoError(t, err)
	require.Equal(t, "https://robot.local/swerve/meta", c.MetaURL())
}

func TestRegistrarConnector(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	info := l1.ControllerInfo{
		Ref:  l1.ControllerRef{Type: "swerve", ID: "bot1"},
		Meta: l1.ControllerMeta{Description: "test bot"},
	}
	reg, err := NewRegistrar("ws://127.0.0.1:0/swerve", info)
	require.NoError(t, err)
	addr, err := reg.Listen()
	require.NoError(t, err)

	ctlLoop := fx.NewLoop()
	ctlLoop.Interval = 10 * time.Millisecond
	ctlLoop.Add(reg, &comm.UnsupportedCommands{})
	go ctlLoop.Run(ctx)

	c, err := NewConnector(fmt.Sprintf("ws://%s/swerve", addr))
	require.NoError(t, err)
	infos, err := c.Discover(ctx)
	require.NoError(t, err)
	require.Equal(t, []l1.ControllerInfo{info}, infos)

	_, err = c.Connect(ctx, l1.ControllerRef{Type: "swerve", ID: "other"})
	require.Error(t, err)

	conn, err := c.Connect(ctx, info.Ref)
	require.NoError(t, err)
	defer conn.(*ControllerConn).Close()

	events := make(chan *msgs.SwerveStatus, 1)
	connLoop := fx.NewLoop()
	connLoop.Interval = 10 * time.Millisecond
	connLoop.Add(conn.(fx.LoopAdder))
	connLoop.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
			if msg, ok := mctx.CurrentMessage().(*msgs.SwerveStatus); ok {
				mctx.MessageTaken()
				events <- msg
			}
		}))
		return nil
	}))
	go connLoop.Run(ctx)

	_, err = l1.Wait(ctx, conn.DoCommand(&msgs.SwerveStop{}))
	require.EqualError(t, err, msgs.ErrUnsupportedCommand.Error())

	require.NoError(t, reg.SendEvent(ctx, &msgs.SwerveStatus{Mode: "robot", Moving: true}))
	select {
	case msg := <-events:
		require.True(t, msg.Moving)
	case <-time.After(time.Second):
		t.Fatal("event not received")
	}
}
