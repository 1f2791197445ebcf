package connector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/swerve.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/swerve.go/pkg/l1/comm/serial"
	"github.com/robotalks/swerve.go/pkg/l1/comm/websocket"
)

func TestNewConnector(t *testing.T) {
	cases := []struct {
		url  string
		kind interface{}
	}{
		{"mqtt://localhost:1883/robo/", &mqtt.Connector{}},
		{"ws://localhost:8080/swerve", &websocket.Connector{}},
		{"serial:///dev/ttyUSB0?type=swerve&id=bot1", &serial.Connector{}},
	}
	for _, c := range cases {
		t.Run(c.url, func(t *testing.T) {
			conf := NewConfig()
			conf.RegistryURL = c.url
			connector, err := conf.NewConnector()
			require.NoError(t, err)
			require.IsType(t, c.kind, connector)
		})
	}

	conf := NewConfig()
	conf.RegistryURL = "gopher://localhost"
	_, err := conf.NewConnector()
	require.Error(t, err)

	conf.Ref.Type = "swerve"
	_, err = conf.Connect()
	require.Error(t, err)
}
