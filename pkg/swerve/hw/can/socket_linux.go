package can

import (
	"github.com/go-daq/canbus"
	pkgerrors "github.com/pkg/errors"
)

type socketCAN struct {
	sock *canbus.Socket
}

// Open binds a SocketCAN interface, e.g. can0.
func Open(ifname string) (Socket, error) {
	sock, err := canbus.New()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create can socket")
	}
	if err = sock.Bind(ifname); err != nil {
		sock.Close()
		return nil, pkgerrors.Wrapf(err, "bind %s", ifname)
	}
	return &socketCAN{sock: sock}, nil
}

func (s *socketCAN) Send(f Frame) error {
	_, err := s.sock.Send(canbus.Frame{ID: f.ID, Data: f.Data, Kind: canbus.EFF})
	return err
}

func (s *socketCAN) Recv() (Frame, error) {
	for {
		f, err := s.sock.Recv()
		if err != nil {
			return Frame{}, err
		}
		if f.Kind == canbus.EFF {
			return Frame{ID: f.ID, Data: f.Data}, nil
		}
	}
}

func (s *socketCAN) Close() error {
	return s.sock.Close()
}
