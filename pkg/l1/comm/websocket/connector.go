package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/websocket"

	"github.com/robotalks/swerve.go/pkg/l1"
	"github.com/robotalks/swerve.go/pkg/l1/comm"
)

// DefaultOrigin is the origin sent in the handshake.
const DefaultOrigin = "http://localhost/"

// Connector implements l1.Connector by dialing a websocket Registrar.
type Connector struct {
	URL    *url.URL
	Origin string
	Client *http.Client
}

// NewConnector creates a Connector with the URL of a Registrar.
func NewConnector(serverURL string) (*Connector, error) {
	u, err := parseURL(serverURL)
	if err != nil {
		return nil, err
	}
	return &Connector{URL: u, Origin: DefaultOrigin, Client: http.DefaultClient}, nil
}

// MetaURL is the http URL serving ControllerInfo.
func (c *Connector) MetaURL() string {
	u := *c.URL
	u.Scheme = strings.Replace(u.Scheme, "ws", "http", 1)
	u.Path = strings.TrimSuffix(u.Path, "/") + MetaSuffix
	return u.String()
}

// Info fetches ControllerInfo from the Registrar.
func (c *Connector) Info(ctx context.Context) (*l1.ControllerInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.MetaURL(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch controller info")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch controller info: %s", resp.Status)
	}
	var info l1.ControllerInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.Wrap(err, "decode controller info")
	}
	return &info, nil
}

// Discover implements Connector.
func (c *Connector) Discover(ctx context.Context) ([]l1.ControllerInfo, error) {
	info, err := c.Info(ctx)
	if err != nil {
		return nil, err
	}
	return []l1.ControllerInfo{*info}, nil
}

// Connect implements Connector.
func (c *Connector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	info, err := c.Info(ctx)
	if err != nil {
		return nil, err
	}
	if info.Ref != ref {
		return nil, fmt.Errorf("%s is served at %s, not %s", info.Ref.Name(), c.URL, ref.Name())
	}
	ws, err := websocket.Dial(c.URL.String(), "", c.Origin)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", c.URL)
	}
	conn := &ControllerConn{Conn: ws}
	conn.Init(New(ws))
	return conn, nil
}

// ControllerConn implements ControllerConn using a websocket.
// Close closes the websocket.
type ControllerConn struct {
	comm.ControllerConn
	Conn *websocket.Conn
}
