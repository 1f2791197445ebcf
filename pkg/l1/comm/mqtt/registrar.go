package mqtt

import (
	"context"
	"encoding/json"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/l1"
	"github.com/robotalks/swerve.go/pkg/l1/comm"
)

// ClientIDPrefix prefixes the MQTT client ID of a registered controller.
const ClientIDPrefix = "swerve:"

// Registrar implements l1.Registrar using MQTT.
// The controller is announced by a retained message on <type>/<id>/meta
// which is cleared by the will message or on shutdown.
type Registrar struct {
	Queue *Queue
	Info  l1.ControllerInfo

	metaJSON  string
	registrar comm.Registrar
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info l1.ControllerInfo) (*Registrar, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, errors.Wrap(err, "encode meta")
	}
	opts, err := ParseURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.Client.SetBinaryWill(opts.TopicPrefix+info.Ref.Name()+"/meta", nil, 1, true)
	if opts.Client.ClientID == "" {
		opts.Client.SetClientID(ClientIDPrefix + info.Ref.Name())
	}
	r := &Registrar{
		Queue:    NewQueue(opts),
		Info:     info,
		metaJSON: string(meta),
	}
	r.Queue.OnConnect = func(*Queue) { r.onConnected() }
	r.registrar.Init(NewPacketReadWriter(r.Queue).ForController(info.Ref))
	return r, nil
}

// SendEvent implements Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.registrar.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.registrar)
	loop.AddRunnable(r)
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	r.Queue.Connect()
	<-ctx.Done()
	r.Queue.PubWith(r.Info.Ref.Name()+"/meta", nil, 1, true)
	r.Queue.Close()
	return nil
}

func (r *Registrar) onConnected() {
	glog.Infof("registered %s", r.Info.Ref.Name())
	r.Queue.PubWith(r.Info.Ref.Name()+"/meta", []byte(r.metaJSON), 1, true)
}
