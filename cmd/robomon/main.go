package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"reflect"
	"strings"

	"github.com/robotalks/swerve.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/swerve.go/pkg/l1/msgs"

	_ "github.com/robotalks/swerve.go/pkg/joystick/msgs"
)

var (
	mqttURL  = "mqtt://localhost:1883/robo/"
	topic    = "#"
	asJSON   bool
	showMeta = true
)

func init() {
	if val := os.Getenv("ROBO_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&topic, "topic", topic, "Topic pattern to monitor, e.g. swerve/+/msg.")
	flag.BoolVar(&asJSON, "json", asJSON, "Print messages as JSON.")
	flag.BoolVar(&showMeta, "meta", showMeta, "Print controller meta announcements.")
}

func format(msg msgs.SerializableMessage) string {
	if asJSON {
		if encoded, err := json.Marshal(msg.Serializable()); err == nil {
			return string(encoded)
		}
	}
	return msg.Serializable().String()
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}

	q.Sub(topic, mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/meta") {
			if showMeta {
				log.Printf("%s: %s", topic, string(payload))
			}
			return
		}
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		log.Printf("%s: #%d [%s] %s", topic, typed.Sequence,
			reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
			format(msg.(msgs.SerializableMessage)))
	}))
	<-(chan struct{})(nil)
}
