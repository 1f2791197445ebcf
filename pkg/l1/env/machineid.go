package env

import (
	"sync"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
	"github.com/google/uuid"
)

// AppID scopes the machine ID so it doesn't expose the raw system ID.
const AppID = "swerve.go"

var (
	machineIDOnce sync.Once
	machineIDVal  string
)

// MachineID retrieves the unique ID identifying the machine.
// When the system doesn't provide one (e.g. minimal containers),
// a random UUID is used for the lifetime of the process.
func MachineID() string {
	machineIDOnce.Do(func() {
		machineIDVal = machineIDFrom(func() (string, error) {
			return machineid.ProtectedID(AppID)
		}, uuid.NewString)
	})
	return machineIDVal
}

func machineIDFrom(lookup func() (string, error), fallback func() string) string {
	id, err := lookup()
	if err == nil && id != "" {
		return id
	}
	id = fallback()
	glog.Warningf("machine id unavailable (%v), using %s", err, id)
	return id
}
