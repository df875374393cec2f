package condition

import (
	"strconv"
	"strings"

	"github.com/homectl/rulekeeper/internal/types"
)

// Describe renders the human-readable description of a bound condition by
// substituting its property values into the class description template,
// e.g. "{devices} turns on" -> "lamp-1, lamp-2 turns on".
func (r *Registry) Describe(c Condition) (string, error) {
	class, err := r.Lookup(c.ClassID())
	if err != nil {
		return "", err
	}

	desc := class.DescriptionTemplate
	for name, value := range bindings(c) {
		desc = strings.ReplaceAll(desc, "{"+name+"}", value)
	}
	return desc, nil
}

// bindings returns the display-string value of each bound property, keyed
// by property name. The switch is exhaustive over the sealed union.
func bindings(c Condition) map[string]string {
	switch v := c.(type) {
	case TurnOn:
		return map[string]string{"devices": joinDevices(v.Devices)}
	case TurnOff:
		return map[string]string{"devices": joinDevices(v.Devices)}
	case IndoorTempAbove:
		return map[string]string{
			"devices": joinDevices(v.Devices),
			"inTempF": strconv.FormatFloat(v.TempF, 'f', -1, 64),
		}
	case IndoorTempBelow:
		return map[string]string{
			"devices": joinDevices(v.Devices),
			"inTempF": strconv.FormatFloat(v.TempF, 'f', -1, 64),
		}
	case DeviceUnavailable:
		return map[string]string{"devices": joinDevices(v.Devices)}
	case PresenceArrival:
		return map[string]string{
			"person":   string(v.Person),
			"location": string(v.Location),
		}
	case PresenceDeparture:
		return map[string]string{
			"person":   string(v.Person),
			"location": string(v.Location),
		}
	case ManualTaskExecution:
		return map[string]string{"task": string(v.Task)}
	default:
		return nil
	}
}

func joinDevices(refs []types.DeviceRef) string {
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = string(ref)
	}
	return strings.Join(parts, ", ")
}
