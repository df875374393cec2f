package rules

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/homectl/rulekeeper/internal/condition"
	"github.com/homectl/rulekeeper/internal/types"
)

func genDeviceRefs() gopter.Gen {
	return gen.SliceOfN(3, gen.OneConstOf(
		types.DeviceRef("local:zwave:zwave-32"),
		types.DeviceRef("local:zwave:zwave-33"),
		types.DeviceRef("local:nest:thermo"),
		types.DeviceRef("local:hue:bulb-1"),
	)).SuchThat(func(refs []types.DeviceRef) bool {
		seen := make(map[types.DeviceRef]bool, len(refs))
		for _, r := range refs {
			if seen[r] {
				return false
			}
			seen[r] = true
		}
		return len(refs) > 0
	})
}

// Property-based test: decompile inverts compile for every condition class
func TestRoundTrip_PropertyCompileDecompile(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("turn on/off round-trips", prop.ForAll(
		func(refs []types.DeviceRef, on bool) bool {
			var cond condition.Condition
			if on {
				cond = condition.TurnOn{Devices: refs}
			} else {
				cond = condition.TurnOff{Devices: refs}
			}
			return roundTrips(cond)
		},
		genDeviceRefs(),
		gen.Bool(),
	))

	properties.Property("temperature thresholds round-trip", prop.ForAll(
		func(refs []types.DeviceRef, tempF float64, above bool) bool {
			var cond condition.Condition
			if above {
				cond = condition.IndoorTempAbove{Devices: refs, TempF: tempF}
			} else {
				cond = condition.IndoorTempBelow{Devices: refs, TempF: tempF}
			}
			return roundTrips(cond)
		},
		genDeviceRefs(),
		gen.Float64Range(-40, 120),
		gen.Bool(),
	))

	properties.Property("device unavailable round-trips", prop.ForAll(
		func(refs []types.DeviceRef) bool {
			return roundTrips(condition.DeviceUnavailable{Devices: refs})
		},
		genDeviceRefs(),
	))

	properties.Property("presence round-trips", prop.ForAll(
		func(person string, location string, arrival bool) bool {
			var cond condition.Condition
			if arrival {
				cond = condition.PresenceArrival{
					Person:   types.PersonRef(person),
					Location: types.LocationRef(location),
				}
			} else {
				cond = condition.PresenceDeparture{
					Person:   types.PersonRef(person),
					Location: types.LocationRef(location),
				}
			}
			return roundTrips(cond)
		},
		gen.RegexMatch(`local:person:[a-z]{1,8}`),
		gen.RegexMatch(`local:location:[a-z]{1,8}`),
		gen.Bool(),
	))

	properties.Property("manual task execution round-trips", prop.ForAll(
		func(taskID string) bool {
			return roundTrips(condition.ManualTaskExecution{Task: types.TaskID(taskID)})
		},
		gen.RegexMatch(`[a-z0-9-]{1,16}`),
	))

	properties.TestingRun(t)
}

// Property-based test: repeated compilation is deterministic
func TestRoundTrip_PropertyCompileDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("same condition compiles to identical assumptions", prop.ForAll(
		func(refs []types.DeviceRef, tempF float64) bool {
			cond := condition.IndoorTempAbove{Devices: refs, TempF: tempF}
			first, err1 := Compile(cond)
			second, err2 := Compile(cond)
			if err1 != nil || err2 != nil {
				return false
			}
			return reflect.DeepEqual(first, second)
		},
		genDeviceRefs(),
		gen.Float64Range(-40, 120),
	))

	properties.TestingRun(t)
}

func roundTrips(cond condition.Condition) bool {
	assumptions, err := Compile(cond)
	if err != nil {
		return false
	}
	back, err := Decompile(assumptions)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(back, cond)
}
