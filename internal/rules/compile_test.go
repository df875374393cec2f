package rules

import (
	"errors"
	"reflect"
	"testing"

	"github.com/homectl/rulekeeper/internal/condition"
	"github.com/homectl/rulekeeper/internal/types"
)

func TestCompile_AssumptionShapes(t *testing.T) {
	devices := []types.DeviceRef{"local:zwave:zwave-32", "local:zwave:zwave-33"}

	tests := []struct {
		name string
		cond condition.Condition
		want []Assumption
	}{
		{
			name: "turn on",
			cond: condition.TurnOn{Devices: devices},
			want: []Assumption{
				{TermEventID, OpEqual, types.EventIDVariableUpdate},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:zwave:zwave-32,local:zwave:zwave-33]"},
				{TermVariableName, OpEqual, "on"},
				{TermVariableValue, OpEqual, "true"},
			},
		},
		{
			name: "turn off",
			cond: condition.TurnOff{Devices: devices},
			want: []Assumption{
				{TermEventID, OpEqual, types.EventIDVariableUpdate},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:zwave:zwave-32,local:zwave:zwave-33]"},
				{TermVariableName, OpEqual, "on"},
				{TermVariableValue, OpEqual, "false"},
			},
		},
		{
			name: "indoor temp above",
			cond: condition.IndoorTempAbove{Devices: devices, TempF: 80},
			want: []Assumption{
				{TermEventID, OpEqual, types.EventIDVariableUpdate},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:zwave:zwave-32,local:zwave:zwave-33]"},
				{TermVariableName, OpEqual, "inTempF"},
				{TermVariableValue, OpGreaterThan, "80"},
			},
		},
		{
			name: "indoor temp below",
			cond: condition.IndoorTempBelow{Devices: devices, TempF: 32.5},
			want: []Assumption{
				{TermEventID, OpEqual, types.EventIDVariableUpdate},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:zwave:zwave-32,local:zwave:zwave-33]"},
				{TermVariableName, OpEqual, "inTempF"},
				{TermVariableValue, OpLessThan, "32.5"},
			},
		},
		{
			name: "device unavailable",
			cond: condition.DeviceUnavailable{Devices: devices},
			want: []Assumption{
				{TermEventID, OpEqual, types.EventIDDeviceUnavailable},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:zwave:zwave-32,local:zwave:zwave-33]"},
			},
		},
		{
			name: "presence arrival",
			cond: condition.PresenceArrival{Person: "local:person:jane", Location: "local:location:home"},
			want: []Assumption{
				{TermEventID, OpEqual, types.EventIDPresenceUpdate},
				{TermPerson, OpEqual, "local:person:jane"},
				{TermOldLocation, OpNotEqual, "local:location:home"},
				{TermNewLocation, OpEqual, "local:location:home"},
			},
		},
		{
			name: "presence departure",
			cond: condition.PresenceDeparture{Person: "local:person:jane", Location: "local:location:home"},
			want: []Assumption{
				{TermEventID, OpEqual, types.EventIDPresenceUpdate},
				{TermPerson, OpEqual, "local:person:jane"},
				{TermOldLocation, OpEqual, "local:location:home"},
				{TermNewLocation, OpNotEqual, "local:location:home"},
			},
		},
		{
			name: "manual task execution",
			cond: condition.ManualTaskExecution{Task: "task-1"},
			want: []Assumption{
				{TermEventID, OpEqual, types.EventIDExecuteTask},
				{TermTaskCtx, OpEqual, "task-1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.cond)
			if err != nil {
				t.Fatalf("Compile() error = %v, want nil", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Compile() = %v, want %v", got, tt.want)
			}
			if got[0].LeftTerm != TermEventID {
				t.Errorf("first assumption tests %s, want %s", got[0].LeftTerm, TermEventID)
			}
		})
	}
}

func TestCompile_MissingRequiredProperty(t *testing.T) {
	tests := []struct {
		name string
		cond condition.Condition
	}{
		{"turn on without devices", condition.TurnOn{}},
		{"turn off without devices", condition.TurnOff{}},
		{"temp above without devices", condition.IndoorTempAbove{TempF: 80}},
		{"temp below without devices", condition.IndoorTempBelow{TempF: 32}},
		{"unavailable without devices", condition.DeviceUnavailable{}},
		{"arrival without person", condition.PresenceArrival{Location: "local:location:home"}},
		{"arrival without location", condition.PresenceArrival{Person: "local:person:jane"}},
		{"departure without person", condition.PresenceDeparture{Location: "local:location:home"}},
		{"manual execution without task", condition.ManualTaskExecution{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.cond)
			if !errors.Is(err, types.ErrMissingRequiredProperty) {
				t.Errorf("Compile() error = %v, want ErrMissingRequiredProperty", err)
			}
		})
	}
}

func TestCompile_UnrecognizedCondition(t *testing.T) {
	_, err := Compile(nil)
	if !errors.Is(err, types.ErrUnrecognizedCondition) {
		t.Errorf("Compile(nil) error = %v, want ErrUnrecognizedCondition", err)
	}
}

// Device sets serialize in insertion order so repeated compiles of the
// same condition produce identical output.
func TestCompile_DeviceSetOrderStable(t *testing.T) {
	cond := condition.TurnOn{Devices: []types.DeviceRef{"b", "a", "c"}}

	first, err := Compile(cond)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	second, err := Compile(cond)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Compile() differs: %v vs %v", first, second)
	}
	if first[1].RightTerm != "[b,a,c]" {
		t.Errorf("device set = %s, want insertion order [b,a,c]", first[1].RightTerm)
	}
}
