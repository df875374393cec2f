package rules

import (
	"errors"
	"reflect"
	"testing"

	"github.com/homectl/rulekeeper/internal/condition"
	"github.com/homectl/rulekeeper/internal/types"
)

func TestDecompile_KnownShapes(t *testing.T) {
	tests := []struct {
		name        string
		assumptions []Assumption
		want        condition.Condition
	}{
		{
			name: "turn on",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDVariableUpdate},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:zwave:zwave-32]"},
				{TermVariableName, OpEqual, "on"},
				{TermVariableValue, OpEqual, "true"},
			},
			want: condition.TurnOn{Devices: []types.DeviceRef{"local:zwave:zwave-32"}},
		},
		{
			name: "turn off",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDVariableUpdate},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:zwave:zwave-32]"},
				{TermVariableName, OpEqual, "on"},
				{TermVariableValue, OpEqual, "false"},
			},
			want: condition.TurnOff{Devices: []types.DeviceRef{"local:zwave:zwave-32"}},
		},
		{
			name: "temp above via strict greater",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDVariableUpdate},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:nest:thermo]"},
				{TermVariableName, OpEqual, "inTempF"},
				{TermVariableValue, OpGreaterThan, "80"},
			},
			want: condition.IndoorTempAbove{Devices: []types.DeviceRef{"local:nest:thermo"}, TempF: 80},
		},
		{
			name: "temp above via greater-or-equal",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDVariableUpdate},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:nest:thermo]"},
				{TermVariableName, OpEqual, "inTempF"},
				{TermVariableValue, OpGreaterThanOrEqual, "80"},
			},
			want: condition.IndoorTempAbove{Devices: []types.DeviceRef{"local:nest:thermo"}, TempF: 80},
		},
		{
			name: "temp below via strict less",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDVariableUpdate},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:nest:thermo]"},
				{TermVariableName, OpEqual, "inTempF"},
				{TermVariableValue, OpLessThan, "32.5"},
			},
			want: condition.IndoorTempBelow{Devices: []types.DeviceRef{"local:nest:thermo"}, TempF: 32.5},
		},
		{
			name: "device unavailable",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDDeviceUnavailable},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:zwave:zwave-32,local:zwave:zwave-33]"},
			},
			want: condition.DeviceUnavailable{Devices: []types.DeviceRef{"local:zwave:zwave-32", "local:zwave:zwave-33"}},
		},
		{
			name: "presence arrival",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDPresenceUpdate},
				{TermPerson, OpEqual, "local:person:jane"},
				{TermOldLocation, OpNotEqual, "local:location:home"},
				{TermNewLocation, OpEqual, "local:location:home"},
			},
			want: condition.PresenceArrival{Person: "local:person:jane", Location: "local:location:home"},
		},
		{
			name: "presence departure",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDPresenceUpdate},
				{TermPerson, OpEqual, "local:person:jane"},
				{TermOldLocation, OpEqual, "local:location:home"},
				{TermNewLocation, OpNotEqual, "local:location:home"},
			},
			want: condition.PresenceDeparture{Person: "local:person:jane", Location: "local:location:home"},
		},
		{
			name: "manual task execution",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDExecuteTask},
				{TermTaskCtx, OpEqual, "task-1"},
			},
			want: condition.ManualTaskExecution{Task: "task-1"},
		},
		{
			name: "event id not first in input",
			assumptions: []Assumption{
				{TermVariableValue, OpEqual, "true"},
				{TermVariableName, OpEqual, "on"},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:zwave:zwave-32]"},
				{TermEventID, OpEqual, types.EventIDVariableUpdate},
			},
			want: condition.TurnOn{Devices: []types.DeviceRef{"local:zwave:zwave-32"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decompile(tt.assumptions)
			if err != nil {
				t.Fatalf("Decompile() error = %v, want nil", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decompile() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecompile_Opaque(t *testing.T) {
	tests := []struct {
		name        string
		assumptions []Assumption
	}{
		{
			name: "unknown event id",
			assumptions: []Assumption{
				{TermEventID, OpEqual, "sunriseEvent"},
			},
		},
		{
			name: "non-canonical variable name",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDVariableUpdate},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:zwave:zwave-32]"},
				{TermVariableName, OpEqual, "humidity"},
				{TermVariableValue, OpGreaterThan, "60"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decompile(tt.assumptions)
			if err != nil {
				t.Fatalf("Decompile() error = %v, want nil", err)
			}
			if got != nil {
				t.Errorf("Decompile() = %#v, want nil (opaque)", got)
			}
		})
	}
}

func TestDecompile_Malformed(t *testing.T) {
	tests := []struct {
		name        string
		assumptions []Assumption
	}{
		{
			name:        "no event id assumption",
			assumptions: []Assumption{{TermVariableName, OpEqual, "on"}},
		},
		{
			name: "variable update without value",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDVariableUpdate},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:zwave:zwave-32]"},
				{TermVariableName, OpEqual, "on"},
			},
		},
		{
			name: "variable update without name",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDVariableUpdate},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:zwave:zwave-32]"},
				{TermVariableValue, OpEqual, "true"},
			},
		},
		{
			name: "on with non-boolean value",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDVariableUpdate},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:zwave:zwave-32]"},
				{TermVariableName, OpEqual, "on"},
				{TermVariableValue, OpEqual, "maybe"},
			},
		},
		{
			name: "temperature with equality op",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDVariableUpdate},
				{TermDeviceCtx, OpContainsAtLeastOne, "[local:nest:thermo]"},
				{TermVariableName, OpEqual, "inTempF"},
				{TermVariableValue, OpEqual, "80"},
			},
		},
		{
			name: "presence with mismatched locations",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDPresenceUpdate},
				{TermPerson, OpEqual, "local:person:jane"},
				{TermOldLocation, OpNotEqual, "local:location:home"},
				{TermNewLocation, OpEqual, "local:location:office"},
			},
		},
		{
			name: "unavailable without device set",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDDeviceUnavailable},
			},
		},
		{
			name: "unavailable with empty device set",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDDeviceUnavailable},
				{TermDeviceCtx, OpContainsAtLeastOne, "[]"},
			},
		},
		{
			name: "turn on with empty device set",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDVariableUpdate},
				{TermDeviceCtx, OpContainsAtLeastOne, "[]"},
				{TermVariableName, OpEqual, "on"},
				{TermVariableValue, OpEqual, "true"},
			},
		},
		{
			name: "presence with empty person",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDPresenceUpdate},
				{TermPerson, OpEqual, ""},
				{TermOldLocation, OpNotEqual, "local:location:home"},
				{TermNewLocation, OpEqual, "local:location:home"},
			},
		},
		{
			name: "presence with empty locations",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDPresenceUpdate},
				{TermPerson, OpEqual, "local:person:jane"},
				{TermOldLocation, OpNotEqual, ""},
				{TermNewLocation, OpEqual, ""},
			},
		},
		{
			name: "manual execution with empty task",
			assumptions: []Assumption{
				{TermEventID, OpEqual, types.EventIDExecuteTask},
				{TermTaskCtx, OpEqual, ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompile(tt.assumptions)
			if !errors.Is(err, types.ErrMalformedAssumptionSet) {
				t.Errorf("Decompile() error = %v, want ErrMalformedAssumptionSet", err)
			}
		})
	}
}
