package types

import (
	"github.com/google/uuid"
)

// NewTaskID generates a UUIDv7 task identifier. Time-ordered ids keep
// task documents diffable in creation order.
func NewTaskID() TaskID {
	return TaskID(uuid.Must(uuid.NewV7()).String())
}

// ParseTaskID validates and converts a string to TaskID.
func ParseTaskID(s string) (TaskID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return TaskID(s), nil
}
