package constants

// Expected handling time per submission kind, in minutes. Fixed policy
// values agreed with operations, not derived from logged hours.
const (
	ExpectedMinutesNewTask = 10.0
	ExpectedMinutesRework  = 4.0
)

// DeliveredStatus is the delivery-status sentinel marking a task as
// shipped to the client. Matched case-insensitively.
const DeliveredStatus = "delivered"

// DateLayout is the wire format for date-range query parameters and
// time-log days.
const DateLayout = "2006-01-02"

// TrainerStatus classifies a trainer node in the result tree
type TrainerStatus string

const (
	TrainerStatusActive       TrainerStatus = "active"
	TrainerStatusInactive     TrainerStatus = "inactive"
	TrainerStatusUnmapped     TrainerStatus = "unmapped"      // authored completions, no mapping row
	TrainerStatusDeliveryOnly TrainerStatus = "delivery-only" // appears only as reviewer/deliverer
)

func (s TrainerStatus) String() string {
	return string(s)
}
