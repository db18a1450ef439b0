package events

import "time"

const LeaveLifecycleTopic = "leaveflow.leave.lifecycle.v1"

const (
	EventTypeLeaveSubmitted = "leave.submitted"
	EventTypeLeaveApproved  = "leave.approved"
	EventTypeLeaveRejected  = "leave.rejected"
	EventTypeLeaveCancelled = "leave.cancelled"
)

// LeaveEvent describes one leave request transition. BalanceApplied is only
// meaningful for approvals.
type LeaveEvent struct {
	EventType      string    `json:"event_type"`
	LeaveID        uint      `json:"leave_id"`
	EmployeeID     uint      `json:"employee_id"`
	LeaveTypeID    uint      `json:"leave_type_id"`
	ActorID        uint      `json:"actor_id"`
	Status         string    `json:"status"`
	TotalDays      int       `json:"total_days"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	BalanceApplied *bool     `json:"balance_applied,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
