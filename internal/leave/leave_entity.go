package leave

import (
	"time"

	"go-leaveflow/internal/leavetype"
	"go-leaveflow/internal/user"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type LeaveRequest struct {
	ID          uint      `gorm:"primaryKey"`
	EmployeeID  uint      `gorm:"not null;index:idx_leave_requests_employee_status"`
	LeaveTypeID uint      `gorm:"not null"`
	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	TotalDays   int       `gorm:"not null"`
	Reason      string    `gorm:"type:text"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_employee_status"`
	ApprovedBy  *uint

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Employee  *user.User           `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	LeaveType *leavetype.LeaveType `gorm:"foreignKey:LeaveTypeID;constraint:OnDelete:CASCADE"`
	Approver  *user.User           `gorm:"foreignKey:ApprovedBy;constraint:OnDelete:SET NULL"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
