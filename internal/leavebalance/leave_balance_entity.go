package leavebalance

import (
	"math"

	"go-leaveflow/internal/leavetype"
	"go-leaveflow/internal/user"
)

type LeaveBalance struct {
	ID          uint `gorm:"primaryKey"`
	EmployeeID  uint `gorm:"not null;uniqueIndex:uq_leave_balance_employee_type_year"`
	LeaveTypeID uint `gorm:"not null;uniqueIndex:uq_leave_balance_employee_type_year"`
	Year        int  `gorm:"not null;uniqueIndex:uq_leave_balance_employee_type_year"`
	TotalDays   int  `gorm:"not null;default:0"`
	UsedDays    int  `gorm:"not null;default:0"`

	Employee  *user.User           `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	LeaveType *leavetype.LeaveType `gorm:"foreignKey:LeaveTypeID;constraint:OnDelete:CASCADE"`
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

func (b LeaveBalance) Remaining() int {
	return b.TotalDays - b.UsedDays
}

// Percentage is the share of the allotment still available, rounded to a
// whole percent. A zero allotment reports 0.
func (b LeaveBalance) Percentage() int {
	if b.TotalDays <= 0 {
		return 0
	}
	return int(math.Round(float64(b.Remaining()) / float64(b.TotalDays) * 100))
}
