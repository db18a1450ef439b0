package leavetype

type LeaveType struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(100);not null;index:idx_leave_types_name"`
	Description string `gorm:"type:text"`
	DefaultDays int    `gorm:"not null;default:0"`
}

func (LeaveType) TableName() string {
	return "leave_types"
}

// Defaults is the catalog seeded on a fresh install.
var Defaults = []LeaveType{
	{Name: "Casual Leave", Description: "Short personal leave", DefaultDays: 12},
	{Name: "Sick Leave", Description: "Illness or medical appointments", DefaultDays: 10},
	{Name: "Earned Leave", Description: "Accrued annual leave", DefaultDays: 15},
	{Name: "Emergency Leave", Description: "Unplanned urgent matters", DefaultDays: 5},
}
