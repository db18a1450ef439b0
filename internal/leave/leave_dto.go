package leave

import (
	"time"

	"go-leaveflow/internal/domain"
)

type SubmitLeaveRequest struct {
	LeaveTypeID uint   `json:"leave_type_id" form:"leave_type" binding:"required"`
	StartDate   string `json:"start_date" form:"start_date" binding:"required"`
	EndDate     string `json:"end_date" form:"end_date" binding:"required"`
	TotalDays   int    `json:"total_days" form:"total_days"`
	Reason      string `json:"reason" form:"reason"`
	ManagerID   uint   `json:"manager_id" form:"manager"`
}

type DecideLeaveRequest struct {
	Action string `json:"action" form:"action" binding:"required"`
}

// Actor is the authenticated caller as seen by the workflow.
type Actor struct {
	ID   uint
	Role domain.Role
}

type LeaveResponse struct {
	ID            uint    `json:"id"`
	EmployeeID    uint    `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	LeaveTypeID   uint    `json:"leave_type_id"`
	LeaveTypeName string  `json:"leave_type_name"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	TotalDays     int     `json:"total_days"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	ApprovedBy    *uint   `json:"approved_by,omitempty"`
	ApproverName  *string `json:"approver_name,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type DecisionResponse struct {
	Leave LeaveResponse `json:"leave"`
	// BalanceApplied is false when an approval found no balance row to
	// charge. Always false for rejections.
	BalanceApplied bool `json:"balance_applied"`
}

type Option struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type FormOptionsResponse struct {
	LeaveTypes []Option `json:"leave_types"`
	Managers   []Option `json:"managers"`
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:          l.ID,
		EmployeeID:  l.EmployeeID,
		LeaveTypeID: l.LeaveTypeID,
		StartDate:   l.StartDate.Format(dateLayout),
		EndDate:     l.EndDate.Format(dateLayout),
		TotalDays:   l.TotalDays,
		Reason:      l.Reason,
		Status:      l.Status,
		ApprovedBy:  l.ApprovedBy,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   l.UpdatedAt.Format(time.RFC3339),
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.DisplayName()
	}
	if l.LeaveType != nil {
		resp.LeaveTypeName = l.LeaveType.Name
	}
	if l.Approver != nil {
		name := l.Approver.DisplayName()
		resp.ApproverName = &name
	}
	return resp
}

// ToResponses maps loaded requests (with associations preloaded) to responses.
func ToResponses(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
