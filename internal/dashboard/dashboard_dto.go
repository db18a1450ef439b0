package dashboard

import (
	"time"

	"go-leaveflow/internal/leave"
	"go-leaveflow/internal/leavebalance"
	"go-leaveflow/internal/user"
)

const (
	recentLeavesLimit = 10
	recentUsersLimit  = 5
)

type UserSummary struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	DateJoined string `json:"date_joined"`
}

type AdminDashboard struct {
	TotalUsers     int64                 `json:"total_users"`
	TotalEmployees int64                 `json:"total_employees"`
	TotalManagers  int64                 `json:"total_managers"`
	PendingLeaves  int64                 `json:"pending_leaves"`
	RecentLeaves   []leave.LeaveResponse `json:"recent_leaves"`
	RecentUsers    []UserSummary         `json:"recent_users"`
}

type ManagerDashboard struct {
	TeamMembers   []UserSummary         `json:"team_members"`
	PendingLeaves []leave.LeaveResponse `json:"pending_leaves"`
	TeamLeaves    []leave.LeaveResponse `json:"team_leaves"`
	PendingCount  int                   `json:"pending_count"`
	TeamCount     int                   `json:"team_count"`
}

type EmployeeDashboard struct {
	MyLeaves      []leave.LeaveResponse          `json:"my_leaves"`
	LeaveBalances []leavebalance.BalanceResponse `json:"leave_balances"`
	PendingCount  int64                          `json:"pending_count"`
	ApprovedCount int64                          `json:"approved_count"`
	TotalRequests int64                          `json:"total_requests"`
}

func toSummaries(users []user.User) []UserSummary {
	out := make([]UserSummary, len(users))
	for i, u := range users {
		out[i] = UserSummary{
			ID:         u.ID,
			Name:       u.DisplayName(),
			Email:      u.Email,
			Role:       u.Role,
			Department: u.Department,
			DateJoined: u.DateJoined.Format(time.RFC3339),
		}
	}
	return out
}
