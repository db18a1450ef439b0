package leavebalance

type BalanceResponse struct {
	ID            uint   `json:"id"`
	LeaveTypeID   uint   `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name"`
	Year          int    `json:"year"`
	TotalDays     int    `json:"total_days"`
	UsedDays      int    `json:"used_days"`
	RemainingDays int    `json:"remaining_days"`
	Percentage    int    `json:"percentage"`
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	res := BalanceResponse{
		ID:            b.ID,
		LeaveTypeID:   b.LeaveTypeID,
		Year:          b.Year,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.Remaining(),
		Percentage:    b.Percentage(),
	}
	if b.LeaveType != nil {
		res.LeaveTypeName = b.LeaveType.Name
	}
	return res
}

func mapToListResponse(balances []LeaveBalance) []BalanceResponse {
	res := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		res[i] = mapToResponse(b)
	}
	return res
}
