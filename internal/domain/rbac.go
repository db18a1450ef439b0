package domain

// EnforceRequest asks whether a role holds a capability.
type EnforceRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

// Capability is a resource/action pair granted to a role.
type Capability struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// Capability resources and actions.
const (
	ResourceDashboard = "dashboard"
	ResourceUser      = "user"
	ResourceLeave     = "leave"
	ResourceBalance   = "balance"
	ResourceChat      = "chat"
	ResourceProfile   = "profile"

	ActionAdmin     = "admin"
	ActionManager   = "manager"
	ActionEmployee  = "employee"
	ActionRead      = "read"
	ActionDelete    = "delete"
	ActionReadAll   = "read_all"
	ActionReadTeam  = "read_team"
	ActionDecide    = "decide"
	ActionHistory   = "history"
	ActionRequest   = "request"
	ActionReadOwn   = "read_own"
	ActionUse       = "use"
	ActionCancelOwn = "cancel_own"
	ActionUpdate    = "update"
)
