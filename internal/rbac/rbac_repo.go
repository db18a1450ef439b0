package rbac

import (
	_ "embed"

	"github.com/casbin/casbin/v2/persist"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
)

//go:embed policy.csv
var policyText string

// NewPolicyAdapter serves the role policy compiled into the binary.
func NewPolicyAdapter() persist.Adapter {
	return stringadapter.NewAdapter(policyText)
}
