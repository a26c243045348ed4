package domain

// Policy is the permission policy bound to an account type. Every ledger
// account inherits the policy of its type; the policy decides which
// transaction operations the account owner may perform.
type Policy string

const (
	// PolicyViewOnly allows listing and reading transactions, nothing else.
	PolicyViewOnly Policy = "view_only"

	// PolicyFullAccess allows all transaction operations.
	PolicyFullAccess Policy = "full_access"

	// PolicyPostOnly allows posting new transactions but not viewing,
	// updating or deleting them.
	PolicyPostOnly Policy = "post_only"
)

// Operation is a transaction operation subject to policy evaluation.
type Operation string

const (
	OpList   Operation = "list"
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// policyGrants is the full evaluation table. Absent entries deny, so an
// unknown policy or operation fails closed.
var policyGrants = map[Policy]map[Operation]bool{
	PolicyViewOnly: {
		OpList: true,
		OpRead: true,
	},
	PolicyFullAccess: {
		OpList:   true,
		OpRead:   true,
		OpCreate: true,
		OpUpdate: true,
		OpDelete: true,
	},
	PolicyPostOnly: {
		OpCreate: true,
	},
}

// IsValid checks if the policy is one of the known policies.
func (p Policy) IsValid() bool {
	_, ok := policyGrants[p]
	return ok
}

// Allows evaluates the policy against an operation. Pure and total:
// anything outside the table is denied.
func (p Policy) Allows(op Operation) bool {
	return policyGrants[p][op]
}
