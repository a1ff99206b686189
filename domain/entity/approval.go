package entity

// ApprovalState represents whether the distribution operator contract is
// authorized to move a holder's tokens. The state mirrors the external
// ledger and is only advanced after a confirmed commit; a failed or
// unknown-outcome commit leaves it where it was.
type ApprovalState string

const (
	ApprovalUnknown     ApprovalState = "UNKNOWN"
	ApprovalNotApproved ApprovalState = "NOT_APPROVED"
	ApprovalApproved    ApprovalState = "APPROVED"
)

// Approval tracks the (holder, operator) authorization pair for one
// collection.
type Approval struct {
	HolderAddress   string        `json:"holder_address"`
	OperatorAddress string        `json:"operator_address"`
	State           ApprovalState `json:"state"`
}

// NewApproval starts in UNKNOWN until the first chain read resolves it.
func NewApproval(holder, operator string) *Approval {
	return &Approval{
		HolderAddress:   holder,
		OperatorAddress: operator,
		State:           ApprovalUnknown,
	}
}

// Resolve applies the result of a successful chain read.
func (a *Approval) Resolve(approved bool) {
	if approved {
		a.State = ApprovalApproved
	} else {
		a.State = ApprovalNotApproved
	}
}

// CanSend reports whether the operator may move the holder's tokens.
func (a *Approval) CanSend() bool {
	return a.State == ApprovalApproved
}
