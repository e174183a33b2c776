package transaction

import "localloop/model"

// Role is the viewer's position relative to one transaction, decided by
// strict identity equality and nothing else. A third party looking at a
// shared link gets RoleNone and therefore zero actions; the server
// re-validates every mutating call independently.
type Role string

const (
	RoleLender   Role = "lender"
	RoleBorrower Role = "borrower"
	RoleNone     Role = "none"
)

type Action string

const (
	ActionAccept      Action = "accept"
	ActionDecline     Action = "decline"
	ActionRenegotiate Action = "renegotiate"

	ActionEditRequest Action = "edit_request"
	ActionRetract     Action = "retract"

	ActionAcceptRenegotiation  Action = "accept_renegotiation"
	ActionDeclineRenegotiation Action = "decline_renegotiation"

	ActionPay Action = "pay"

	ActionGenerateReturnCode Action = "generate_return_code"
	ActionSubmitReturnCode   Action = "submit_return_code"
	ActionForceComplete      Action = "force_complete"

	ActionReview Action = "review"
)

// RoleOf matches the viewer against the transaction parties.
func RoleOf(viewer model.User, tx model.Transaction) Role {
	if viewer.ID == "" {
		return RoleNone
	}
	switch viewer.ID {
	case tx.Lender.ID:
		return RoleLender
	case tx.Borrower.ID:
		return RoleBorrower
	}
	return RoleNone
}

// AllowedActions is the whole state machine: the action set is a pure
// function of (status, role). Review eligibility is narrowed further by
// the transaction's can_review flag at render time.
func AllowedActions(status model.TransactionStatus, role Role) []Action {
	switch status {
	case model.StatusRequested:
		switch role {
		case RoleLender:
			return []Action{ActionAccept, ActionDecline, ActionRenegotiate}
		case RoleBorrower:
			return []Action{ActionEditRequest, ActionRetract}
		}
	case model.StatusRenegotiation:
		if role == RoleBorrower {
			// The window is still editable while the counter-proposal is open.
			return []Action{
				ActionAcceptRenegotiation, ActionDeclineRenegotiation,
				ActionEditRequest, ActionRetract,
			}
		}
	case model.StatusAccepted:
		if role == RoleBorrower {
			return []Action{ActionPay}
		}
	case model.StatusBorrowed:
		switch role {
		case RoleLender:
			return []Action{ActionGenerateReturnCode, ActionForceComplete}
		case RoleBorrower:
			return []Action{ActionSubmitReturnCode}
		}
	case model.StatusReturned, model.StatusCompleted:
		if role == RoleLender || role == RoleBorrower {
			return []Action{ActionReview}
		}
	}
	return nil
}

// Allowed reports whether a single action is in the allowed set.
func Allowed(status model.TransactionStatus, role Role, a Action) bool {
	for _, x := range AllowedActions(status, role) {
		if x == a {
			return true
		}
	}
	return false
}

// Counterparty returns the other side of the transaction from the
// viewer's perspective.
func Counterparty(viewer model.User, tx model.Transaction) model.User {
	if RoleOf(viewer, tx) == RoleLender {
		return tx.Borrower
	}
	return tx.Lender
}
