package transaction_test

import (
	"reflect"
	"testing"

	"localloop/model"
	"localloop/service/transaction"
)

// The action set must match the lifecycle table exactly for every
// (status, role) pair - no extra and no missing actions.
func TestAllowedActions_Matrix(t *testing.T) {
	type pair struct {
		status model.TransactionStatus
		role   transaction.Role
	}
	want := map[pair][]transaction.Action{
		{model.StatusRequested, transaction.RoleLender}: {
			transaction.ActionAccept, transaction.ActionDecline, transaction.ActionRenegotiate,
		},
		{model.StatusRequested, transaction.RoleBorrower}: {
			transaction.ActionEditRequest, transaction.ActionRetract,
		},
		{model.StatusRenegotiation, transaction.RoleLender}: nil,
		{model.StatusRenegotiation, transaction.RoleBorrower}: {
			transaction.ActionAcceptRenegotiation, transaction.ActionDeclineRenegotiation,
			transaction.ActionEditRequest, transaction.ActionRetract,
		},
		{model.StatusAccepted, transaction.RoleLender}:   nil,
		{model.StatusAccepted, transaction.RoleBorrower}: {transaction.ActionPay},
		{model.StatusBorrowed, transaction.RoleLender}: {
			transaction.ActionGenerateReturnCode, transaction.ActionForceComplete,
		},
		{model.StatusBorrowed, transaction.RoleBorrower}: {transaction.ActionSubmitReturnCode},
		{model.StatusReturned, transaction.RoleLender}:   {transaction.ActionReview},
		{model.StatusReturned, transaction.RoleBorrower}: {transaction.ActionReview},
		{model.StatusCompleted, transaction.RoleLender}:  {transaction.ActionReview},
		{model.StatusCompleted, transaction.RoleBorrower}: {transaction.ActionReview},
		{model.StatusRejected, transaction.RoleLender}:    nil,
		{model.StatusRejected, transaction.RoleBorrower}:  nil,
		{model.StatusRetracted, transaction.RoleLender}:   nil,
		{model.StatusRetracted, transaction.RoleBorrower}: nil,
	}

	statuses := []model.TransactionStatus{
		model.StatusRequested, model.StatusAccepted, model.StatusRejected,
		model.StatusRenegotiation, model.StatusBorrowed, model.StatusReturned,
		model.StatusCompleted, model.StatusRetracted,
	}
	roles := []transaction.Role{transaction.RoleLender, transaction.RoleBorrower, transaction.RoleNone}

	for _, st := range statuses {
		for _, role := range roles {
			got := transaction.AllowedActions(st, role)
			var expected []transaction.Action
			if role != transaction.RoleNone {
				expected = want[pair{st, role}]
			}
			if !reflect.DeepEqual(got, expected) {
				t.Errorf("AllowedActions(%s, %s) = %v; want %v", st, role, got, expected)
			}
		}
	}
}

// A viewer matching neither party gets no actions regardless of status.
func TestAllowedActions_ThirdPartySeesNothing(t *testing.T) {
	statuses := []model.TransactionStatus{
		model.StatusRequested, model.StatusAccepted, model.StatusRejected,
		model.StatusRenegotiation, model.StatusBorrowed, model.StatusReturned,
		model.StatusCompleted, model.StatusRetracted,
	}
	for _, st := range statuses {
		if got := transaction.AllowedActions(st, transaction.RoleNone); len(got) != 0 {
			t.Errorf("AllowedActions(%s, none) = %v; want empty", st, got)
		}
	}
}

func TestRoleOf_StrictIdentity(t *testing.T) {
	tx := model.Transaction{
		Lender:   model.User{ID: "u-lender"},
		Borrower: model.User{ID: "u-borrower"},
	}

	if r := transaction.RoleOf(model.User{ID: "u-lender"}, tx); r != transaction.RoleLender {
		t.Fatalf("lender role = %s", r)
	}
	if r := transaction.RoleOf(model.User{ID: "u-borrower"}, tx); r != transaction.RoleBorrower {
		t.Fatalf("borrower role = %s", r)
	}
	if r := transaction.RoleOf(model.User{ID: "u-visitor"}, tx); r != transaction.RoleNone {
		t.Fatalf("third party role = %s", r)
	}
	// An anonymous viewer never matches, even against a transaction
	// with an empty party id.
	if r := transaction.RoleOf(model.User{}, model.Transaction{}); r != transaction.RoleNone {
		t.Fatalf("anonymous role = %s", r)
	}
}

func TestCounterparty(t *testing.T) {
	tx := model.Transaction{
		Lender:   model.User{ID: "a", Nickname: "Alice"},
		Borrower: model.User{ID: "b", Nickname: "Bob"},
	}
	if got := transaction.Counterparty(model.User{ID: "a"}, tx); got.ID != "b" {
		t.Fatalf("lender counterparty = %s", got.ID)
	}
	if got := transaction.Counterparty(model.User{ID: "b"}, tx); got.ID != "a" {
		t.Fatalf("borrower counterparty = %s", got.ID)
	}
}
