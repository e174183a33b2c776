package transaction

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"localloop/model"
	"localloop/util/httpx"
)

// errors used by the delivery layer

type ErrCode string

const (
	ErrNotAllowed ErrCode = "NOT_ALLOWED"
	ErrWrongCode  ErrCode = "WRONG_CODE"
	ErrNotFound   ErrCode = "NOT_FOUND"
	ErrBadInput   ErrCode = "BAD_INPUT"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }

func makeErr(c ErrCode) error { return codedError{code: c} }

func makeErrMsg(c ErrCode, m string) error { return codedError{code: c, msg: m} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Notices records a pending follow-up for a user, e.g. the review nudge
// a borrower gets after the lender force-completed the return.
type Notices interface {
	PutNotice(email, action string) error
}

// Repo is the slice of the transaction API this service drives.
type Repo interface {
	Request(ctx context.Context, req model.RequestTransactionReq) (*model.Transaction, error)
	Get(ctx context.Context, id string) (*model.Transaction, error)
	Summary(ctx context.Context, id string) (*model.TransactionSummary, error)
	Mine(ctx context.Context) ([]model.Transaction, error)

	Accept(ctx context.Context, id string) error
	Decline(ctx context.Context, id string) error
	Retract(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) error

	Renegotiate(ctx context.Context, id string, req model.RenegotiateReq) error
	AcceptRenegotiation(ctx context.Context, id string) error
	DeclineRenegotiation(ctx context.Context, id string) error

	GenerateReturnCode(ctx context.Context, id string) (string, error)
	SubmitReturnCode(ctx context.Context, id, code string) error
}

// Service drives status transitions. Every mutating method follows the
// same contract: gate on the allowed-action set, call the endpoint,
// then re-fetch the whole record and return it for wholesale
// assignment. On failure the caller's copy is untouched.
type Service interface {
	Get(ctx context.Context, id string) (*model.Transaction, error)
	Summary(ctx context.Context, id string) (*model.TransactionSummary, error)
	Mine(ctx context.Context) ([]model.Transaction, error)
	Request(ctx context.Context, req model.RequestTransactionReq) (*model.Transaction, error)

	Accept(ctx context.Context, viewer model.User, tx model.Transaction) (*model.Transaction, error)
	Decline(ctx context.Context, viewer model.User, tx model.Transaction) (*model.Transaction, error)
	Retract(ctx context.Context, viewer model.User, tx model.Transaction) (*model.Transaction, error)

	Renegotiate(ctx context.Context, viewer model.User, tx model.Transaction, req model.RenegotiateReq) (*model.Transaction, error)
	AcceptRenegotiation(ctx context.Context, viewer model.User, tx model.Transaction) (*model.Transaction, error)
	DeclineRenegotiation(ctx context.Context, viewer model.User, tx model.Transaction) (*model.Transaction, error)

	GenerateReturnCode(ctx context.Context, viewer model.User, tx model.Transaction) (string, error)
	SubmitReturnCode(ctx context.Context, viewer model.User, tx model.Transaction, code string) (*model.Transaction, error)
	ForceComplete(ctx context.Context, viewer model.User, tx model.Transaction) (*model.Transaction, error)
}

type service struct {
	r Repo
	n Notices
}

func New(r Repo, n Notices) Service { return &service{r: r, n: n} }

func (s *service) Get(ctx context.Context, id string) (*model.Transaction, error) {
	tx, err := s.r.Get(ctx, id)
	if err != nil {
		if httpx.StatusOf(err) == http.StatusNotFound {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return tx, nil
}

func (s *service) Summary(ctx context.Context, id string) (*model.TransactionSummary, error) {
	return s.r.Summary(ctx, id)
}

func (s *service) Mine(ctx context.Context) ([]model.Transaction, error) {
	return s.r.Mine(ctx)
}

func (s *service) Request(ctx context.Context, req model.RequestTransactionReq) (*model.Transaction, error) {
	if req.ItemID == "" || req.From.IsZero() || req.To.IsZero() {
		return nil, makeErrMsg(ErrBadInput, "item and both dates are required")
	}
	if req.To.Before(req.From) {
		return nil, makeErrMsg(ErrBadInput, "end date precedes start date")
	}
	return s.r.Request(ctx, req)
}

// perform runs one transition: gate, call, re-fetch.
func (s *service) perform(ctx context.Context, viewer model.User, tx model.Transaction, a Action, call func(context.Context) error) (*model.Transaction, error) {
	if !Allowed(tx.Status, RoleOf(viewer, tx), a) {
		return nil, makeErr(ErrNotAllowed)
	}
	if err := call(ctx); err != nil {
		return nil, err
	}
	return s.r.Get(ctx, tx.ID)
}

func (s *service) Accept(ctx context.Context, viewer model.User, tx model.Transaction) (*model.Transaction, error) {
	return s.perform(ctx, viewer, tx, ActionAccept, func(ctx context.Context) error {
		return s.r.Accept(ctx, tx.ID)
	})
}

func (s *service) Decline(ctx context.Context, viewer model.User, tx model.Transaction) (*model.Transaction, error) {
	return s.perform(ctx, viewer, tx, ActionDecline, func(ctx context.Context) error {
		return s.r.Decline(ctx, tx.ID)
	})
}

func (s *service) Retract(ctx context.Context, viewer model.User, tx model.Transaction) (*model.Transaction, error) {
	return s.perform(ctx, viewer, tx, ActionRetract, func(ctx context.Context) error {
		return s.r.Retract(ctx, tx.ID)
	})
}

func (s *service) Renegotiate(ctx context.Context, viewer model.User, tx model.Transaction, req model.RenegotiateReq) (*model.Transaction, error) {
	// Only the window endpoints are checked client-side; the rest is
	// the server's call.
	if req.From.IsZero() || req.To.IsZero() {
		return nil, makeErrMsg(ErrBadInput, "both dates are required")
	}
	return s.perform(ctx, viewer, tx, ActionRenegotiate, func(ctx context.Context) error {
		return s.r.Renegotiate(ctx, tx.ID, req)
	})
}

func (s *service) AcceptRenegotiation(ctx context.Context, viewer model.User, tx model.Transaction) (*model.Transaction, error) {
	return s.perform(ctx, viewer, tx, ActionAcceptRenegotiation, func(ctx context.Context) error {
		return s.r.AcceptRenegotiation(ctx, tx.ID)
	})
}

func (s *service) DeclineRenegotiation(ctx context.Context, viewer model.User, tx model.Transaction) (*model.Transaction, error) {
	return s.perform(ctx, viewer, tx, ActionDeclineRenegotiation, func(ctx context.Context) error {
		return s.r.DeclineRenegotiation(ctx, tx.ID)
	})
}

// GenerateReturnCode never changes the transaction status; the server
// hands back the same code until it is consumed.
func (s *service) GenerateReturnCode(ctx context.Context, viewer model.User, tx model.Transaction) (string, error) {
	if !Allowed(tx.Status, RoleOf(viewer, tx), ActionGenerateReturnCode) {
		return "", makeErr(ErrNotAllowed)
	}
	return s.r.GenerateReturnCode(ctx, tx.ID)
}

func (s *service) SubmitReturnCode(ctx context.Context, viewer model.User, tx model.Transaction, code string) (*model.Transaction, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, makeErrMsg(ErrBadInput, "code is required")
	}
	fresh, err := s.perform(ctx, viewer, tx, ActionSubmitReturnCode, func(ctx context.Context) error {
		return s.r.SubmitReturnCode(ctx, tx.ID, code)
	})
	if err != nil {
		if isWrongCode(err) {
			return nil, makeErrMsg(ErrWrongCode, "the code does not match")
		}
		return nil, err
	}
	return fresh, nil
}

// ForceComplete is the lender's trust-override: close the return
// without a code and nudge the borrower toward leaving a review.
func (s *service) ForceComplete(ctx context.Context, viewer model.User, tx model.Transaction) (*model.Transaction, error) {
	fresh, err := s.perform(ctx, viewer, tx, ActionForceComplete, func(ctx context.Context) error {
		return s.r.Complete(ctx, tx.ID)
	})
	if err != nil {
		return nil, err
	}
	if s.n != nil && tx.Borrower.Email != "" {
		// Best effort; a lost nudge must not fail the transition.
		_ = s.n.PutNotice(tx.Borrower.Email, "review")
	}
	return fresh, nil
}

func isWrongCode(err error) bool {
	if httpx.CodeOf(err) == "WRONG_CODE" {
		return true
	}
	return httpx.StatusOf(err) == http.StatusConflict
}
