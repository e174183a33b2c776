package review

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"localloop/model"
)

type mockRepo struct {
	createFn func(ctx context.Context, req model.CreateReviewReq) (*model.Review, error)
	canFn    func(ctx context.Context, transactionID string) (*model.CanReview, error)
	forFn    func(ctx context.Context, userID string) ([]model.Review, error)
}

var _ Repo = (*mockRepo)(nil)

func (m *mockRepo) Create(ctx context.Context, req model.CreateReviewReq) (*model.Review, error) {
	if m.createFn == nil {
		return &model.Review{Rating: req.Rating, Comment: req.Comment}, nil
	}
	return m.createFn(ctx, req)
}

func (m *mockRepo) CanReview(ctx context.Context, transactionID string) (*model.CanReview, error) {
	if m.canFn == nil {
		return &model.CanReview{CanReview: true}, nil
	}
	return m.canFn(ctx, transactionID)
}

func (m *mockRepo) ForUser(ctx context.Context, userID string) ([]model.Review, error) {
	if m.forFn == nil {
		return nil, nil
	}
	return m.forFn(ctx, userID)
}

func TestCreate_RatingBounds(t *testing.T) {
	ctx := context.Background()
	svc := New(&mockRepo{})

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Create(ctx, model.CreateReviewReq{TransactionID: "t-1", Rating: rating})
		require.Error(t, err, "rating %d", rating)
		require.Equal(t, ErrBadInput, Code(err))
	}

	for rating := 1; rating <= 5; rating++ {
		_, err := svc.Create(ctx, model.CreateReviewReq{TransactionID: "t-1", Rating: rating})
		require.NoError(t, err, "rating %d", rating)
	}
}

func TestCreate_CommentLength(t *testing.T) {
	ctx := context.Background()
	svc := New(&mockRepo{})

	_, err := svc.Create(ctx, model.CreateReviewReq{
		TransactionID: "t-1",
		Rating:        4,
		Comment:       strings.Repeat("x", 501),
	})
	require.Equal(t, ErrBadInput, Code(err))

	_, err = svc.Create(ctx, model.CreateReviewReq{
		TransactionID: "t-1",
		Rating:        4,
		Comment:       strings.Repeat("x", 500),
	})
	require.NoError(t, err)
}

func TestCreate_MissingTransaction(t *testing.T) {
	ctx := context.Background()
	svc := New(&mockRepo{})

	_, err := svc.Create(ctx, model.CreateReviewReq{Rating: 3})
	require.Equal(t, ErrBadInput, Code(err))
}

// The server owns once-per-role; the client only reflects the flag and
// refuses to post when it is down.
func TestCreate_NotEligible(t *testing.T) {
	ctx := context.Background()
	created := false
	m := &mockRepo{
		canFn: func(ctx context.Context, transactionID string) (*model.CanReview, error) {
			return &model.CanReview{CanReview: false}, nil
		},
		createFn: func(ctx context.Context, req model.CreateReviewReq) (*model.Review, error) {
			created = true
			return &model.Review{}, nil
		},
	}
	svc := New(m)

	_, err := svc.Create(ctx, model.CreateReviewReq{TransactionID: "t-1", Rating: 5})
	require.Equal(t, ErrNotReviewable, Code(err))
	require.False(t, created)
}
