package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kushi-labs/kushi/pkg/kv"
	"github.com/kushi-labs/kushi/pkg/validator"
)

// Storage keys of the tracker lists.
const (
	PhasesKey         = "tracker:timeline"
	RaiseRequestsKey  = "tracker:raise_requests"
	ReviewRequestsKey = "tracker:review_requests"
	CommitsKey        = "tracker:commits"
)

// Request statuses.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
)

// DefaultReviewComment is recorded when a review is approved without comments.
const DefaultReviewComment = "Approved"

const dateLayout = "2006-01-02"

// Phase is one project timeline entry.
type Phase struct {
	Phase       string `json:"phase" form:"phase"`
	Description string `json:"description,omitempty" form:"description"`
	StartDate   string `json:"start_date,omitempty" form:"start_date"`
	Deadline    string `json:"deadline,omitempty" form:"deadline"`
	Status      string `json:"status" form:"status"`
}

// RaiseRequest asks for work on a module.
type RaiseRequest struct {
	Module      string    `json:"module"`
	Description string    `json:"description"`
	RaisedBy    string    `json:"raised_by"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// RaiseInput is what a client submits to raise a request.
type RaiseInput struct {
	Module      string `json:"module" form:"module"`
	Description string `json:"description" form:"description"`
}

// ReviewRequest asks reviewer to look at a module.
type ReviewRequest struct {
	Module     string     `json:"module"`
	Reviewer   string     `json:"reviewer"`
	Status     string     `json:"status"`
	Comments   string     `json:"comments"`
	CreatedAt  time.Time  `json:"created_at"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}

// ReviewInput is what a client submits to request a review.
type ReviewInput struct {
	Module   string `json:"module" form:"module"`
	Reviewer string `json:"reviewer" form:"reviewer"`
}

// CommitRecord is a commit entered by hand.
type CommitRecord struct {
	ID        string    `json:"commit_id"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// CommitInput is what a client submits to record a commit.
type CommitInput struct {
	Message string `json:"message" form:"message"`
	Author  string `json:"author" form:"author"`
}

// Tracker keeps the project timeline, raise and review requests and the
// commit log as JSON lists in a kv.Store. Writes are read-modify-write of
// the whole list, serialized within the process.
type Tracker struct {
	mu  sync.Mutex
	kv  kv.Store
	now func() time.Time
}

func NewTracker(store kv.Store) *Tracker {
	return &Tracker{kv: store, now: time.Now}
}

// AddPhase appends a timeline phase. Status defaults to Pending.
func (t *Tracker) AddPhase(ctx context.Context, p Phase) (Phase, error) {
	if err := validator.Apply(
		validator.RequiredString("phase", p.Phase),
		validDate("start_date", p.StartDate),
		validDate("deadline", p.Deadline),
		dateOrder(p.StartDate, p.Deadline),
	); err != nil {
		return Phase{}, err
	}
	if p.Status == "" {
		p.Status = StatusPending
	}
	return p, appendTo(ctx, t, PhasesKey, p)
}

func (t *Tracker) Phases(ctx context.Context) ([]Phase, error) {
	return list[Phase](ctx, t.kv, PhasesKey)
}

// Raise records a pending raise request by raisedBy.
func (t *Tracker) Raise(ctx context.Context, in RaiseInput, raisedBy string) (RaiseRequest, error) {
	if err := validator.Apply(
		validator.RequiredString("module", in.Module),
		validator.RequiredString("description", in.Description),
	); err != nil {
		return RaiseRequest{}, err
	}
	r := RaiseRequest{
		Module:      in.Module,
		Description: in.Description,
		RaisedBy:    raisedBy,
		Status:      StatusPending,
		CreatedAt:   t.now(),
	}
	return r, appendTo(ctx, t, RaiseRequestsKey, r)
}

func (t *Tracker) RaiseRequests(ctx context.Context) ([]RaiseRequest, error) {
	return list[RaiseRequest](ctx, t.kv, RaiseRequestsKey)
}

// ApproveRaise marks the raise request at index approved. Indexes follow
// the order of RaiseRequests.
func (t *Tracker) ApproveRaise(ctx context.Context, index int) (RaiseRequest, error) {
	return update(ctx, t, RaiseRequestsKey, index, func(r *RaiseRequest) {
		r.Status = StatusApproved
	})
}

// RequestReview records a pending review request.
func (t *Tracker) RequestReview(ctx context.Context, in ReviewInput) (ReviewRequest, error) {
	if err := validator.Apply(
		validator.RequiredString("module", in.Module),
		validator.RequiredString("reviewer", in.Reviewer),
	); err != nil {
		return ReviewRequest{}, err
	}
	r := ReviewRequest{
		Module:    in.Module,
		Reviewer:  in.Reviewer,
		Status:    StatusPending,
		CreatedAt: t.now(),
	}
	return r, appendTo(ctx, t, ReviewRequestsKey, r)
}

func (t *Tracker) ReviewRequests(ctx context.Context) ([]ReviewRequest, error) {
	return list[ReviewRequest](ctx, t.kv, ReviewRequestsKey)
}

// ApproveReview approves the review request at index with comments, or
// DefaultReviewComment when comments is empty.
func (t *Tracker) ApproveReview(ctx context.Context, index int, comments string) (ReviewRequest, error) {
	if comments == "" {
		comments = DefaultReviewComment
	}
	at := t.now()
	return update(ctx, t, ReviewRequestsKey, index, func(r *ReviewRequest) {
		r.Status = StatusApproved
		r.Comments = comments
		r.ReviewedAt = &at
	})
}

// AddCommit records a commit with a short random ID. An empty author is
// replaced by fallbackAuthor.
func (t *Tracker) AddCommit(ctx context.Context, in CommitInput, fallbackAuthor string) (CommitRecord, error) {
	if in.Author == "" {
		in.Author = fallbackAuthor
	}
	if err := validator.Apply(
		validator.RequiredString("message", in.Message),
		validator.RequiredString("author", in.Author),
	); err != nil {
		return CommitRecord{}, err
	}
	c := CommitRecord{
		ID:        uuid.NewString()[:8],
		Message:   in.Message,
		Author:    in.Author,
		Timestamp: t.now(),
	}
	return c, appendTo(ctx, t, CommitsKey, c)
}

func (t *Tracker) Commits(ctx context.Context) ([]CommitRecord, error) {
	return list[CommitRecord](ctx, t.kv, CommitsKey)
}

// list reads the JSON list under key. A missing key reads as empty.
func list[T any](ctx context.Context, store kv.Store, key string) ([]T, error) {
	items, err := kv.GetJSON[[]T](ctx, store, key)
	switch {
	case err == nil:
		if items == nil {
			items = []T{}
		}
		return items, nil
	case errors.Is(err, kv.ErrNotFound):
		return []T{}, nil
	case errors.Is(err, kv.ErrMalformed):
		return nil, errors.Join(ErrTrackerCorrupted, err)
	default:
		return nil, fmt.Errorf("workspace: load %s: %w", key, err)
	}
}

func appendTo[T any](ctx context.Context, t *Tracker, key string, item T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	items, err := list[T](ctx, t.kv, key)
	if err != nil {
		return err
	}
	if err := kv.SetJSON(ctx, t.kv, key, append(items, item)); err != nil {
		return fmt.Errorf("workspace: save %s: %w", key, err)
	}
	return nil
}

func update[T any](ctx context.Context, t *Tracker, key string, index int, fn func(*T)) (T, error) {
	var zero T

	t.mu.Lock()
	defer t.mu.Unlock()

	items, err := list[T](ctx, t.kv, key)
	if err != nil {
		return zero, err
	}
	if index < 0 || index >= len(items) {
		return zero, ErrRequestNotFound
	}
	fn(&items[index])
	if err := kv.SetJSON(ctx, t.kv, key, items); err != nil {
		return zero, fmt.Errorf("workspace: save %s: %w", key, err)
	}
	return items[index], nil
}

// validDate accepts an empty value or a YYYY-MM-DD date.
func validDate(field, value string) validator.Rule {
	return validator.Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			_, err := time.Parse(dateLayout, value)
			return err == nil
		},
		Error: validator.ValidationError{
			Field:          field,
			Message:        "must be a date formatted as YYYY-MM-DD",
			TranslationKey: "validation.date",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

func dateOrder(start, deadline string) validator.Rule {
	return validator.Rule{
		Check: func() bool {
			s, err1 := time.Parse(dateLayout, start)
			d, err2 := time.Parse(dateLayout, deadline)
			return err1 != nil || err2 != nil || !d.Before(s)
		},
		Error: validator.ValidationError{
			Field:          "deadline",
			Message:        "must not be before the start date",
			TranslationKey: "validation.date_order",
			TranslationValues: map[string]any{
				"field": "deadline",
			},
		},
	}
}
