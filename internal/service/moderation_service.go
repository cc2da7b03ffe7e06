// Package service implements the moderation workflow engine: entity creation
// with spam scoring, status transitions, filtered listings, and dashboard
// aggregates.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"reclaim/internal/cache"
	"reclaim/internal/filter"
	"reclaim/internal/middleware"
	"reclaim/internal/models"
	"reclaim/internal/observability"
	"reclaim/internal/repository"
	"reclaim/internal/spam"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Transition actions accepted by the workflow engine.
const (
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionSuspend  = "suspend"
	ActionActivate = "activate"
)

// keyedMutex hands out one mutex per key so transitions on the same entity
// serialize while unrelated entities proceed concurrently.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) acquire(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// ModerationService owns creation, transition, listing, and aggregate logic
// for the three moderated entity kinds.
type ModerationService struct {
	items  repository.ItemStore
	users  repository.UserStore
	claims repository.ClaimStore

	locks keyedMutex
}

// NewModerationService returns a new ModerationService over the given stores.
func NewModerationService(items repository.ItemStore, users repository.UserStore, claims repository.ClaimStore) *ModerationService {
	return &ModerationService{items: items, users: users, claims: claims}
}

// CreateItemInput is a draft listing from the submission pipeline.
type CreateItemInput struct {
	Title       string          `json:"title"`
	Type        models.ItemType `json:"type"`
	Category    string          `json:"category"`
	Tags        []string        `json:"tags"`
	Location    string          `json:"location"`
	OccurredOn  time.Time       `json:"occurred_on"`
	Description string          `json:"description"`
	SubmittedBy string          `json:"submitted_by"`
}

// CreateUserInput is an account profile registered on first authentication.
type CreateUserInput struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ItemsPosted  int       `json:"items_posted"`
	ReportCount  int       `json:"report_count"`
	LastActiveAt time.Time `json:"last_active"`
}

// CreateClaimInput is a draft ownership claim against an existing item.
type CreateClaimInput struct {
	ItemID         string `json:"item_id"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	Description    string `json:"description"`
}

// CreateItem validates the draft, scores it, and enqueues it as pending.
func (s *ModerationService) CreateItem(ctx context.Context, in CreateItemInput) (*models.Item, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Description == "" {
		return nil, models.NewValidationError("Description is required")
	}
	if in.SubmittedBy == "" {
		return nil, models.NewValidationError("Submitter is required")
	}
	if in.Type != models.ItemTypeLost && in.Type != models.ItemTypeFound {
		return nil, models.NewValidationError("Type must be 'lost' or 'found'")
	}
	if in.Category != "" && !validCategory(in.Category) {
		return nil, models.NewValidationError("Unknown category")
	}

	result := spam.ScoreText(in.Description, in.SubmittedBy)
	now := time.Now()

	item := &models.Item{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Type:        in.Type,
		Category:    in.Category,
		Tags:        in.Tags,
		Location:    in.Location,
		OccurredOn:  in.OccurredOn,
		Description: in.Description,
		SubmittedBy: in.SubmittedBy,
		SubmittedAt: now,
		SpamScore:   result.Score,
		SpamReasons: result.Reasons,
		Status:      models.ItemStatusPending,
	}

	if err := s.items.Put(ctx, item); err != nil {
		return nil, err
	}

	observability.SubmissionsScored.WithLabelValues("item", string(spam.RiskBand(result.Score))).Inc()
	cache.InvalidateStats(ctx)
	return item, nil
}

// CreateUser registers an account as a moderation subject, scored on its
// behavioral profile.
func (s *ModerationService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if in.Email == "" {
		return nil, models.NewValidationError("Email is required")
	}
	if in.ItemsPosted < 0 || in.ReportCount < 0 {
		return nil, models.NewValidationError("Counters cannot be negative")
	}

	score := spam.ScoreAccount(spam.Profile{
		Email:        in.Email,
		ItemsPosted:  in.ItemsPosted,
		ReportCount:  in.ReportCount,
		LastActiveAt: in.LastActiveAt,
	})

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		ItemsPosted:  in.ItemsPosted,
		LastActiveAt: in.LastActiveAt,
		ReportCount:  in.ReportCount,
		SpamScore:    score,
		Status:       models.UserStatusActive,
	}

	if err := s.users.Put(ctx, user); err != nil {
		return nil, err
	}

	observability.SubmissionsScored.WithLabelValues("user", string(spam.RiskBand(score))).Inc()
	cache.InvalidateStats(ctx)
	return user, nil
}

// CreateClaim validates the draft against its item and enqueues it as pending.
// The claim description is scored with the text scorer so obviously abusive
// claims surface in triage alongside items.
func (s *ModerationService) CreateClaim(ctx context.Context, in CreateClaimInput) (*models.Claim, error) {
	if in.ItemID == "" {
		return nil, models.NewValidationError("Item ID is required")
	}
	if in.RequesterEmail == "" {
		return nil, models.NewValidationError("Requester email is required")
	}
	if in.Description == "" {
		return nil, models.NewValidationError("Description is required")
	}

	item, err := s.items.Get(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}

	result := spam.ScoreText(in.Description, in.RequesterEmail)

	claim := &models.Claim{
		ID:             uuid.NewString(),
		ItemID:         item.ID,
		ItemTitle:      item.Title,
		RequesterName:  in.RequesterName,
		RequesterEmail: in.RequesterEmail,
		RequestDate:    time.Now(),
		Description:    in.Description,
		SpamScore:      result.Score,
		Status:         models.ClaimStatusPending,
	}

	if err := s.claims.Put(ctx, claim); err != nil {
		return nil, err
	}

	observability.SubmissionsScored.WithLabelValues("claim", string(spam.RiskBand(result.Score))).Inc()
	cache.InvalidateStats(ctx)
	return claim, nil
}

// TransitionItem applies an approve or reject action to a pending item.
// Approving an item credits the submitter's posting counter.
func (s *ModerationService) TransitionItem(ctx context.Context, id, action string) (*models.Item, error) {
	ctx, span := observability.StartSpan(ctx, "moderation.transition_item",
		attribute.String("item.id", id),
		attribute.String("action", action),
	)
	var err error
	defer func() { observability.EndSpan(span, err) }()

	if action != ActionApprove && action != ActionReject {
		err = models.NewValidationError("Action must be 'approve' or 'reject'")
		observability.Transitions.WithLabelValues("item", action, "invalid").Inc()
		return nil, err
	}

	unlock := s.locks.acquire("item:" + id)
	defer unlock()

	var item *models.Item
	item, err = s.items.Get(ctx, id)
	if err != nil {
		observability.Transitions.WithLabelValues("item", action, "error").Inc()
		return nil, err
	}

	if item.Status != models.ItemStatusPending {
		err = models.NewInvalidTransitionError("Item", id, string(item.Status), action)
		observability.Transitions.WithLabelValues("item", action, "invalid").Inc()
		return nil, err
	}

	if action == ActionApprove {
		item.Status = models.ItemStatusApproved
	} else {
		item.Status = models.ItemStatusRejected
	}

	if err = s.items.Put(ctx, item); err != nil {
		observability.Transitions.WithLabelValues("item", action, "error").Inc()
		return nil, err
	}

	if action == ActionApprove {
		s.creditSubmitter(ctx, item.SubmittedBy)
	}

	observability.Transitions.WithLabelValues("item", action, "ok").Inc()
	cache.InvalidateItem(ctx, id)
	return item, nil
}

// creditSubmitter bumps the posting counter for the account behind an
// approved item. Unknown submitters are fine: accounts are only registered
// on first authentication.
func (s *ModerationService) creditSubmitter(ctx context.Context, email string) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return
	}
	user.ItemsPosted++
	user.LastActiveAt = time.Now()
	if err := s.users.Put(ctx, user); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to credit submitter after approval",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
	}
}

// TransitionUser toggles an account between active and suspended.
func (s *ModerationService) TransitionUser(ctx context.Context, id, action string) (*models.User, error) {
	ctx, span := observability.StartSpan(ctx, "moderation.transition_user",
		attribute.String("user.id", id),
		attribute.String("action", action),
	)
	var err error
	defer func() { observability.EndSpan(span, err) }()

	if action != ActionSuspend && action != ActionActivate {
		err = models.NewValidationError("Action must be 'suspend' or 'activate'")
		observability.Transitions.WithLabelValues("user", action, "invalid").Inc()
		return nil, err
	}

	unlock := s.locks.acquire("user:" + id)
	defer unlock()

	var user *models.User
	user, err = s.users.Get(ctx, id)
	if err != nil {
		observability.Transitions.WithLabelValues("user", action, "error").Inc()
		return nil, err
	}

	switch {
	case action == ActionSuspend && user.Status == models.UserStatusActive:
		user.Status = models.UserStatusSuspended
	case action == ActionActivate && user.Status == models.UserStatusSuspended:
		user.Status = models.UserStatusActive
	default:
		err = models.NewInvalidTransitionError("User", id, string(user.Status), action)
		observability.Transitions.WithLabelValues("user", action, "invalid").Inc()
		return nil, err
	}

	if err = s.users.Put(ctx, user); err != nil {
		observability.Transitions.WithLabelValues("user", action, "error").Inc()
		return nil, err
	}

	observability.Transitions.WithLabelValues("user", action, "ok").Inc()
	cache.InvalidateUser(ctx, id)
	return user, nil
}

// TransitionClaim applies an approve or reject action to a pending claim.
// Claim workflow is independent of the underlying item's status.
func (s *ModerationService) TransitionClaim(ctx context.Context, id, action string) (*models.Claim, error) {
	ctx, span := observability.StartSpan(ctx, "moderation.transition_claim",
		attribute.String("claim.id", id),
		attribute.String("action", action),
	)
	var err error
	defer func() { observability.EndSpan(span, err) }()

	if action != ActionApprove && action != ActionReject {
		err = models.NewValidationError("Action must be 'approve' or 'reject'")
		observability.Transitions.WithLabelValues("claim", action, "invalid").Inc()
		return nil, err
	}

	unlock := s.locks.acquire("claim:" + id)
	defer unlock()

	var claim *models.Claim
	claim, err = s.claims.Get(ctx, id)
	if err != nil {
		observability.Transitions.WithLabelValues("claim", action, "error").Inc()
		return nil, err
	}

	if claim.Status != models.ClaimStatusPending {
		err = models.NewInvalidTransitionError("Claim", id, string(claim.Status), action)
		observability.Transitions.WithLabelValues("claim", action, "invalid").Inc()
		return nil, err
	}

	if action == ActionApprove {
		claim.Status = models.ClaimStatusApproved
	} else {
		claim.Status = models.ClaimStatusRejected
	}

	if err = s.claims.Put(ctx, claim); err != nil {
		observability.Transitions.WithLabelValues("claim", action, "error").Inc()
		return nil, err
	}

	observability.Transitions.WithLabelValues("claim", action, "ok").Inc()
	cache.InvalidateClaim(ctx, id)
	return claim, nil
}

// GetItem returns one item by id.
func (s *ModerationService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	return s.items.Get(ctx, id)
}

// GetUser returns one user by id.
func (s *ModerationService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.Get(ctx, id)
}

// GetClaim returns one claim by id.
func (s *ModerationService) GetClaim(ctx context.Context, id string) (*models.Claim, error) {
	return s.claims.Get(ctx, id)
}

// ListItems returns the item snapshot in insertion order, narrowed by q.
func (s *ModerationService) ListItems(ctx context.Context, q filter.Query) ([]models.Item, error) {
	items, err := s.items.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Items(items, q), nil
}

// ListUsers returns the user snapshot in insertion order, narrowed by q.
func (s *ModerationService) ListUsers(ctx context.Context, q filter.Query) ([]models.User, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Users(users, q), nil
}

// ListClaims returns the claim snapshot in insertion order, narrowed by q.
func (s *ModerationService) ListClaims(ctx context.Context, q filter.Query) ([]models.Claim, error) {
	claims, err := s.claims.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Claims(claims, q), nil
}

// DashboardStats aggregates the counters the admin dashboard displays.
type DashboardStats struct {
	PendingItems  int64 `json:"pending_items"`
	ReportedItems int64 `json:"reported_items"`
	ActiveUsers   int64 `json:"active_users"`
	PendingClaims int64 `json:"pending_claims"`
	SpamFlagged   int64 `json:"spam_flagged"`
}

// Stats computes the dashboard counters, served through the stats cache when
// Redis is available. SpamFlagged counts items and users at or above the spam
// threshold.
func (s *ModerationService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	err := cache.Aside(ctx, cache.StatsKey, &stats, cache.StatsTTL, func() error {
		fresh, err := s.computeStats(ctx)
		if err != nil {
			return err
		}
		stats = *fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *ModerationService) computeStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.PendingItems, err = s.items.CountByStatus(ctx, models.ItemStatusPending); err != nil {
		return nil, err
	}
	if stats.ReportedItems, err = s.items.CountReported(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveUsers, err = s.users.CountByStatus(ctx, models.UserStatusActive); err != nil {
		return nil, err
	}
	if stats.PendingClaims, err = s.claims.CountByStatus(ctx, models.ClaimStatusPending); err != nil {
		return nil, err
	}

	spamItems, err := s.items.CountSpam(ctx, spam.Threshold)
	if err != nil {
		return nil, err
	}
	spamUsers, err := s.users.CountSpam(ctx, spam.Threshold)
	if err != nil {
		return nil, err
	}
	stats.SpamFlagged = spamItems + spamUsers

	return stats, nil
}

func validCategory(category string) bool {
	for _, c := range models.Categories {
		if c == category {
			return true
		}
	}
	return false
}
