package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"reclaim/internal/filter"
	"reclaim/internal/models"
	"reclaim/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *ModerationService {
	return NewModerationService(
		repository.NewMemoryItemStore(),
		repository.NewMemoryUserStore(),
		repository.NewMemoryClaimStore(),
	)
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	return appErr.Code
}

func TestCreateItem_Validation(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	ctx := context.Background()

	valid := CreateItemInput{
		Title:       "Black iPhone 13",
		Type:        models.ItemTypeLost,
		Category:    "Electronics",
		Description: "Lost near the library, black case",
		SubmittedBy: "john.doe@university.edu",
	}

	tests := []struct {
		name   string
		mutate func(*CreateItemInput)
	}{
		{"missing title", func(in *CreateItemInput) { in.Title = "" }},
		{"missing description", func(in *CreateItemInput) { in.Description = "" }},
		{"missing submitter", func(in *CreateItemInput) { in.SubmittedBy = "" }},
		{"bad type", func(in *CreateItemInput) { in.Type = "stolen" }},
		{"unknown category", func(in *CreateItemInput) { in.Category = "Spaceships" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := svc.CreateItem(ctx, in)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
		})
	}

	item, err := svc.CreateItem(ctx, valid)
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, models.ItemStatusPending, item.Status)
	assert.Equal(t, 0.0, item.SpamScore)
	assert.Empty(t, item.SpamReasons)
}

func TestCreateItem_ScoresSpammyContent(t *testing.T) {
	t.Parallel()
	svc := newTestService()

	item, err := svc.CreateItem(context.Background(), CreateItemInput{
		Title:       "iPhone",
		Type:        models.ItemTypeFound,
		Description: "BUY NOW!!! AMAZING DEALS!!! CLICK HERE!!!",
		SubmittedBy: "seller@temp-mail.org",
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, item.SpamScore, 0.7)
	assert.Equal(t, models.ItemStatusPending, item.Status)
	assert.NotEmpty(t, item.SpamReasons)
}

func TestCreateUser_ScoresProfile(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserInput{Name: "No Email"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))

	user, err := svc.CreateUser(ctx, CreateUserInput{
		Name:         "Busy Poster",
		Email:        "x@uni.edu",
		ItemsPosted:  25,
		ReportCount:  3,
		LastActiveAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.InDelta(t, 0.7, user.SpamScore, 1e-9)
}

func TestCreateClaim_RequiresExistingItem(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateClaim(ctx, CreateClaimInput{
		ItemID:         "missing",
		RequesterEmail: "a@b.edu",
		Description:    "That is my phone",
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appCode(t, err))

	item, err := svc.CreateItem(ctx, CreateItemInput{
		Title:       "Silver Keys",
		Type:        models.ItemTypeFound,
		Description: "Set of keys on a silver ring",
		SubmittedBy: "finder@university.edu",
	})
	require.NoError(t, err)

	claim, err := svc.CreateClaim(ctx, CreateClaimInput{
		ItemID:         item.ID,
		RequesterName:  "Jane Smith",
		RequesterEmail: "jane@university.edu",
		Description:    "Those are mine, lost them Tuesday by the gym",
	})
	require.NoError(t, err)
	assert.Equal(t, item.ID, claim.ItemID)
	assert.Equal(t, "Silver Keys", claim.ItemTitle)
	assert.Equal(t, models.ClaimStatusPending, claim.Status)
}

func TestTransitionItem_StateMachine(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CreateItemInput{
		Title:       "Backpack",
		Type:        models.ItemTypeLost,
		Description: "Blue backpack with laptop inside",
		SubmittedBy: "owner@university.edu",
	})
	require.NoError(t, err)

	approved, err := svc.TransitionItem(ctx, item.ID, ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusApproved, approved.Status)

	// Repeating a terminal transition must fail, not silently succeed
	_, err = svc.TransitionItem(ctx, item.ID, ActionApprove)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", appCode(t, err))
	assert.Contains(t, err.Error(), item.ID)
	assert.Contains(t, err.Error(), "approved")
	assert.Contains(t, err.Error(), "approve")

	// And the entity is unchanged by the failed attempt
	got, err := svc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusApproved, got.Status)

	_, err = svc.TransitionItem(ctx, item.ID, ActionReject)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", appCode(t, err))
}

func TestTransitionItem_Errors(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.TransitionItem(ctx, "missing", ActionApprove)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appCode(t, err))

	item, err := svc.CreateItem(ctx, CreateItemInput{
		Title:       "Umbrella",
		Type:        models.ItemTypeFound,
		Description: "Red umbrella left in lecture hall",
		SubmittedBy: "finder@university.edu",
	})
	require.NoError(t, err)

	_, err = svc.TransitionItem(ctx, item.ID, "suspend")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
}

func TestTransitionItem_ApproveCreditsSubmitter(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserInput{
		Name:  "John Doe",
		Email: "john.doe@university.edu",
	})
	require.NoError(t, err)
	require.Equal(t, 0, user.ItemsPosted)

	item, err := svc.CreateItem(ctx, CreateItemInput{
		Title:       "Water Bottle",
		Type:        models.ItemTypeFound,
		Description: "Green bottle with stickers",
		SubmittedBy: "john.doe@university.edu",
	})
	require.NoError(t, err)

	_, err = svc.TransitionItem(ctx, item.ID, ActionApprove)
	require.NoError(t, err)

	got, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ItemsPosted)
}

func TestTransitionUser_SuspendActivateCycle(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserInput{
		Name:  "Flagged Account",
		Email: "flagged@university.edu",
	})
	require.NoError(t, err)

	// activate from active fails
	_, err = svc.TransitionUser(ctx, user.ID, ActionActivate)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", appCode(t, err))

	suspended, err := svc.TransitionUser(ctx, user.ID, ActionSuspend)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusSuspended, suspended.Status)

	// suspend from suspended fails
	_, err = svc.TransitionUser(ctx, user.ID, ActionSuspend)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", appCode(t, err))

	// the cycle is re-enterable
	reactivated, err := svc.TransitionUser(ctx, user.ID, ActionActivate)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, reactivated.Status)

	suspendedAgain, err := svc.TransitionUser(ctx, user.ID, ActionSuspend)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusSuspended, suspendedAgain.Status)
}

func TestTransitionClaim_IndependentOfItemStatus(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CreateItemInput{
		Title:       "Calculator",
		Type:        models.ItemTypeFound,
		Description: "Graphing calculator found in exam hall",
		SubmittedBy: "finder@university.edu",
	})
	require.NoError(t, err)

	claim, err := svc.CreateClaim(ctx, CreateClaimInput{
		ItemID:         item.ID,
		RequesterName:  "Sam Lee",
		RequesterEmail: "sam@university.edu",
		Description:    "It has my initials scratched on the back",
	})
	require.NoError(t, err)

	// Rejecting the item does not block the claim workflow
	_, err = svc.TransitionItem(ctx, item.ID, ActionReject)
	require.NoError(t, err)

	approved, err := svc.TransitionClaim(ctx, claim.ID, ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusApproved, approved.Status)

	_, err = svc.TransitionClaim(ctx, claim.ID, ActionReject)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", appCode(t, err))
}

func TestTransitionItem_ConcurrentOnlyOneSucceeds(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CreateItemInput{
		Title:       "Contested Wallet",
		Type:        models.ItemTypeFound,
		Description: "Brown leather wallet",
		SubmittedBy: "finder@university.edu",
	})
	require.NoError(t, err)

	const attempts = 16
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			action := ActionApprove
			if i%2 == 1 {
				action = ActionReject
			}
			_, errs[i] = svc.TransitionItem(ctx, item.ID, action)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.Equal(t, "INVALID_TRANSITION", appCode(t, err))
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestListItems_Filtered(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.CreateItem(ctx, CreateItemInput{
		Title:       "Black iPhone 13",
		Type:        models.ItemTypeLost,
		Category:    "Electronics",
		Tags:        []string{"phone", "black"},
		Description: "Lost near the library",
		SubmittedBy: "john.doe@university.edu",
	})
	require.NoError(t, err)

	_, err = svc.CreateItem(ctx, CreateItemInput{
		Title:       "Silver Keys",
		Type:        models.ItemTypeFound,
		Category:    "Keys",
		Tags:        []string{"keys", "silver"},
		Description: "Found by the gym entrance",
		SubmittedBy: "jane@university.edu",
	})
	require.NoError(t, err)

	got, err := svc.ListItems(ctx, filter.Query{Status: filter.All, Search: "IPHONE"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)

	got, err = svc.ListItems(ctx, filter.Query{Tags: []string{"keys", "silver"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Silver Keys", got[0].Title)

	// Insertion order is preserved for unfiltered listings
	all, err := svc.ListItems(ctx, filter.Query{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Black iPhone 13", all[0].Title)
}

func TestStats_Counters(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	ctx := context.Background()

	spammy, err := svc.CreateItem(ctx, CreateItemInput{
		Title:       "FREE MONEY",
		Type:        models.ItemTypeFound,
		Description: "BUY NOW!!! AMAZING DEALS!!! CLICK HERE!!!",
		SubmittedBy: "seller@temp-mail.org",
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, spammy.SpamScore, 0.7)

	_, err = svc.CreateItem(ctx, CreateItemInput{
		Title:       "Scarf",
		Type:        models.ItemTypeLost,
		Description: "Wool scarf, blue and white stripes",
		SubmittedBy: "someone@university.edu",
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, CreateUserInput{
		Name:  "Regular",
		Email: "regular@university.edu",
	})
	require.NoError(t, err)

	claimTarget, err := svc.CreateItem(ctx, CreateItemInput{
		Title:       "Laptop Charger",
		Type:        models.ItemTypeFound,
		Description: "USB-C charger found in study room",
		SubmittedBy: "finder@university.edu",
	})
	require.NoError(t, err)
	_, err = svc.CreateClaim(ctx, CreateClaimInput{
		ItemID:         claimTarget.ID,
		RequesterName:  "Owner",
		RequesterEmail: "owner@university.edu",
		Description:    "Mine, it has a dent near the plug",
	})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.PendingItems)
	assert.Equal(t, int64(0), stats.ReportedItems)
	assert.Equal(t, int64(1), stats.ActiveUsers)
	assert.Equal(t, int64(1), stats.PendingClaims)
	assert.Equal(t, int64(1), stats.SpamFlagged)
}
