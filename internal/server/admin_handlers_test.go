package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reclaim/internal/config"
	"reclaim/internal/database"
	"reclaim/internal/models"
	"reclaim/internal/repository"
	"reclaim/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	itemStore := repository.NewItemStore(db)
	userStore := repository.NewUserStore(db)
	claimStore := repository.NewClaimStore(db)

	s := &Server{
		config:     &config.Config{Env: "test"},
		db:         db,
		itemStore:  itemStore,
		userStore:  userStore,
		claimStore: claimStore,
		moderation: service.NewModerationService(itemStore, userStore, claimStore),
	}

	// Routes registered without auth middleware; auth is covered separately.
	app := fiber.New()
	app.Post("/api/items", s.SubmitItem)
	app.Post("/api/claims", s.SubmitClaim)
	app.Post("/api/users", s.RegisterUser)
	app.Get("/api/admin/stats", s.GetAdminStats)
	app.Get("/api/admin/items", s.GetAdminItems)
	app.Put("/api/admin/items/:id", s.TransitionItem)
	app.Get("/api/admin/users", s.GetAdminUsers)
	app.Put("/api/admin/users/:id", s.TransitionUser)
	app.Get("/api/admin/claims", s.GetAdminClaims)
	app.Put("/api/admin/claims/:id", s.TransitionClaim)

	return s, app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func putJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestSubmitItem(t *testing.T) {
	t.Parallel()
	_, app, _ := setupTestServer(t)

	t.Run("valid submission is queued pending", func(t *testing.T) {
		resp := postJSON(t, app, "/api/items", fiber.Map{
			"title":        "Black iPhone 13",
			"type":         "lost",
			"category":     "Electronics",
			"description":  "Lost near the library, black case",
			"submitted_by": "john.doe@university.edu",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		view := decode[itemView](t, resp)
		assert.NotEmpty(t, view.ID)
		assert.Equal(t, models.ItemStatusPending, view.Status)
		assert.Equal(t, "low", string(view.RiskBand))
	})

	t.Run("spammy submission is flagged", func(t *testing.T) {
		resp := postJSON(t, app, "/api/items", fiber.Map{
			"title":        "DEALS",
			"type":         "found",
			"description":  "BUY NOW!!! AMAZING DEALS!!! CLICK HERE!!!",
			"submitted_by": "seller@temp-mail.org",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		view := decode[itemView](t, resp)
		assert.GreaterOrEqual(t, view.SpamScore, 0.7)
		assert.Equal(t, "high", string(view.RiskBand))
		assert.Equal(t, models.ItemStatusPending, view.Status)
	})

	t.Run("missing description rejected", func(t *testing.T) {
		resp := postJSON(t, app, "/api/items", fiber.Map{
			"title":        "No description",
			"type":         "lost",
			"submitted_by": "a@b.edu",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decode[models.ErrorResponse](t, resp)
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
	})
}

func TestTransitionItem_Lifecycle(t *testing.T) {
	t.Parallel()
	_, app, _ := setupTestServer(t)

	resp := postJSON(t, app, "/api/items", fiber.Map{
		"title":        "Backpack",
		"type":         "lost",
		"description":  "Blue backpack with laptop inside",
		"submitted_by": "owner@university.edu",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[itemView](t, resp)

	t.Run("approve pending item", func(t *testing.T) {
		resp := putJSON(t, app, "/api/admin/items/"+created.ID, fiber.Map{"action": "approve"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		view := decode[itemView](t, resp)
		assert.Equal(t, models.ItemStatusApproved, view.Status)
	})

	t.Run("second approve conflicts", func(t *testing.T) {
		resp := putJSON(t, app, "/api/admin/items/"+created.ID, fiber.Map{"action": "approve"})
		require.Equal(t, http.StatusConflict, resp.StatusCode)

		body := decode[models.ErrorResponse](t, resp)
		assert.Equal(t, "INVALID_TRANSITION", body.Code)
		assert.Contains(t, body.Error, created.ID)
	})

	t.Run("unknown item 404", func(t *testing.T) {
		resp := putJSON(t, app, "/api/admin/items/nope", fiber.Map{"action": "reject"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unknown action 400", func(t *testing.T) {
		resp := putJSON(t, app, "/api/admin/items/"+created.ID, fiber.Map{"action": "promote"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetAdminItems_FilterAndPaginate(t *testing.T) {
	t.Parallel()
	_, app, db := setupTestServer(t)

	now := time.Now()
	fixtures := []models.Item{
		{ID: "item-1", Title: "Black iPhone 13", Type: models.ItemTypeLost, Category: "Electronics",
			Tags: []string{"phone", "black"}, Description: "Lost near the library",
			SubmittedBy: "john.doe@university.edu", Status: models.ItemStatusPending, CreatedAt: now},
		{ID: "item-2", Title: "Silver Keys", Type: models.ItemTypeFound, Category: "Keys",
			Tags: []string{"keys", "silver"}, Description: "Found by the gym",
			SubmittedBy: "jane@university.edu", ReportCount: 2, Status: models.ItemStatusApproved,
			CreatedAt: now.Add(time.Second)},
		{ID: "item-3", Title: "FREE MONEY", Type: models.ItemTypeFound, Category: "Other",
			Description: "BUY NOW!!! CLICK HERE!!!", SubmittedBy: "seller@temp-mail.org",
			SpamScore: 0.85, Status: models.ItemStatusPending, CreatedAt: now.Add(2 * time.Second)},
	}
	for i := range fixtures {
		require.NoError(t, db.Create(&fixtures[i]).Error)
	}

	type listResponse struct {
		Data   []itemView `json:"data"`
		Total  int        `json:"total"`
		Limit  int        `json:"limit"`
		Offset int        `json:"offset"`
	}

	get := func(t *testing.T, path string) listResponse {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return decode[listResponse](t, resp)
	}

	t.Run("search is case-insensitive", func(t *testing.T) {
		got := get(t, "/api/admin/items?search=IPHONE")
		require.Equal(t, 1, got.Total)
		assert.Equal(t, "item-1", got.Data[0].ID)
	})

	t.Run("spam sentinel", func(t *testing.T) {
		got := get(t, "/api/admin/items?filter=spam")
		require.Equal(t, 1, got.Total)
		assert.Equal(t, "item-3", got.Data[0].ID)
		assert.Equal(t, "high", string(got.Data[0].RiskBand))
	})

	t.Run("reported sentinel", func(t *testing.T) {
		got := get(t, "/api/admin/items?filter=reported")
		require.Equal(t, 1, got.Total)
		assert.Equal(t, "item-2", got.Data[0].ID)
	})

	t.Run("tags OR semantics", func(t *testing.T) {
		got := get(t, "/api/admin/items?tags=keys,silver")
		require.Equal(t, 1, got.Total)
		assert.Equal(t, "item-2", got.Data[0].ID)
	})

	t.Run("pagination after filtering", func(t *testing.T) {
		got := get(t, "/api/admin/items?limit=2")
		assert.Equal(t, 3, got.Total)
		require.Len(t, got.Data, 2)
		assert.Equal(t, "item-1", got.Data[0].ID)

		got = get(t, "/api/admin/items?limit=2&offset=2")
		require.Len(t, got.Data, 1)
		assert.Equal(t, "item-3", got.Data[0].ID)
	})
}

func TestTransitionUser_Handler(t *testing.T) {
	t.Parallel()
	_, app, _ := setupTestServer(t)

	resp := postJSON(t, app, "/api/users", fiber.Map{
		"name":  "Flagged Account",
		"email": "flagged@university.edu",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[userView](t, resp)
	require.Equal(t, models.UserStatusActive, created.Status)

	resp = putJSON(t, app, "/api/admin/users/"+created.ID, fiber.Map{"action": "suspend"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	suspended := decode[userView](t, resp)
	assert.Equal(t, models.UserStatusSuspended, suspended.Status)

	resp = putJSON(t, app, "/api/admin/users/"+created.ID, fiber.Map{"action": "suspend"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[models.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_TRANSITION", body.Code)

	resp = putJSON(t, app, "/api/admin/users/"+created.ID, fiber.Map{"action": "activate"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSubmitClaim_Handler(t *testing.T) {
	t.Parallel()
	_, app, _ := setupTestServer(t)

	t.Run("claim against missing item 404", func(t *testing.T) {
		resp := postJSON(t, app, "/api/claims", fiber.Map{
			"item_id":         "missing",
			"requester_email": "a@b.edu",
			"description":     "That is mine",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("claim copies item title and starts pending", func(t *testing.T) {
		resp := postJSON(t, app, "/api/items", fiber.Map{
			"title":        "Silver Keys",
			"type":         "found",
			"description":  "Set of keys on a silver ring",
			"submitted_by": "finder@university.edu",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		item := decode[itemView](t, resp)

		resp = postJSON(t, app, "/api/claims", fiber.Map{
			"item_id":         item.ID,
			"requester_name":  "Jane Smith",
			"requester_email": "jane@university.edu",
			"description":     "Lost them Tuesday by the gym",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		claim := decode[claimView](t, resp)
		assert.Equal(t, "Silver Keys", claim.ItemTitle)
		assert.Equal(t, models.ClaimStatusPending, claim.Status)

		resp = putJSON(t, app, "/api/admin/claims/"+claim.ID, fiber.Map{"action": "reject"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		rejected := decode[claimView](t, resp)
		assert.Equal(t, models.ClaimStatusRejected, rejected.Status)
	})
}

func TestGetAdminStats_Handler(t *testing.T) {
	t.Parallel()
	_, app, db := setupTestServer(t)

	now := time.Now()
	require.NoError(t, db.Create(&models.Item{
		ID: "s-1", Title: "Pending", Type: models.ItemTypeLost, Description: "x",
		SubmittedBy: "a@b.edu", Status: models.ItemStatusPending, CreatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&models.Item{
		ID: "s-2", Title: "Spam", Type: models.ItemTypeFound, Description: "y",
		SubmittedBy: "c@d.edu", SpamScore: 0.9, ReportCount: 1,
		Status: models.ItemStatusPending, CreatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&models.User{
		ID: "u-1", Name: "Active", Email: "active@university.edu",
		Status: models.UserStatusActive, CreatedAt: now,
	}).Error)
	require.NoError(t, db.Create(&models.Claim{
		ID: "c-1", ItemID: "s-1", ItemTitle: "Pending", RequesterEmail: "e@f.edu",
		Status: models.ClaimStatusPending, CreatedAt: now,
	}).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stats := decode[service.DashboardStats](t, resp)
	assert.Equal(t, int64(2), stats.PendingItems)
	assert.Equal(t, int64(1), stats.ReportedItems)
	assert.Equal(t, int64(1), stats.ActiveUsers)
	assert.Equal(t, int64(1), stats.PendingClaims)
	assert.Equal(t, int64(1), stats.SpamFlagged)
}

func TestTransitionItem_EmptyID(t *testing.T) {
	t.Parallel()
	_, app, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/admin/items/%s", "%20"),
		bytes.NewReader([]byte(`{"action":"approve"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
