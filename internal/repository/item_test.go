package repository

import (
	"context"
	"regexp"
	"testing"

	"reclaim/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestItemStore_Get(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewItemStore(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		itemID        string
		mockBehavior  func()
		wantTitle     string
		wantErrorCode string
	}{
		{
			name:   "Success",
			itemID: "item-1",
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "title", "status"}).
					AddRow("item-1", "Black iPhone 13", "pending")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "items" WHERE id = $1 ORDER BY "items"."id" LIMIT $2`)).
					WithArgs("item-1", 1).
					WillReturnRows(rows)
			},
			wantTitle: "Black iPhone 13",
		},
		{
			name:   "Not Found",
			itemID: "missing",
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "items" WHERE id = $1 ORDER BY "items"."id" LIMIT $2`)).
					WithArgs("missing", 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			wantErrorCode: "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()

			item, err := store.Get(ctx, tt.itemID)
			if tt.wantErrorCode != "" {
				require.Error(t, err)
				var appErr *models.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.wantErrorCode, appErr.Code)
				assert.Nil(t, item)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantTitle, item.Title)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestItemStore_CountByStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewItemStore(db)

	rows := sqlmock.NewRows([]string{"count"}).AddRow(3)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "items" WHERE status = $1`)).
		WithArgs("pending").
		WillReturnRows(rows)

	n, err := store.CountByStatus(context.Background(), models.ItemStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
