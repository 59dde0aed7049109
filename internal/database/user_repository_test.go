package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/leitnerbot/pkg/models"
)

func TestUserRepository_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByID(ctx, 5)
	require.ErrorIs(t, err, models.ErrNotFound)

	user, err := repo.GetOrCreate(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.Equal(t, models.DefaultDailyWordLimit, user.DailyWordLimit)
	assert.True(t, user.ReminderEnabled)
	assert.Equal(t, "09:00", user.ReminderTime)

	again, err := repo.GetProfile(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, user.DailyWordLimit, again.DailyWordLimit)
	assert.True(t, again.IsActive)
	assert.Nil(t, again.LastRemindedOn)
}

func TestUserRepository_UpdateSettings(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserRepository(db)
	user := seedUser(t, db, 8)

	tests := []struct {
		name    string
		mutate  func(u *models.User)
		wantErr error
	}{
		{name: "valid", mutate: func(u *models.User) { u.DailyWordLimit = 25; u.ReminderTime = "20:30" }},
		{name: "limit too low", mutate: func(u *models.User) { u.DailyWordLimit = 0 }, wantErr: models.ErrValidation},
		{name: "limit too high", mutate: func(u *models.User) { u.DailyWordLimit = 101 }, wantErr: models.ErrValidation},
		{name: "bad reminder time", mutate: func(u *models.User) { u.ReminderTime = "25:99" }, wantErr: models.ErrValidation},
		{name: "unknown user", mutate: func(u *models.User) { u.ID = 404 }, wantErr: models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := *user
			tt.mutate(&u)
			err := repo.UpdateSettings(ctx, &u)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}

	got, err := repo.GetByID(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, 25, got.DailyWordLimit)
	assert.Equal(t, "20:30", got.ReminderTime)
}

func TestUserRepository_Reminders(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserRepository(db)

	seedUser(t, db, 1)
	seedUser(t, db, 2)
	late := seedUser(t, db, 3)
	late.ReminderTime = "21:00"
	require.NoError(t, repo.UpdateSettings(ctx, late))
	off := seedUser(t, db, 4)
	off.ReminderEnabled = false
	require.NoError(t, repo.UpdateSettings(ctx, off))

	users, err := repo.GetUsersForReminder(ctx, "09:00", today)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, int64(2), users[1].ID)

	require.NoError(t, repo.MarkReminded(ctx, 1, today))

	users, err = repo.GetUsersForReminder(ctx, "09:00", today)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(2), users[0].ID)

	users, err = repo.GetUsersForReminder(ctx, "09:00", today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = repo.GetUsersForReminder(ctx, "21:30", today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, users, 3)

	users, err = repo.GetUsersForReminder(ctx, "08:59", today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, users)
}
