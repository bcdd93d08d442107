package repositories

import (
	"attendtrack/config"
	"attendtrack/internal/database"
	"attendtrack/internal/models"
	"attendtrack/internal/services"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestDB(t *testing.T) database.DB {
	t.Helper()

	db, err := database.New(config.Config{
		DatabaseDriver:  config.DriverSQLite,
		DatabaseDbPath:  filepath.Join(t.TempDir(), "attendtrack.db"),
		ImportBatchSize: 100,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Migrate()
	require.NoError(t, err)

	return db
}

func strPtr(s string) *string {
	return &s
}

func createEmployee(t *testing.T, repo IdentityRepository, username, name string) *models.Identity {
	t.Helper()

	identity := &models.Identity{
		Username:    username,
		Role:        models.RoleEmployee,
		DisplayName: strPtr(name),
		IsActive:    true,
	}
	require.NoError(t, repo.Create(context.Background(), identity))
	return identity
}

func TestIdentityRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentity(newTestDB(t))

	identity := createEmployee(t, repo, "ipetrov", "Ivan Petrov")
	assert.NotEmpty(t, identity.ID)
	assert.Equal(t, models.OriginProvisioned, identity.Origin)

	byID, err := repo.GetByID(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ivan Petrov", byID.Name())

	byUsername, err := repo.GetByUsername(ctx, "ipetrov")
	require.NoError(t, err)
	assert.Equal(t, identity.ID, byUsername.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrIdentityNotFound)

	_, err = repo.GetByUsername(ctx, "missing")
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestIdentityRepository_ListEmployees(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentity(newTestDB(t))

	employee := createEmployee(t, repo, "ipetrov", "Ivan Petrov")
	require.NoError(t, repo.Create(ctx, &models.Identity{Username: "admin", Role: models.RoleAdmin, IsActive: true}))
	require.NoError(t, repo.Create(ctx, &models.Identity{Username: "badge-17", Role: models.RoleEmployee, IsActive: true}))

	entries, err := repo.ListEmployees(ctx)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	ids := []string{entries[0].ID, entries[1].ID}
	assert.Contains(t, ids, employee.ID)
	for _, entry := range entries {
		if entry.ID == employee.ID {
			require.NotNil(t, entry.DisplayName)
			assert.Equal(t, "Ivan Petrov", *entry.DisplayName)
		} else {
			assert.Nil(t, entry.DisplayName)
		}
	}
}

func TestIdentityRepository_CreateImported(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentity(newTestDB(t))

	id, created, err := repo.CreateImported(ctx, "Anna Sidorova")
	require.NoError(t, err)
	assert.True(t, created)

	identity, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(identity.Username, "emp_"))
	assert.Len(t, identity.Username, len("emp_")+12)
	assert.Equal(t, models.RoleEmployee, identity.Role)
	assert.Equal(t, models.OriginImport, identity.Origin)
	assert.Empty(t, identity.PasswordHash)
	assert.True(t, identity.IsActive)

	again, created, err := repo.CreateImported(ctx, "Anna Sidorova")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)

	createEmployee(t, repo, "asidorova", "Anna Sidorova")

	imported, err := repo.CountByOrigin(ctx, models.OriginImport)
	require.NoError(t, err)
	assert.EqualValues(t, 1, imported)
}

func TestAttendanceEventRepository_InsertIgnoringConflicts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	identities := NewIdentity(db)
	repo := NewAttendanceEvent(db)

	employee := createEmployee(t, identities, "ipetrov", "Ivan Petrov")
	at := time.Date(2026, 1, 13, 8, 0, 0, 0, time.UTC)
	events := []models.NewAttendanceEvent{
		{IdentityID: employee.ID, RawName: "Ivan Petrov", EventTime: at, EventType: models.EventEntry, Checkpoint: "Door A"},
		{IdentityID: employee.ID, RawName: "Ivan  Petrov", EventTime: at, EventType: models.EventEntry, Checkpoint: "Door A"},
		{IdentityID: employee.ID, RawName: "Ivan Petrov", EventTime: at, EventType: models.EventExit, Checkpoint: "Door A"},
		{IdentityID: employee.ID, RawName: "Ivan Petrov", EventTime: at, EventType: models.EventEntry, Checkpoint: "Door B"},
	}

	inserted, err := repo.InsertIgnoringConflicts(ctx, events, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, inserted)

	inserted, err = repo.InsertIgnoringConflicts(ctx, events, 0)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	stored, err := repo.ListByIdentity(ctx, employee.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "Ivan Petrov", stored[0].RawName)

	inserted, err = repo.InsertIgnoringConflicts(ctx, nil, 10)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestAttendanceEventRepository_RollsBackWithTransaction(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	identities := NewIdentity(db)
	repo := NewAttendanceEvent(db)
	transactions := services.NewTransactionService(db)

	employee := createEmployee(t, identities, "ipetrov", "Ivan Petrov")
	boom := errors.New("boom")

	err := transactions.Execute(ctx, func(txCtx context.Context) error {
		inserted, err := repo.InsertIgnoringConflicts(txCtx, []models.NewAttendanceEvent{{
			IdentityID: employee.ID,
			RawName:    "Ivan Petrov",
			EventTime:  time.Date(2026, 1, 13, 8, 0, 0, 0, time.UTC),
			EventType:  models.EventEntry,
			Checkpoint: "Door A",
		}}, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, inserted)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestImportAuditRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	identities := NewIdentity(db)
	repo := NewImportAudit(db)

	uploader := createEmployee(t, identities, "manager", "Olga Manager")
	base := time.Date(2026, 1, 13, 9, 0, 0, 0, time.UTC)

	for i, status := range []models.ImportStatus{models.ImportSuccess, models.ImportPartial, models.ImportFailed} {
		audit := &models.ImportAudit{
			Filename:   []string{"a.xlsx", "b.xlsx", "c.csv"}[i],
			UploadedBy: &uploader.ID,
			UploadedAt: base.Add(time.Duration(i) * time.Minute),
			Status:     status,
			Logs: datatypes.NewJSONType(models.ImportLog{
				Total:    3,
				Inserted: 3 - i,
				Errors:   []string{},
			}),
		}
		require.NoError(t, repo.Create(ctx, audit))
		assert.NotZero(t, audit.ID)
	}

	page, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "c.csv", page[0].Filename)
	assert.Equal(t, "b.xlsx", page[1].Filename)
	assert.Equal(t, "Olga Manager", page[0].UploaderName())

	page, _, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a.xlsx", page[0].Filename)

	audit, err := repo.GetByID(ctx, page[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.ImportSuccess, audit.Status)
	assert.Equal(t, 3, audit.Logs.Data().Inserted)
	assert.Equal(t, "Olga Manager", audit.UploaderName())

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrImportAuditNotFound)
}
