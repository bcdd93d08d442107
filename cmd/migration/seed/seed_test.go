package seed

import (
	"attendtrack/config"
	"attendtrack/internal/database"
	"attendtrack/internal/logger"
	"path/filepath"
	"testing"

	. "attendtrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeed(t *testing.T) {
	cfg := config.Default()
	cfg.DatabaseDbPath = filepath.Join(t.TempDir(), "seed.db")

	db, err := database.New(cfg)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Migrate()
	require.NoError(t, err)

	created, err := Seed(db.SQL, cfg, logger.New("test"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = Seed(db.SQL, cfg, logger.New("test"))
	require.NoError(t, err)
	assert.False(t, created)

	var admin Identity
	require.NoError(t, db.SQL.First(&admin, "username = ?", cfg.SeedAdminLogin).Error)
	assert.Equal(t, RoleAdmin, admin.Role)
	assert.Equal(t, cfg.SeedAdminName, admin.Name())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(cfg.SeedAdminPassword)))

	var count int64
	require.NoError(t, db.SQL.Model(&Identity{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSeed_RequiresCredentials(t *testing.T) {
	cfg := config.Default()
	cfg.SeedAdminPassword = ""

	_, err := Seed(nil, cfg, logger.New("test"))
	assert.Error(t, err)
}
