package services

import (
	"fmt"
	"os"
	"testing"
	"time"

	"a-panel/internal/config"
	"a-panel/internal/logger"
	"a-panel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *config.Config {
	tmpDir := os.TempDir()
	testDBPath := fmt.Sprintf("%s/apanel_services_test_%d.db", tmpDir, time.Now().UnixNano())

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Type: "sqlite",
			SQLite: config.SQLiteConfig{
				Path: testDBPath,
			},
		},
		JWT: config.JWTConfig{
			Secret:           "test-secret-key-for-testing-only",
			ExpiresIn:        "24h",
			RefreshExpiresIn: "168h",
			Issuer:           "a-panel-test",
		},
		Security: config.SecurityConfig{
			BcryptCost: 4,
			LoginAttempts: config.LoginAttemptsConfig{
				Max:    5,
				Window: "15m",
			},
		},
	}

	require.NoError(t, models.InitDB(cfg))
	return cfg
}

func cleanupTestDB(t *testing.T, cfg *config.Config) {
	if models.DB != nil {
		sqlDB, err := models.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
		os.Remove(cfg.Database.SQLite.Path)
	}
	models.DB = nil
}

func backdateFailures(t *testing.T, ip string, age time.Duration) {
	err := models.DB.Model(&models.LoginLog{}).
		Where("ip_address = ? AND success = ?", ip, false).
		Update("login_time", time.Now().Add(-age)).Error
	require.NoError(t, err)
}

func TestPasswordHashing(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	s := NewAuthService(cfg, logger.Nop())

	hash, err := s.HashPassword("some-password")
	require.NoError(t, err)
	assert.NotEqual(t, "some-password", hash)

	assert.True(t, s.VerifyPassword(hash, "some-password"))
	assert.False(t, s.VerifyPassword(hash, "other-password"))
	assert.False(t, s.VerifyPassword("not-a-bcrypt-hash", "some-password"))
}

func TestLogin(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	s := NewAuthService(cfg, logger.Nop())
	created, err := s.CreateUser("alice", "alice-password", "user")
	require.NoError(t, err)

	t.Run("success returns user and stamps last_login", func(t *testing.T) {
		user, err := s.Login("alice", "alice-password", "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
		require.NotNil(t, user.LastLogin)

		var success int64
		require.NoError(t, models.DB.Model(&models.LoginLog{}).
			Where("user_id = ? AND success = ?", created.ID, true).
			Count(&success).Error)
		assert.Equal(t, int64(1), success)
	})

	t.Run("wrong password and unknown user return the same error", func(t *testing.T) {
		_, err1 := s.Login("alice", "wrong", "10.0.0.2")
		_, err2 := s.Login("nobody", "wrong", "10.0.0.2")

		assert.ErrorIs(t, err1, ErrInvalidCredentials)
		assert.ErrorIs(t, err2, ErrInvalidCredentials)
		assert.Equal(t, err1.Error(), err2.Error())
	})

	t.Run("unknown username logs a row without a user reference", func(t *testing.T) {
		var log models.LoginLog
		require.NoError(t, models.DB.
			Where("ip_address = ? AND user_id IS NULL", "10.0.0.2").
			First(&log).Error)
		assert.False(t, log.Success)
	})
}

func TestLoginThrottleWindow(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	s := NewAuthService(cfg, logger.Nop())
	_, err := s.CreateUser("bob", "bob-password", "user")
	require.NoError(t, err)

	const addr = "10.0.1.1"

	for i := 0; i < 5; i++ {
		_, err := s.Login("bob", "wrong", addr)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	t.Run("threshold reached", func(t *testing.T) {
		_, err := s.Login("bob", "bob-password", addr)
		assert.ErrorIs(t, err, ErrTooManyAttempts)
	})

	t.Run("throttled attempts do not extend the window", func(t *testing.T) {
		// The rejected attempt above must not have added a failure row
		var failures int64
		require.NoError(t, models.DB.Model(&models.LoginLog{}).
			Where("ip_address = ? AND success = ?", addr, false).
			Count(&failures).Error)
		assert.Equal(t, int64(5), failures)
	})

	t.Run("failures outside the window are not counted", func(t *testing.T) {
		backdateFailures(t, addr, 16*time.Minute)

		user, err := s.Login("bob", "bob-password", addr)
		require.NoError(t, err)
		assert.Equal(t, "bob", user.Username)
	})

	t.Run("successful logins never count toward the threshold", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			_, err := s.Login("bob", "bob-password", "10.0.1.2")
			require.NoError(t, err)
		}
	})
}

func TestCreateUser(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	s := NewAuthService(cfg, logger.Nop())

	user, err := s.CreateUser("carol", "carol-password", "user")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	_, err = s.CreateUser("carol", "other-password", "admin")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestCreateDefaultUser(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	cfg.DefaultUser = config.DefaultUserConfig{
		Username: "admin",
		Password: "@Phucadmin",
		Role:     "admin",
		Email:    "admin@example.com",
		Fullname: "Default Admin",
	}

	s := NewAuthService(cfg, logger.Nop())
	require.NoError(t, s.CreateDefaultUser())

	user, err := s.Login("admin", "@Phucadmin", "10.0.2.1")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)
	assert.Equal(t, "admin@example.com", user.Email)

	// Idempotent when users already exist
	require.NoError(t, s.CreateDefaultUser())
	var count int64
	require.NoError(t, models.DB.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestChangePassword(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	authService := NewAuthService(cfg, logger.Nop())
	userService := NewUserService(authService)
	user, err := authService.CreateUser("dave", "old-password", "user")
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := userService.ChangePassword(user.ID, "bad", "new-password")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("missing user", func(t *testing.T) {
		err := userService.ChangePassword(99999, "old-password", "new-password")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, userService.ChangePassword(user.ID, "old-password", "new-password"))

		_, err := authService.Login("dave", "old-password", "10.0.3.1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = authService.Login("dave", "new-password", "10.0.3.2")
		assert.NoError(t, err)
	})
}

func TestUpdateProfile(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	authService := NewAuthService(cfg, logger.Nop())
	userService := NewUserService(authService)
	user, err := authService.CreateUser("erin", "erin-password", "user")
	require.NoError(t, err)

	update := ProfileUpdate{
		Email:    "erin@example.com",
		Fullname: "Erin Example",
		Position: "Analyst",
		Phone:    "0987654321",
		Bio:      "bio text",
	}
	require.NoError(t, userService.UpdateProfile(user.ID, update))

	got, err := userService.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, update.Email, got.Email)
	assert.Equal(t, update.Fullname, got.Fullname)
	assert.Equal(t, update.Position, got.Position)
	assert.Equal(t, update.Phone, got.Phone)
	assert.Equal(t, update.Bio, got.Bio)
	assert.Empty(t, got.PasswordHash)

	t.Run("missing user", func(t *testing.T) {
		err := userService.UpdateProfile(99999, update)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("empty fields overwrite", func(t *testing.T) {
		require.NoError(t, userService.UpdateProfile(user.ID, ProfileUpdate{Email: "erin2@example.com"}))

		got, err := userService.GetProfile(user.ID)
		require.NoError(t, err)
		assert.Equal(t, "erin2@example.com", got.Email)
		assert.Empty(t, got.Fullname)
		assert.Empty(t, got.Bio)
	})
}
