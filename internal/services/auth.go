package services

import (
	"errors"
	"time"

	"a-panel/internal/config"
	"a-panel/internal/logger"
	"a-panel/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)

// dummyHash is a bcrypt hash compared against when the submitted username
// does not exist, so the unknown-user path costs roughly the same as a
// wrong-password verification.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type AuthService struct {
	cfg *config.Config
	log *logger.Logger
}

func NewAuthService(cfg *config.Config, log *logger.Logger) *AuthService {
	return &AuthService{cfg: cfg, log: log}
}

// HashPassword hashes a password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.Security.BcryptCost)
	return string(bytes), err
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// Login runs the full login sequence for one attempt from ipAddress:
// throttle check, user lookup, password verification, attempt logging and
// last-login stamping. The whole sequence runs in one transaction so the
// throttle count and the attempt log cannot race each other.
//
// Returns the authenticated user, or ErrTooManyAttempts / ErrInvalidCredentials.
// Failed attempts are still committed; only storage errors roll back.
func (s *AuthService) Login(username, password, ipAddress string) (*models.User, error) {
	var user *models.User
	var authErr error

	txErr := models.DB.Transaction(func(tx *gorm.DB) error {
		since := time.Now().Add(-s.cfg.AttemptWindow())

		var failures int64
		if err := tx.Model(&models.LoginLog{}).
			Where("ip_address = ? AND success = ? AND login_time > ?", ipAddress, false, since).
			Count(&failures).Error; err != nil {
			return err
		}

		if failures >= int64(s.cfg.MaxLoginAttempts()) {
			authErr = ErrTooManyAttempts
			return nil
		}

		var u models.User
		if err := tx.Where("username = ?", username).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Burn a comparison so this path is not measurably
				// faster than a wrong password.
				s.VerifyPassword(dummyHash, password)
				authErr = ErrInvalidCredentials
				return tx.Create(&models.LoginLog{IPAddress: ipAddress, Success: false}).Error
			}
			return err
		}

		if !s.VerifyPassword(u.PasswordHash, password) {
			authErr = ErrInvalidCredentials
			return tx.Create(&models.LoginLog{UserID: &u.ID, IPAddress: ipAddress, Success: false}).Error
		}

		now := time.Now()
		if err := tx.Model(&models.User{}).Where("id = ?", u.ID).Update("last_login", now).Error; err != nil {
			return err
		}
		u.LastLogin = &now

		if err := tx.Create(&models.LoginLog{UserID: &u.ID, IPAddress: ipAddress, Success: true}).Error; err != nil {
			return err
		}

		user = &u
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}
	if authErr != nil {
		return nil, authErr
	}

	return user, nil
}

// RecentLoginLogs returns the most recent login attempts, newest first.
func (s *AuthService) RecentLoginLogs(limit int) ([]models.LoginLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []models.LoginLog
	if err := models.DB.Order("id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// CreateUser creates a new user
func (s *AuthService) CreateUser(username, password, role string) (*models.User, error) {
	// Check if user exists
	var existingUser models.User
	if err := models.DB.Where("username = ?", username).First(&existingUser).Error; err == nil {
		return nil, ErrUserExists
	}

	// Hash password
	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	// Create user
	user := &models.User{
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         role,
	}

	if err := models.DB.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// CreateDefaultUser seeds the admin account from config if the users table
// is empty.
func (s *AuthService) CreateDefaultUser() error {
	var count int64
	if err := models.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := s.cfg.DefaultUser
	hashedPassword, err := s.HashPassword(seed.Password)
	if err != nil {
		return err
	}

	user := &models.User{
		Username:     seed.Username,
		PasswordHash: hashedPassword,
		Email:        seed.Email,
		Fullname:     seed.Fullname,
		Position:     seed.Position,
		Phone:        seed.Phone,
		Bio:          seed.Bio,
		Role:         seed.Role,
	}

	if err := models.DB.Create(user).Error; err != nil {
		return err
	}

	s.log.Info().Str("username", seed.Username).Msg("default user created")
	return nil
}
