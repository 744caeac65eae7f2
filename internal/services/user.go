package services

import (
	"errors"

	"a-panel/internal/models"

	"gorm.io/gorm"
)

var ErrWrongPassword = errors.New("current password is incorrect")

type ProfileUpdate struct {
	Email    string
	Fullname string
	Position string
	Phone    string
	Bio      string
}

type UserService struct {
	authService *AuthService
}

func NewUserService(authService *AuthService) *UserService {
	return &UserService{
		authService: authService,
	}
}

// GetProfile returns a user by ID with the password hash cleared.
func (s *UserService) GetProfile(id uint) (*models.User, error) {
	var user models.User
	if err := models.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.PasswordHash = ""
	return &user, nil
}

// UpdateProfile overwrites all profile fields of the user. There are no
// partial-field semantics: fields absent from the request are written as
// empty.
func (s *UserService) UpdateProfile(id uint, update ProfileUpdate) error {
	var user models.User
	if err := models.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return models.DB.Model(&user).Updates(map[string]interface{}{
		"email":    update.Email,
		"fullname": update.Fullname,
		"position": update.Position,
		"phone":    update.Phone,
		"bio":      update.Bio,
	}).Error
}

// ChangePassword re-verifies the current password and overwrites the hash
// with one of the new password. Verification and overwrite run in one
// transaction. Rotating the hash also invalidates every outstanding
// refresh token for the user, since their signing key is derived from it.
func (s *UserService) ChangePassword(id uint, currentPassword, newPassword string) error {
	var authErr error

	txErr := models.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				authErr = ErrUserNotFound
				return nil
			}
			return err
		}

		if !s.authService.VerifyPassword(user.PasswordHash, currentPassword) {
			authErr = ErrWrongPassword
			return nil
		}

		hashedPassword, err := s.authService.HashPassword(newPassword)
		if err != nil {
			return err
		}

		return tx.Model(&user).Update("password", hashedPassword).Error
	})

	if txErr != nil {
		return txErr
	}
	return authErr
}
