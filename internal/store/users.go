package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/models"
	apperrors "github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/pkg/errors"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return errors.Wrap(err, "store.CreateUser.checkEmail")
	}
	if count > 0 {
		return apperrors.ErrEmailTaken
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrUsernameTaken
		}
		return errors.Wrap(err, "store.CreateUser.insert")
	}
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "store.UserByEmail.find")
	}
	return &user, nil
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "store.UserByID.find")
	}
	return &user, nil
}
