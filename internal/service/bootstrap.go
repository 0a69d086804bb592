package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ygyuri/foodbank-management-system/internal/dto"
	"github.com/ygyuri/foodbank-management-system/internal/model"
	"github.com/ygyuri/foodbank-management-system/internal/repository"
	pkgerrors "github.com/ygyuri/foodbank-management-system/pkg/errors"
)

const minAdminPasswordLen = 8

// CreateAdmin provisions an approved admin account. Registration over HTTP never
// produces admins, so this is the only way in for the first one.
func CreateAdmin(ctx context.Context, repo *repository.Repository, name, email, password string, bcryptCost int, logger *zap.Logger) (*dto.UserResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if name == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.ErrValidation, "name and email are required")
	}
	if len(password) < minAdminPasswordLen {
		return nil, pkgerrors.New(pkgerrors.ErrValidation, "password must be at least 8 characters")
	}

	if _, err := repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := hashPassword(password, bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Status:       InitialUserStatus(model.RoleAdmin),
	}
	if err := repo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("admin created", zap.String("user_id", user.UserID), zap.String("email", email))
	resp := toUserResponse(user)
	return &resp, nil
}
