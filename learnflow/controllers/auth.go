package controllers

import (
	"context"
	"errors"
	"regexp"
	"time"

	"learnflow/learnflow/apperr"
	"learnflow/learnflow/config"
	"learnflow/learnflow/sources/psql/dao"
	"learnflow/learnflow/sources/psql/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

var emailRe = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

type AuthController struct {
	userDAO *dao.UserDAO
	cfg     config.Config
}

func NewAuthController(userDAO *dao.UserDAO, cfg config.Config) *AuthController {
	return &AuthController{
		userDAO: userDAO,
		cfg:     cfg,
	}
}

func (c *AuthController) Register(ctx context.Context, email, password string) (*models.User, string, error) {
	if !emailRe.MatchString(email) {
		return nil, "", apperr.New(apperr.Validation, "Invalid email format")
	}
	if len(password) < 8 {
		return nil, "", apperr.New(apperr.Validation, "Password must be at least 8 characters")
	}

	existing, err := c.userDAO.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	if existing != nil {
		return nil, "", apperr.New(apperr.DuplicateEmail, "Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "Internal server error", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Role:     models.RoleStudent,
		Settings: models.Settings{Theme: "light", Notifications: true},
	}
	if err := c.userDAO.CreateUser(ctx, user); err != nil {
		// Unique-index race between the lookup above and this insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperr.New(apperr.DuplicateEmail, "Email already registered")
		}
		return nil, "", apperr.Wrap(apperr.Internal, "Internal server error", err)
	}

	token, err := c.signToken(user.ID)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	sanitized := user.Sanitized()
	return &sanitized, token, nil
}

func (c *AuthController) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := c.userDAO.GetUserByEmailWithPassword(ctx, email)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	if user == nil {
		return nil, "", apperr.New(apperr.Unauthenticated, "Invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", apperr.New(apperr.Unauthenticated, "Invalid credentials")
	}

	if err := c.userDAO.TouchLastActive(ctx, user.ID); err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "Internal server error", err)
	}

	token, err := c.signToken(user.ID)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	sanitized := user.Sanitized()
	return &sanitized, token, nil
}

func (c *AuthController) Me(ctx context.Context, userID int) (*models.User, error) {
	user, err := c.userDAO.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// UpdateSettings patches the caller's settings; nil fields are left as-is.
func (c *AuthController) UpdateSettings(ctx context.Context, userID int, theme *string, notifications *bool) (*models.User, error) {
	user, err := c.userDAO.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	if theme != nil {
		user.Settings.Theme = *theme
	}
	if notifications != nil {
		user.Settings.Notifications = *notifications
	}
	if err := c.userDAO.UpdateSettings(ctx, userID, user.Settings); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// DeleteAccount removes the user and cascades to every note they own.
func (c *AuthController) DeleteAccount(ctx context.Context, userID int) error {
	found, err := c.userDAO.DeleteUserCascade(ctx, userID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	if !found {
		return apperr.New(apperr.NotFound, "User not found")
	}
	return nil
}

func (c *AuthController) signToken(userID int) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(c.cfg.JWTExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.JWTSecret))
}
