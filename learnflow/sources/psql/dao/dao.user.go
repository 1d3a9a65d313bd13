package dao

import (
	"context"

	"learnflow/learnflow/sources/psql/models"

	"gorm.io/gorm"
)

type UserDAO struct {
	DB *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{DB: db}
}

// GetUserByID omits the password column; only the credentials lookup
// below reads it.
func (dao *UserDAO) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).Omit("password").First(&user, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).Omit("password").Where("email = ?", email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmailWithPassword is the single code path that selects the
// password hash, for login comparison.
func (dao *UserDAO) GetUserByEmailWithPassword(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) CreateUser(ctx context.Context, user *models.User) error {
	return dao.DB.WithContext(ctx).Create(user).Error
}

// UpdateSettings writes only the settings columns; a full-row Save here
// would clobber the password hash omitted on read.
func (dao *UserDAO) UpdateSettings(ctx context.Context, id int, s models.Settings) error {
	return dao.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"settings_theme":         s.Theme,
			"settings_notifications": s.Notifications,
		}).Error
}

func (dao *UserDAO) TouchLastActive(ctx context.Context, id int) error {
	return dao.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("last_active", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// DeleteUserCascade removes the user's notes and then the user inside a
// single transaction, so a failure leaves both intact.
func (dao *UserDAO) DeleteUserCascade(ctx context.Context, id int) (bool, error) {
	found := false
	err := dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Note{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		return nil
	})
	return found, err
}
