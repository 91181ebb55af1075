package models

import (
	"errors"
	"strings"

	"github.com/bitekart/bitekart/internal/constants"
	"github.com/bitekart/bitekart/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitDefaultSuperAdmin 初始化默认超级管理员账号
// 返回账号 ID，角色授予由调用方通过授权服务完成
func InitDefaultSuperAdmin(email, password string) (uint, error) {
	if email == "" {
		email = "admin@bitekart.local"
	}

	var existing User
	err := DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	user := User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		DisplayName:  "Administrator",
		Status:       constants.UserStatusActive,
	}
	if err := DB.Create(&user).Error; err != nil {
		return 0, err
	}

	if password == "admin123" {
		logger.Warnw("default_super_admin_created_with_default_password", "email", email)
	} else {
		logger.Warnw("default_super_admin_created", "email", email, "password_hidden", true)
	}
	return user.ID, nil
}
