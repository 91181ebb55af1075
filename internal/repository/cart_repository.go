package repository

import (
	"errors"
	"time"

	"github.com/bitekart/bitekart/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
// 每用户一条记录，整单读写
type CartRepository interface {
	GetByUser(userID uint) (*models.Cart, error)
	Save(cart *models.Cart) error
	DeleteByUser(userID uint) error
	DeleteIdleBefore(cutoff time.Time) (int64, error)
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// GetByUser 读取用户购物车记录，不存在返回 nil
func (r *GormCartRepository) GetByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Save 单语句 upsert 整条购物车记录
// 存储中只会存在变更前或变更后的完整状态，不出现半写
func (r *GormCartRepository) Save(cart *models.Cart) error {
	if cart == nil {
		return nil
	}
	cart.UpdatedAt = time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = cart.UpdatedAt
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"lines", "total", "revision", "updated_at",
		}),
	}).Create(cart).Error
}

// DeleteByUser 删除用户购物车记录
func (r *GormCartRepository) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Cart{}).Error
}

// DeleteIdleBefore 清理指定时间前未更新的购物车记录
func (r *GormCartRepository) DeleteIdleBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("updated_at < ?", cutoff).Delete(&models.Cart{})
	return result.RowsAffected, result.Error
}
