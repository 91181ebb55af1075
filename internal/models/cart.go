package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CartLine 购物车条目
// 数量恒为正整数，数量归零的条目直接从序列中移除
type CartLine struct {
	ProductID uint  `json:"product_id"` // 商品ID
	Quantity  int   `json:"quantity"`   // 数量（> 0）
	UnitPrice Money `json:"unit_price"` // 下单时单价
}

// CartLines 条目序列（保持加入顺序），整体以 JSON 序列化落库
type CartLines []CartLine

// Value 实现 driver.Valuer 接口
func (l CartLines) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(CartLines{})
	}
	return json.Marshal(l)
}

// Scan 实现 sql.Scanner 接口
func (l *CartLines) Scan(value interface{}) error {
	if value == nil {
		*l = CartLines{}
		return nil
	}
	bytes, ok := normalizeJSONBytes(value)
	if !ok {
		*l = CartLines{}
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Cart 购物车持久化记录
// 每用户固定一条记录（storage key = user_id 唯一索引），整单读写，
// 单行 upsert 保证存储中只会出现变更前或变更后的完整状态
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`              // 归属用户
	Lines     CartLines `gorm:"type:json;not null" json:"items"`                  // 条目序列
	Total     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total"` // 条目合计（每次变更重算）
	Revision  uint64    `gorm:"not null;default:0" json:"revision"`               // 变更版本号（驱动摘要重算）
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// LineIndex 返回商品所在下标，不存在返回 -1
func (c *Cart) LineIndex(productID uint) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// ComputeTotal 按条目重算合计
func (c *Cart) ComputeTotal() Money {
	sum := decimal.Zero
	for i := range c.Lines {
		line := c.Lines[i]
		sum = sum.Add(line.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return NewMoneyFromDecimal(sum)
}

// ItemCount 返回数量合计
func (c *Cart) ItemCount() int {
	count := 0
	for i := range c.Lines {
		count += c.Lines[i].Quantity
	}
	return count
}

// IsEmpty 判断购物车是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// EmptyCart 构造空购物车
func EmptyCart(userID uint) *Cart {
	return &Cart{
		UserID: userID,
		Lines:  CartLines{},
		Total:  NewMoneyFromDecimal(decimal.Zero),
	}
}
