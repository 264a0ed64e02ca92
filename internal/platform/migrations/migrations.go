package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&cartLineRecord{},
		&guestSessionRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&stockMovementRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID            int64           `gorm:"primaryKey;column:id"`
	SKU           string          `gorm:"column:sku;uniqueIndex"`
	Name          string          `gorm:"column:name"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	StockQuantity int             `gorm:"column:stock_quantity;index"`
	Status        string          `gorm:"column:status;type:varchar(16)"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Cart line schema mirrors the carts Postgres adapter.
type cartLineRecord struct {
	OwnerKind string          `gorm:"primaryKey;column:owner_kind;type:varchar(16)"`
	OwnerKey  string          `gorm:"primaryKey;column:owner_key;size:128"`
	ProductID int64           `gorm:"primaryKey;column:product_id"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (cartLineRecord) TableName() string { return "cart_lines" }

// Guest session schema mirrors the carts session store.
type guestSessionRecord struct {
	Key       string    `gorm:"primaryKey;column:key;size:128"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (guestSessionRecord) TableName() string { return "guest_sessions" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	Number          string          `gorm:"column:number;uniqueIndex"`
	OwnerKind       string          `gorm:"column:owner_kind;type:varchar(16);index:idx_orders_owner"`
	OwnerKey        string          `gorm:"column:owner_key;size:128;index:idx_orders_owner"`
	Subtotal        decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2)"`
	Tax             decimal.Decimal `gorm:"column:tax;type:numeric(12,2)"`
	Shipping        decimal.Decimal `gorm:"column:shipping;type:numeric(12,2)"`
	Total           decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	Status          string          `gorm:"column:status;type:varchar(32);index"`
	ShippingAddress string          `gorm:"column:shipping_address"`
	BillingAddress  string          `gorm:"column:billing_address"`
	CreatedAt       time.Time       `gorm:"column:created_at;index"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Order item schema mirrors the orders Postgres adapter.
type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id;index"`
	ProductID int64           `gorm:"column:product_id;index"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
	CreatedAt time.Time       `gorm:"column:created_at"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Stock movement schema mirrors the stock Postgres adapter. Rows are
// insert-only.
type stockMovementRecord struct {
	ID               int64     `gorm:"primaryKey;column:id"`
	ProductID        int64     `gorm:"column:product_id;index"`
	QuantityChange   int       `gorm:"column:quantity_change"`
	Reason           string    `gorm:"column:reason;type:varchar(32)"`
	ReferenceOrderID *int64    `gorm:"column:reference_order_id;index"`
	Note             string    `gorm:"column:note"`
	CreatedAt        time.Time `gorm:"column:created_at;index"`
}

func (stockMovementRecord) TableName() string { return "stock_movements" }
