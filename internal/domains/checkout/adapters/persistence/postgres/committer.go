package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogports "github.com/monochra/storefront/internal/domains/catalog/ports"
	"github.com/monochra/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/monochra/storefront/internal/domains/orders/domain"
	stockdomain "github.com/monochra/storefront/internal/domains/stock/domain"
)

var _ ports.Committer = (*Committer)(nil)

const uniqueViolationCode = "23505"

// Committer finalizes checkouts in a single PostgreSQL transaction.
type Committer struct {
	db *gorm.DB
}

// NewCommitter wires a PostgreSQL-backed checkout committer.
func NewCommitter(db *gorm.DB) *Committer {
	return &Committer{db: db}
}

type orderRecord struct {
	ID              int64           `gorm:"primaryKey;column:id;autoIncrement"`
	Number          string          `gorm:"column:number;uniqueIndex"`
	OwnerKind       string          `gorm:"column:owner_kind"`
	OwnerKey        string          `gorm:"column:owner_key"`
	Subtotal        decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2)"`
	Tax             decimal.Decimal `gorm:"column:tax;type:numeric(12,2)"`
	Shipping        decimal.Decimal `gorm:"column:shipping;type:numeric(12,2)"`
	Total           decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	Status          string          `gorm:"column:status"`
	ShippingAddress string          `gorm:"column:shipping_address"`
	BillingAddress  string          `gorm:"column:billing_address"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id;autoIncrement"`
	OrderID   int64           `gorm:"column:order_id"`
	ProductID int64           `gorm:"column:product_id"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
	CreatedAt time.Time       `gorm:"column:created_at"`
}

func (orderItemRecord) TableName() string { return "order_items" }

type movementRecord struct {
	ID               int64     `gorm:"primaryKey;column:id;autoIncrement"`
	ProductID        int64     `gorm:"column:product_id"`
	QuantityChange   int       `gorm:"column:quantity_change"`
	Reason           string    `gorm:"column:reason"`
	ReferenceOrderID *int64    `gorm:"column:reference_order_id"`
	Note             string    `gorm:"column:note"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (movementRecord) TableName() string { return "stock_movements" }

type priceRow struct {
	ID    int64
	Price decimal.Decimal
}

// Commit runs the entire checkout write set in one transaction. Each line's
// stock decrement is guarded by `stock_quantity >= ?`, so a concurrent
// checkout that drains a product rolls this one back without overselling.
func (c *Committer) Commit(ctx context.Context, input ports.CommitInput) (*ordersdomain.Order, error) {
	if c == nil || c.db == nil {
		return nil, errors.New("postgres checkout committer not configured")
	}
	var created *ordersdomain.Order
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]int64, 0, len(input.Lines))
		for _, line := range input.Lines {
			ids = append(ids, line.ProductID)
		}
		var rows []priceRow
		if err := tx.Table("products").
			Select("id", "price").
			Where("id IN ?", ids).
			Scan(&rows).Error; err != nil {
			return err
		}
		priceByID := make(map[int64]decimal.Decimal, len(rows))
		for _, row := range rows {
			priceByID[row.ID] = row.Price
		}

		subtotal := decimal.Zero
		items := make([]ordersdomain.Item, 0, len(input.Lines))
		for _, line := range input.Lines {
			price, ok := priceByID[line.ProductID]
			if !ok {
				return catalogports.ErrNotFound
			}
			result := tx.Exec(
				"UPDATE products SET stock_quantity = stock_quantity - ?, updated_at = NOW() WHERE id = ? AND stock_quantity >= ?",
				line.Quantity, line.ProductID, line.Quantity,
			)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return c.classifyRejection(tx, line)
			}
			subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			items = append(items, ordersdomain.Item{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: price,
			})
		}
		totals := input.Policy.Price(subtotal)

		record := orderRecord{
			Number:          input.Number,
			OwnerKind:       string(input.Owner.Kind),
			OwnerKey:        input.Owner.Key,
			Subtotal:        totals.Subtotal,
			Tax:             totals.Tax,
			Shipping:        totals.Shipping,
			Total:           totals.Total,
			Status:          string(ordersdomain.StatusPending),
			ShippingAddress: input.ShippingAddress,
			BillingAddress:  input.BillingAddress,
		}
		if err := tx.Create(&record).Error; err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode {
				return ports.ErrNumberTaken
			}
			return err
		}

		for _, item := range items {
			itemRecord := orderItemRecord{
				OrderID:   record.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			}
			if err := tx.Create(&itemRecord).Error; err != nil {
				return err
			}
			refID := record.ID
			movement := movementRecord{
				ProductID:        item.ProductID,
				QuantityChange:   -item.Quantity,
				Reason:           string(stockdomain.ReasonPurchase),
				ReferenceOrderID: &refID,
				Note:             fmt.Sprintf("order %s", record.Number),
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
		}

		created = &ordersdomain.Order{
			ID:              record.ID,
			Number:          record.Number,
			Owner:           input.Owner,
			Subtotal:        totals.Subtotal,
			Tax:             totals.Tax,
			Shipping:        totals.Shipping,
			Total:           totals.Total,
			Status:          ordersdomain.StatusPending,
			ShippingAddress: record.ShippingAddress,
			BillingAddress:  record.BillingAddress,
			CreatedAt:       record.CreatedAt,
			Items:           items,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Committer) classifyRejection(tx *gorm.DB, line ports.CommitLine) error {
	var available int
	err := tx.Table("products").
		Select("stock_quantity").
		Where("id = ?", line.ProductID).
		Scan(&available).Error
	if err != nil {
		return err
	}
	return &catalogports.InsufficientStockError{
		ProductID: line.ProductID,
		Requested: line.Quantity,
		Available: available,
	}
}
