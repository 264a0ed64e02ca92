package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/monochra/storefront/internal/domains/orders/domain"
	"github.com/monochra/storefront/internal/domains/orders/ports"
	stockdomain "github.com/monochra/storefront/internal/domains/stock/domain"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed order repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID              int64           `gorm:"primaryKey;column:id;autoIncrement"`
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

type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id;autoIncrement"`
	OrderID   int64           `gorm:"column:order_id;index"`
	ProductID int64           `gorm:"column:product_id;index"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
	CreatedAt time.Time       `gorm:"column:created_at"`
}

func (orderItemRecord) TableName() string { return "order_items" }

type movementRecord struct {
	ID               int64     `gorm:"primaryKey;column:id;autoIncrement"`
	ProductID        int64     `gorm:"column:product_id"`
	QuantityChange   int       `gorm:"column:quantity_change"`
	Reason           string    `gorm:"column:reason;type:varchar(32)"`
	ReferenceOrderID *int64    `gorm:"column:reference_order_id"`
	Note             string    `gorm:"column:note"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (movementRecord) TableName() string { return "stock_movements" }

// GetByID fetches an order and its items.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return r.withItems(ctx, &record)
}

// GetByNumber fetches an order by its human-readable number.
func (r *Repository) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return r.withItems(ctx, &record)
}

// ListByOwner returns the owner's orders, newest first.
func (r *Repository) ListByOwner(ctx context.Context, owner domain.Owner) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_key = ?", string(owner.Kind), owner.Key).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return r.withItemsList(ctx, records)
}

// ListAll pages through every order, newest first.
func (r *Repository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return r.withItemsList(ctx, records)
}

// UpdateStatus applies one status transition under a row lock. A transition
// to cancelled restores each item's stock and appends compensating cancel
// movements in the same transaction, so the ledger replay invariant holds
// even if the process dies mid-cancellation.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, next domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var updated *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record orderRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		order := record.toDomain()
		if !order.CanTransition(next) {
			return domain.ErrInvalidTransition
		}
		if next == domain.StatusCancelled {
			var items []orderItemRecord
			if err := tx.Where("order_id = ?", id).Find(&items).Error; err != nil {
				return err
			}
			for _, item := range items {
				if err := tx.Exec(
					"UPDATE products SET stock_quantity = stock_quantity + ?, updated_at = NOW() WHERE id = ?",
					item.Quantity, item.ProductID,
				).Error; err != nil {
					return err
				}
				refID := id
				movement := movementRecord{
					ProductID:        item.ProductID,
					QuantityChange:   item.Quantity,
					Reason:           string(stockdomain.ReasonCancel),
					ReferenceOrderID: &refID,
				}
				if err := tx.Create(&movement).Error; err != nil {
					return err
				}
			}
		}
		if err := tx.Model(&orderRecord{}).
			Where("id = ?", id).
			Updates(map[string]any{"status": string(next), "updated_at": gorm.Expr("NOW()")}).Error; err != nil {
			return err
		}
		order.Status = next
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.attachItems(ctx, updated)
}

func (r *Repository) withItems(ctx context.Context, record *orderRecord) (*domain.Order, error) {
	return r.attachItems(ctx, record.toDomain())
}

func (r *Repository) withItemsList(ctx context.Context, records []orderRecord) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		order, err := r.withItems(ctx, &records[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *Repository) attachItems(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	var items []orderItemRecord
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Order("id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	order.Items = make([]domain.Item, 0, len(items))
	for _, item := range items {
		order.Items = append(order.Items, domain.Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return order, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func (rec orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:              rec.ID,
		Number:          rec.Number,
		Owner:           domain.Owner{Kind: domain.OwnerKind(rec.OwnerKind), Key: rec.OwnerKey},
		Subtotal:        rec.Subtotal,
		Tax:             rec.Tax,
		Shipping:        rec.Shipping,
		Total:           rec.Total,
		Status:          domain.Status(rec.Status),
		ShippingAddress: rec.ShippingAddress,
		BillingAddress:  rec.BillingAddress,
		CreatedAt:       rec.CreatedAt,
	}
}
