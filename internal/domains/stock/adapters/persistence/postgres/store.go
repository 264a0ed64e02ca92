package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	catalogports "github.com/monochra/storefront/internal/domains/catalog/ports"
	"github.com/monochra/storefront/internal/domains/stock/domain"
	"github.com/monochra/storefront/internal/domains/stock/ports"
)

var _ ports.Store = (*Store)(nil)

// Store persists the movement ledger in PostgreSQL using GORM.
type Store struct {
	db *gorm.DB
}

// NewStore wires a PostgreSQL-backed ledger. Caller manages DB lifecycle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// movementRecord maps a ledger entry to a relational row. Rows are insert-only.
type movementRecord struct {
	ID               int64     `gorm:"primaryKey;column:id;autoIncrement"`
	ProductID        int64     `gorm:"column:product_id;index"`
	QuantityChange   int       `gorm:"column:quantity_change"`
	Reason           string    `gorm:"column:reason;type:varchar(32);index"`
	ReferenceOrderID *int64    `gorm:"column:reference_order_id"`
	Note             string    `gorm:"column:note"`
	CreatedAt        time.Time `gorm:"column:created_at;index"`
}

func (movementRecord) TableName() string { return "stock_movements" }

// Move shifts the product quantity and appends the ledger entry in one
// transaction. The quantity change is a conditional update so a concurrent
// writer can never drive stock below zero.
func (s *Store) Move(ctx context.Context, movement *domain.Movement) (*domain.Movement, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	if movement == nil {
		return nil, errors.New("movement is nil")
	}
	if err := movement.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(movement)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(
			"UPDATE products SET stock_quantity = stock_quantity + ?, updated_at = NOW() WHERE id = ? AND stock_quantity + ? >= 0",
			movement.QuantityChange, movement.ProductID, movement.QuantityChange,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return s.classifyRejection(tx, movement)
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// History returns a product's entries, oldest first.
func (s *Store) History(ctx context.Context, productID int64) ([]*domain.Movement, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var records []movementRecord
	if err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	movements := make([]*domain.Movement, 0, len(records))
	for i := range records {
		movements = append(movements, records[i].toDomain())
	}
	return movements, nil
}

// ReplayBalance sums the signed quantity changes for a product.
func (s *Store) ReplayBalance(ctx context.Context, productID int64) (int, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	var balance *int
	if err := s.db.WithContext(ctx).
		Model(&movementRecord{}).
		Select("SUM(quantity_change)").
		Where("product_id = ?", productID).
		Scan(&balance).Error; err != nil {
		return 0, err
	}
	if balance == nil {
		return 0, nil
	}
	return *balance, nil
}

// classifyRejection distinguishes a missing product from an insufficient
// balance after a conditional update matched no rows.
func (s *Store) classifyRejection(tx *gorm.DB, movement *domain.Movement) error {
	var available int
	result := tx.Raw("SELECT stock_quantity FROM products WHERE id = ?", movement.ProductID).Scan(&available)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return catalogports.ErrNotFound
	}
	return &catalogports.InsufficientStockError{
		ProductID: movement.ProductID,
		Requested: -movement.QuantityChange,
		Available: available,
	}
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres stock store not configured")
	}
	return nil
}

func toRecord(movement *domain.Movement) movementRecord {
	return movementRecord{
		ProductID:        movement.ProductID,
		QuantityChange:   movement.QuantityChange,
		Reason:           string(movement.Reason),
		ReferenceOrderID: movement.ReferenceOrderID,
		Note:             movement.Note,
	}
}

func (r movementRecord) toDomain() *domain.Movement {
	return &domain.Movement{
		ID:               r.ID,
		ProductID:        r.ProductID,
		QuantityChange:   r.QuantityChange,
		Reason:           domain.Reason(r.Reason),
		ReferenceOrderID: r.ReferenceOrderID,
		Note:             r.Note,
		CreatedAt:        r.CreatedAt,
	}
}
