package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/monochra/storefront/internal/domains/carts/domain"
	"github.com/monochra/storefront/internal/domains/carts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists cart lines in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed cart repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// lineRecord maps a cart line to a relational row keyed by (owner, product).
type lineRecord struct {
	OwnerKind string          `gorm:"primaryKey;column:owner_kind;type:varchar(16)"`
	OwnerKey  string          `gorm:"primaryKey;column:owner_key;size:128"`
	ProductID int64           `gorm:"primaryKey;column:product_id"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (lineRecord) TableName() string { return "cart_lines" }

func (r *Repository) Upsert(ctx context.Context, line domain.Line) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	record := toRecord(line)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner_kind"}, {Name: "owner_key"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   record.Quantity,
				"unit_price": record.UnitPrice,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
}

func (r *Repository) Get(ctx context.Context, owner domain.Owner, productID int64) (*domain.Line, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record lineRecord
	if err := r.db.WithContext(ctx).
		First(&record, "owner_kind = ? AND owner_key = ? AND product_id = ?", string(owner.Kind), owner.Key, productID).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrLineNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Remove(ctx context.Context, owner domain.Owner, productID int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_key = ? AND product_id = ?", string(owner.Kind), owner.Key, productID).
		Delete(&lineRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrLineNotFound
	}
	return nil
}

// Clear deletes every line for the owner. Safe to call repeatedly.
func (r *Repository) Clear(ctx context.Context, owner domain.Owner) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_key = ?", string(owner.Kind), owner.Key).
		Delete(&lineRecord{}).Error
}

func (r *Repository) List(ctx context.Context, owner domain.Owner) ([]domain.Line, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []lineRecord
	if err := r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_key = ?", string(owner.Kind), owner.Key).
		Order("product_id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	lines := make([]domain.Line, 0, len(records))
	for i := range records {
		lines = append(lines, *records[i].toDomain())
	}
	return lines, nil
}

// Merge folds the session cart into the user cart, summing quantities per
// product, then deletes the session lines. Both statements run in one
// transaction so a re-run after completion finds nothing to move.
func (r *Repository) Merge(ctx context.Context, from, to domain.Owner) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`INSERT INTO cart_lines (owner_kind, owner_key, product_id, quantity, unit_price, created_at, updated_at)
			 SELECT ?, ?, product_id, quantity, unit_price, NOW(), NOW()
			 FROM cart_lines WHERE owner_kind = ? AND owner_key = ?
			 ON CONFLICT (owner_kind, owner_key, product_id)
			 DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity, updated_at = NOW()`,
			string(to.Kind), to.Key, string(from.Kind), from.Key,
		).Error; err != nil {
			return err
		}
		return tx.Exec(
			"DELETE FROM cart_lines WHERE owner_kind = ? AND owner_key = ?",
			string(from.Kind), from.Key,
		).Error
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres cart repository not configured")
	}
	return nil
}

func toRecord(line domain.Line) lineRecord {
	return lineRecord{
		OwnerKind: string(line.Owner.Kind),
		OwnerKey:  line.Owner.Key,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPriceSnapshot,
	}
}

func (r lineRecord) toDomain() *domain.Line {
	return &domain.Line{
		Owner:             domain.Owner{Kind: domain.OwnerKind(r.OwnerKind), Key: r.OwnerKey},
		ProductID:         r.ProductID,
		Quantity:          r.Quantity,
		UnitPriceSnapshot: r.UnitPrice,
	}
}
