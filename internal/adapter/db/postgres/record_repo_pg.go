package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"book-catalog/internal/domain/record"
)

// RecordRepoPG implements the record Repository interface using GORM.
type RecordRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewRecordRepoPG creates a new instance of RecordRepoPG.
func NewRecordRepoPG(db *gorm.DB, log *zap.Logger) *RecordRepoPG {
	return &RecordRepoPG{db: db, log: log}
}

// RecordSchema represents the database schema for the records table.
type RecordSchema struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)"`
	Title     string     `gorm:"type:varchar(100);not null"`
	Author    string     `gorm:"type:varchar(100);not null"`
	Genre     string     `gorm:"type:varchar(50);not null"`
	OwnerID   string     `gorm:"type:varchar(36);not null;index:idx_records_owner_created,priority:1"`
	Owner     UserSchema `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"not null;index:idx_records_owner_created,priority:2"`
}

// TableName specifies the table name for the RecordSchema model.
func (RecordSchema) TableName() string {
	return "records"
}

// Create inserts a new record. The owner association is never written through.
func (r *RecordRepoPG) Create(ctx context.Context, rec *record.Record) (*record.Record, error) {
	if rec == nil {
		return nil, errors.New("record cannot be nil")
	}

	model := RecordSchema{
		ID:        rec.ID,
		Title:     rec.Title,
		Author:    rec.Author,
		Genre:     rec.Genre,
		OwnerID:   rec.OwnerID,
		CreatedAt: rec.CreatedAt,
	}
	if model.ID == "" {
		model.ID = uuid.New().String()
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		r.log.Error("failed to create record in db", zap.Error(err), zap.String("owner_id", rec.OwnerID))
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	r.log.Info("record created in db", zap.String("id", model.ID), zap.String("owner_id", model.OwnerID))

	created := model.toDomain()
	created.Owner = rec.Owner
	return created, nil
}

// GetByID retrieves a record with its owner view. It returns (nil, nil) when no record matches.
func (r *RecordRepoPG) GetByID(ctx context.Context, id string) (*record.Record, error) {
	var model RecordSchema
	if err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("record not found", zap.String("id", id))
			return nil, nil
		}
		r.log.Error("failed to get record from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return model.toDomain(), nil
}

// ListByOwner returns every record owned by ownerID, newest first.
// Records created at the same instant are ordered by ID so the order is stable.
func (r *RecordRepoPG) ListByOwner(ctx context.Context, ownerID string) ([]record.Record, error) {
	var models []RecordSchema
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&models).Error; err != nil {
		r.log.Error("failed to list records from db", zap.Error(err), zap.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	records := make([]record.Record, len(models))
	for i := range models {
		records[i] = *models[i].toDomain()
	}

	return records, nil
}

// Delete removes the record with the given id if it is owned by ownerID.
// It reports whether a row was deleted.
func (r *RecordRepoPG) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&RecordSchema{})
	if result.Error != nil {
		r.log.Error("failed to delete record in db", zap.Error(result.Error), zap.String("id", id))
		return false, fmt.Errorf("failed to delete record: %w", result.Error)
	}

	r.log.Info("record deleted in db", zap.String("id", id), zap.Int64("rows", result.RowsAffected))
	return result.RowsAffected > 0, nil
}

func (m *RecordSchema) toDomain() *record.Record {
	return &record.Record{
		ID:        m.ID,
		Title:     m.Title,
		Author:    m.Author,
		Genre:     m.Genre,
		OwnerID:   m.OwnerID,
		Owner:     record.Owner{Name: m.Owner.Name, Email: m.Owner.Email},
		CreatedAt: m.CreatedAt,
	}
}
