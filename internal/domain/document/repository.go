package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Save inserts d. On an id conflict only seen_by_user is rewritten, which
// keeps owner, file name and upload time immutable.
func (r *repository) Save(ctx context.Context, d *Document) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"seen_by_user"}),
		}).
		Create(d).Error
	if err != nil {
		return fmt.Errorf("save document %s: %w", d.ID, describe(err))
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*Document, error) {
	var d Document
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find document %s: %w", id, describe(err))
	}
	return &d, nil
}

func (r *repository) FindByOwner(ctx context.Context, owner string) ([]*Document, error) {
	docs := make([]*Document, 0)
	err := r.db.WithContext(ctx).Where("username = ?", owner).Order("upload_time DESC").Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("find documents of %s: %w", owner, describe(err))
	}
	return docs, nil
}

func (r *repository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&Document{}).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list document ids: %w", describe(err))
	}
	return ids, nil
}

// describe adds the SQLSTATE to postgres errors so logs show why a write was rejected.
func describe(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("postgres %s %s: %w", pgErr.Code, pgErr.ConstraintName, err)
	}
	return err
}
