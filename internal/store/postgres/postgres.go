// Package postgres stores documents as JSONB rows in a single table.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/learnhub-service/internal/events"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
)

// DocumentRow is one document. Collection holds the full path, so
// sub-collection documents live in the same table.
type DocumentRow struct {
	Collection string            `gorm:"primaryKey;size:512"`
	ID         string            `gorm:"primaryKey;size:128"`
	Data       datatypes.JSONMap `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time         `gorm:"index"`
	UpdatedAt  time.Time
}

func (DocumentRow) TableName() string {
	return "documents"
}

// Store implements store.DocumentStore on Postgres through gorm
type Store struct {
	db     *gorm.DB
	notify *store.Notifier
	logger *slog.Logger
}

// New migrates the documents table and returns the store. feed may be nil.
func New(db *gorm.DB, feed events.Feed, logger *slog.Logger) (*Store, error) {
	if err := db.AutoMigrate(&DocumentRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}

	notifier, err := store.NewNotifier(feed, logger)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		notify: notifier,
		logger: logger,
	}, nil
}

func (s *Store) List(ctx context.Context, collection string, q store.Query) ([]store.Document, error) {
	query := s.db.WithContext(ctx).Where("collection = ?", collection)

	// equality filters are pushed down as JSONB containment; ordering is done
	// in process so mixed timestamp encodings compare chronologically
	if len(q.Where) > 0 {
		containment := make(map[string]any, len(q.Where))
		for _, f := range q.Where {
			containment[f.Field] = f.Value
		}
		payload, err := json.Marshal(containment)
		if err != nil {
			return nil, fmt.Errorf("failed to encode filter: %w", err)
		}
		query = query.Where("data @> ?::jsonb", string(payload))
	}

	var rows []DocumentRow
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}

	docs := make([]store.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.document())
	}

	q.Where = nil
	return store.Run(docs, q), nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	var row DocumentRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", store.ErrNotFound, collection, id)
		}
		return nil, translate(err)
	}
	doc := row.document()
	return &doc, nil
}

func (s *Store) Create(ctx context.Context, collection string, data store.Data) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	row := DocumentRow{
		Collection: collection,
		ID:         id,
		Data:       datatypes.JSONMap(store.ResolveData(data, now)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", translate(err)
	}

	s.notify.Publish(ctx, collection, id, events.ChangeCreated)
	return id, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data store.Data) error {
	now := time.Now().UTC()
	row := DocumentRow{
		Collection: collection,
		ID:         id,
		Data:       datatypes.JSONMap(store.ResolveData(data, now)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return translate(err)
	}

	s.notify.Publish(ctx, collection, id, events.ChangeUpdated)
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, patch store.Patch) error {
	_, err := s.Transform(ctx, collection, id, func(current store.Data) (store.Data, error) {
		return store.ApplyPatch(current, patch, time.Now().UTC()), nil
	})
	return err
}

// Transform locks the row for the duration of fn
func (s *Store) Transform(ctx context.Context, collection, id string, fn store.Mutator) (*store.Document, error) {
	var result store.Document

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row DocumentRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection = ? AND id = ?", collection, id).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s/%s", store.ErrNotFound, collection, id)
			}
			return translate(err)
		}

		next, err := fn(store.CloneData(row.Data))
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		row.Data = datatypes.JSONMap(store.ResolveData(next, now))
		row.UpdatedAt = now

		if err := tx.Model(&DocumentRow{}).
			Where("collection = ? AND id = ?", collection, id).
			Updates(map[string]any{"data": row.Data, "updated_at": now}).Error; err != nil {
			return translate(err)
		}

		result = row.document()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.Publish(ctx, collection, id, events.ChangeUpdated)
	return &result, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	result := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&DocumentRow{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected > 0 {
		s.notify.Publish(ctx, collection, id, events.ChangeDeleted)
	}
	return nil
}

func (s *Store) Subscribe(ctx context.Context, collection string, q store.Query) (<-chan store.Snapshot, error) {
	return s.notify.Watch(ctx, collection, "", func(ctx context.Context) ([]store.Document, error) {
		return s.List(ctx, collection, q)
	})
}

func (s *Store) SubscribeDoc(ctx context.Context, collection, id string) (<-chan store.Snapshot, error) {
	return s.notify.Watch(ctx, collection, id, func(ctx context.Context) ([]store.Document, error) {
		doc, err := s.Get(ctx, collection, id)
		if err != nil {
			if store.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return []store.Document{*doc}, nil
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	s.notify.Close()
	return nil
}

func (r DocumentRow) document() store.Document {
	return store.Document{
		ID:         r.ID,
		Collection: r.Collection,
		Data:       store.Data(r.Data),
		CreateTime: r.CreatedAt,
		UpdateTime: r.UpdatedAt,
	}
}

// insufficient_privilege
const pgPermissionDenied = "42501"

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgPermissionDenied {
		return fmt.Errorf("%w: %s", store.ErrPermission, pgErr.Message)
	}
	return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
}
