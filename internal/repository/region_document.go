package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mapleship/regions-backend/internal/domain"
)

// docKey matches the fixed key the clients use for the region aggregate.
const docKey = "unified_region_data"

type regionDocumentRepository struct {
	db *sqlx.DB
}

func newRegionDocumentRepository(db *sqlx.DB) *regionDocumentRepository {
	return &regionDocumentRepository{
		db: db,
	}
}

func (r *regionDocumentRepository) Get(ctx context.Context) (domain.RegionMap, error) {
	const query = `
	SELECT payload FROM region_document WHERE doc_key = ?;
	`
	var payload []byte
	if err := r.db.GetContext(ctx, &payload, query, docKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select region document failed: %w", err)
	}

	var regions domain.RegionMap
	if err := json.Unmarshal(payload, &regions); err != nil {
		return nil, fmt.Errorf("decode region document failed: %w", err)
	}
	return regions, nil
}

func (r *regionDocumentRepository) Replace(ctx context.Context, regions domain.RegionMap) error {
	const query = `
	INSERT INTO region_document (doc_key, payload, version)
	VALUES (?, ?, 1)
	ON DUPLICATE KEY UPDATE payload = VALUES(payload), version = version + 1;
	`
	payload, err := json.Marshal(regions)
	if err != nil {
		return fmt.Errorf("encode region document failed: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, docKey, payload); err != nil {
		return fmt.Errorf("upsert region document failed: %w", err)
	}
	return nil
}

func (r *regionDocumentRepository) PutRegion(ctx context.Context, id string, region *domain.Region) error {
	return r.mutate(ctx, func(regions domain.RegionMap) error {
		regions[id] = region
		return nil
	})
}

func (r *regionDocumentRepository) DeleteRegion(ctx context.Context, id string) error {
	return r.mutate(ctx, func(regions domain.RegionMap) error {
		if _, ok := regions[id]; !ok {
			return domain.ErrNotFound
		}
		delete(regions, id)
		return nil
	})
}

// mutate rewrites the whole document inside a transaction, locking the row
// so concurrent single-region edits cannot trample each other.
func (r *regionDocumentRepository) mutate(ctx context.Context, fn func(regions domain.RegionMap) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin region document tx failed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const selectQuery = `
	SELECT payload FROM region_document WHERE doc_key = ? FOR UPDATE;
	`
	regions := domain.RegionMap{}
	var payload []byte
	err = tx.GetContext(ctx, &payload, selectQuery, docKey)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// first write creates the document
	case err != nil:
		return fmt.Errorf("select region document failed: %w", err)
	default:
		if err := json.Unmarshal(payload, &regions); err != nil {
			return fmt.Errorf("decode region document failed: %w", err)
		}
	}

	if err := fn(regions); err != nil {
		return err
	}

	updated, err := json.Marshal(regions)
	if err != nil {
		return fmt.Errorf("encode region document failed: %w", err)
	}

	const upsertQuery = `
	INSERT INTO region_document (doc_key, payload, version)
	VALUES (?, ?, 1)
	ON DUPLICATE KEY UPDATE payload = VALUES(payload), version = version + 1;
	`
	if _, err := tx.ExecContext(ctx, upsertQuery, docKey, updated); err != nil {
		return fmt.Errorf("upsert region document failed: %w", err)
	}
	return tx.Commit()
}
