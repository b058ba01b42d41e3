package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"assetgate/internal/issuance/models"
	id "assetgate/pkg/domain"
	"assetgate/pkg/platform/sentinel"
	txcontext "assetgate/pkg/platform/tx"
)

// PostgresStore persists the asset catalog in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE assets (
//	    id                  UUID PRIMARY KEY,
//	    kind                TEXT NOT NULL,
//	    name                TEXT NOT NULL,
//	    symbol              TEXT NOT NULL,
//	    decimals            SMALLINT NOT NULL,
//	    mintable            BOOLEAN NOT NULL,
//	    burnable            BOOLEAN NOT NULL,
//	    freezable           BOOLEAN NOT NULL,
//	    issuer_origin       TEXT NOT NULL,
//	    admin               TEXT NOT NULL,
//	    royalty_receiver    TEXT,
//	    royalty_basis_points INTEGER,
//	    created_at          TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execer joins an ambient transaction when the caller carries one.
func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const uniqueViolation = "23505"

func (s *PostgresStore) Create(ctx context.Context, record models.AssetRecord) error {
	query := `
		INSERT INTO assets (
			id, kind, name, symbol, decimals,
			mintable, burnable, freezable,
			issuer_origin, admin,
			royalty_receiver, royalty_basis_points, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	var royaltyReceiver *string
	var royaltyBasisPoints *int32
	if record.Royalty != nil {
		receiver := record.Royalty.Receiver.String()
		points := int32(record.Royalty.BasisPoints)
		royaltyReceiver = &receiver
		royaltyBasisPoints = &points
	}

	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(record.ID),
		record.Kind.String(),
		record.Name,
		record.Symbol,
		int16(record.Decimals),
		record.Mintable,
		record.Burnable,
		record.Freezable,
		record.IssuerOrigin,
		record.Admin.String(),
		royaltyReceiver,
		royaltyBasisPoints,
		record.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert asset record: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, assetID id.AssetID) (models.AssetRecord, error) {
	query := `
		SELECT id, kind, name, symbol, decimals,
			   mintable, burnable, freezable,
			   issuer_origin, admin,
			   royalty_receiver, royalty_basis_points, created_at
		FROM assets
		WHERE id = $1
	`

	row := s.db.QueryRowContext(ctx, query, uuid.UUID(assetID))
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AssetRecord{}, sentinel.ErrNotFound
		}
		return models.AssetRecord{}, fmt.Errorf("query asset record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.AssetRecord, error) {
	query := `
		SELECT id, kind, name, symbol, decimals,
			   mintable, burnable, freezable,
			   issuer_origin, admin,
			   royalty_receiver, royalty_basis_points, created_at
		FROM assets
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query asset records: %w", err)
	}
	defer rows.Close()

	var records []models.AssetRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate asset records: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.AssetRecord, error) {
	var (
		record             models.AssetRecord
		rawID              uuid.UUID
		kind               string
		decimals           int16
		admin              string
		royaltyReceiver    *string
		royaltyBasisPoints *int32
	)

	err := row.Scan(
		&rawID,
		&kind,
		&record.Name,
		&record.Symbol,
		&decimals,
		&record.Mintable,
		&record.Burnable,
		&record.Freezable,
		&record.IssuerOrigin,
		&admin,
		&royaltyReceiver,
		&royaltyBasisPoints,
		&record.CreatedAt,
	)
	if err != nil {
		return models.AssetRecord{}, err
	}

	record.ID = id.AssetID(rawID)
	record.Kind = id.AssetKind(kind)
	record.Decimals = uint8(decimals)
	record.Admin = id.Address(admin)
	if royaltyReceiver != nil && royaltyBasisPoints != nil {
		record.Royalty = &models.RoyaltyInfo{
			Receiver:    id.Address(*royaltyReceiver),
			BasisPoints: uint32(*royaltyBasisPoints),
		}
	}
	return record, nil
}
