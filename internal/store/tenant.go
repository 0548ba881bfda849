// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all CheersAI entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/models"
)

// TenantStore handles all tenant-related database operations.
type TenantStore struct {
	db *sql.DB
}

// NewTenantStore creates a new TenantStore with the given database connection.
func NewTenantStore(db *sql.DB) *TenantStore {
	return &TenantStore{db: db}
}

// FindByAPIKeyID retrieves an active tenant by the public half of its API
// key. Returns nil if not found.
func (s *TenantStore) FindByAPIKeyID(ctx context.Context, keyID string) (*models.Tenant, error) {
	t := &models.Tenant{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, api_key_id, api_key_hash, active, created_at, updated_at
		FROM tenants WHERE api_key_id = $1 AND active = TRUE
	`, keyID).Scan(
		&t.ID, &t.Name, &t.APIKeyID, &t.APIKeyHash, &t.Active,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tenant by api key id: %w", err)
	}
	return t, nil
}

// FindByID retrieves a tenant by its UUID. Returns nil if not found.
func (s *TenantStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	t := &models.Tenant{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, api_key_id, api_key_hash, active, created_at, updated_at
		FROM tenants WHERE id = $1
	`, id).Scan(
		&t.ID, &t.Name, &t.APIKeyID, &t.APIKeyHash, &t.Active,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tenant by id: %w", err)
	}
	return t, nil
}

// Create inserts a new tenant with a bcrypt-hashed API key secret.
func (s *TenantStore) Create(ctx context.Context, name, keyID, keySecret string) (*models.Tenant, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(keySecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash api key: %w", err)
	}

	t := &models.Tenant{}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO tenants (name, api_key_id, api_key_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, api_key_id, api_key_hash, active, created_at, updated_at
	`, name, keyID, string(hash)).Scan(
		&t.ID, &t.Name, &t.APIKeyID, &t.APIKeyHash, &t.Active,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	return t, nil
}

// CheckAPIKey verifies a plaintext API key secret against the tenant's
// stored hash.
func (s *TenantStore) CheckAPIKey(tenant *models.Tenant, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(tenant.APIKeyHash), []byte(secret)) == nil
}
