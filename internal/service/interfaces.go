// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"io"

	"github.com/Veraticus/offer-desk/internal/model"
)

// KeyValueStore persists small blobs under string keys. It backs the draft
// cache and the saved login session.
type KeyValueStore interface {
	// Get returns common.ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ConfigService serves the reference data used by the offer form.
type ConfigService interface {
	GetConfig(ctx context.Context) (model.BackendConfig, error)
	AddProgram(ctx context.Context, name string) error
	DeleteProgram(ctx context.Context, id int64) error
	AddCurrency(ctx context.Context, code string) error
	DeleteCurrency(ctx context.Context, id int64) error
}

// OfferService reads and writes saved offers.
type OfferService interface {
	ListOffers(ctx context.Context) ([]model.OfferRecord, error)
	CreateOffer(ctx context.Context, draft model.OfferDraft) error
	DeleteOffer(ctx context.Context, id int64) error
}

// ImageService exposes the rendered offer images.
type ImageService interface {
	ImageURL(id int64) string
	DownloadImage(ctx context.Context, id int64, w io.Writer) (int64, error)
}

// AuthStatus is the backend's view of the current session.
type AuthStatus struct {
	Username      string `json:"username"`
	Authenticated bool   `json:"authenticated"`
}

// AuthService manages the login session.
type AuthService interface {
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	CheckAuth(ctx context.Context) (AuthStatus, error)
}

// Backend is the complete REST backend.
type Backend interface {
	ConfigService
	OfferService
	ImageService
	AuthService
}
