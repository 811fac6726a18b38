package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/offer-desk/internal/api"
	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/config"
	"github.com/Veraticus/offer-desk/internal/draft"
	"github.com/Veraticus/offer-desk/internal/model"
	"github.com/Veraticus/offer-desk/internal/service"
	"github.com/Veraticus/offer-desk/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// session bundles what every backend command needs: the settings, the local
// cache store and a client carrying the saved login cookie.
type session struct {
	store    service.KeyValueStore
	client   *api.Client
	settings config.Settings
}

// openSession loads the settings, opens the cache store and restores the
// saved login.
func openSession(ctx context.Context) (*session, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, settings.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s cache: %w", settings.CacheBackend, err)
	}

	client, err := api.NewClient(settings.BaseURL,
		api.WithTimeout(settings.Timeout),
		api.WithSessionStore(store),
	)
	if err != nil {
		closeStore(store)
		return nil, err
	}
	if err := client.RestoreSession(ctx); err != nil {
		closeStore(store)
		return nil, err
	}

	return &session{store: store, client: client, settings: settings}, nil
}

func (s *session) Close() {
	closeStore(s.store)
}

func closeStore(store service.KeyValueStore) {
	if err := store.Close(); err != nil {
		slog.Error("failed to close cache store", "error", err)
	}
}

// newController builds a draft controller on the session's store and
// backend. It is not mounted yet.
func (s *session) newController(onWrite func(error)) *draft.Controller {
	return draft.New(s.store, s.client, draft.Config{
		CacheKey:     s.settings.CacheKey,
		Debounce:     s.settings.Debounce,
		DefaultSeats: s.settings.DefaultSeats,
		OnWrite:      onWrite,
	})
}

// controller returns a mounted draft controller.
func (s *session) controller(ctx context.Context) (*draft.Controller, error) {
	ctrl := s.newController(nil)
	if err := ctrl.Mount(ctx); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// editDraft mounts the draft, applies edit and writes the result to the
// cache before returning.
func editDraft(cmd *cobra.Command, edit func(ctrl *draft.Controller) error) error {
	ctx := cmd.Context()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctrl, err := sess.controller(ctx)
	if err != nil {
		return err
	}

	editErr := edit(ctrl)
	if err := ctrl.Close(ctx); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return editErr
}

func addOptionFlag(cmd *cobra.Command) {
	cmd.Flags().IntP("option", "p", int(model.OptionPrimary), "route group (1 or 2)")
}

func optionFlag(cmd *cobra.Command) (model.Option, error) {
	n, err := cmd.Flags().GetInt("option")
	if err != nil {
		return 0, err
	}
	return parseOption(n)
}

func parseOption(n int) (model.Option, error) {
	switch opt := model.Option(n); opt {
	case model.OptionPrimary, model.OptionAlternate:
		return opt, nil
	default:
		return 0, common.NewUserError(fmt.Sprintf("Opção inválida: %d (use 1 ou 2)", n), common.ErrUnknownOption)
	}
}

var dateLayouts = []string{model.ISODateLayout, "02/01/2006", "2/1/2006"}

// parseDate accepts YYYY-MM-DD and DD/MM/YYYY.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, common.NewUserError(fmt.Sprintf("Data inválida: %q (use AAAA-MM-DD ou DD/MM/AAAA)", value), common.ErrInvalidDraft)
}

// parseID reads a positive numeric backend id.
func parseID(value, what string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewUserError(fmt.Sprintf("%s inválido: %q", what, value), fmt.Errorf("parse id %q: %w", value, common.ErrInvalidDraft))
	}
	return id, nil
}

// isoDate normalizes a date argument to the YYYY-MM-DD key used by the draft.
func isoDate(value string) (string, error) {
	t, err := parseDate(value)
	if err != nil {
		return "", err
	}
	return t.Format(model.ISODateLayout), nil
}
