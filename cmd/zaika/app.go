package main

import (
	"context"

	"github.com/rsharma-dev/zaika/config"
	"github.com/rsharma-dev/zaika/internal/cart"
	"github.com/rsharma-dev/zaika/internal/catalog"
	"github.com/rsharma-dev/zaika/internal/order"
	"github.com/rsharma-dev/zaika/internal/payment"
	"github.com/rsharma-dev/zaika/internal/session"
	"github.com/rsharma-dev/zaika/internal/user"
	"github.com/rsharma-dev/zaika/pkg/cache"
	"github.com/rsharma-dev/zaika/pkg/logger"
	"github.com/rsharma-dev/zaika/pkg/storage"
)

// app is the wired object graph every command runs against.
type app struct {
	sess    *session.Manager
	catalog *catalog.Client
	cart    *cart.Store
	orders  *order.Client
	payment *payment.Client
	users   *user.Client

	close func()
}

// boot loads config, connects the side services and assembles the clients.
// The returned app must be closed so buffered logs flush.
func boot(ctx context.Context) (*app, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	closeLogs := logger.Attach()

	storage.Connect()
	if err := cache.Connect(); err != nil {
		logger.Warn("boot: cache unavailable, continuing without it", "error", err)
	}

	disk := storage.Use(config.StorageDefault())
	sess := session.NewManager(disk)
	sess.Watch(ctx)

	cartClient := cart.NewClient(sess.Token)
	store := cart.NewStore(sess, cartClient, disk)
	if err := store.Bootstrap(ctx); err != nil {
		logger.Warn("boot: cart bootstrap", "error", err)
	}

	return &app{
		sess:    sess,
		catalog: catalog.NewClient(),
		cart:    store,
		orders:  order.NewClient(sess.Token),
		payment: payment.NewClient(sess.Token),
		users:   user.NewClient(sess.Token),
		close:   closeLogs,
	}, nil
}
