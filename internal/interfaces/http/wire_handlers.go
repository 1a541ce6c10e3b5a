package http

import (
	"context"

	adminApp "github.com/membergate/membergate/internal/application/admin"
	"github.com/membergate/membergate/internal/application/content"
	"github.com/membergate/membergate/internal/interfaces/http/handlers"
	adminHandlers "github.com/membergate/membergate/internal/interfaces/http/handlers/admin"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler  *handlers.HealthHandler
	authHandler    *handlers.AuthHandler
	accountHandler *handlers.AccountHandler
	contentHandler *handlers.ContentHandler

	// Admin
	actionHandler   *adminHandlers.ActionHandler
	nonceHandler    *adminHandlers.NonceHandler
	earningsHandler *adminHandlers.EarningsHandler
}

// nonceActions are the token actions clients may request.
var nonceActions = []string{
	adminApp.NonceBulkEdit,
	adminApp.NonceDeletePayment,
	adminApp.NonceMemberAction,
	adminApp.NonceLevelAction,
	adminApp.NonceDiscountAction,
	content.NonceUpdateCard,
	content.NonceChangePassword,
	content.NonceEditProfile,
}

func (c *Container) newHandlers() *allHandlers {
	log := c.log
	cfg := c.cfg

	checks := map[string]handlers.Pinger{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if c.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		}
	}

	return &allHandlers{
		healthHandler: handlers.NewHealthHandler(checks),
		authHandler:   handlers.NewAuthHandler(c.ucs.loginUC, cfg.Auth.CookieSecure, log.Named("auth")),
		accountHandler: handlers.NewAccountHandler(
			c.ucs.changePasswordUC,
			c.ucs.updateProfileUC,
			c.ucs.updateBillingCardUC,
			c.svcs.nonces,
			log.Named("account"),
		),
		contentHandler:  handlers.NewContentHandler(c.svcs.gate, c.svcs.renderer, log.Named("content")),
		actionHandler:   adminHandlers.NewActionHandler(c.ucs.dispatcher, log.Named("admin")),
		nonceHandler:    adminHandlers.NewNonceHandler(c.svcs.nonces, nonceActions, log.Named("nonce")),
		earningsHandler: adminHandlers.NewEarningsHandler(c.svcs.earnings, cfg.Display.Currency, log.Named("earnings")),
	}
}
