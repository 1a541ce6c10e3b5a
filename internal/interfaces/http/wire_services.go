package http

import (
	"fmt"
	"time"

	"github.com/membergate/membergate/internal/application/access"
	adminApp "github.com/membergate/membergate/internal/application/admin"
	"github.com/membergate/membergate/internal/application/content"
	"github.com/membergate/membergate/internal/application/gateway"
	"github.com/membergate/membergate/internal/infrastructure/auth"
	"github.com/membergate/membergate/internal/infrastructure/cache"
	"github.com/membergate/membergate/internal/infrastructure/email"
	"github.com/membergate/membergate/internal/infrastructure/paypal"
	"github.com/membergate/membergate/internal/infrastructure/permission"
	"github.com/membergate/membergate/internal/infrastructure/ratelimit"
	sharedConfig "github.com/membergate/membergate/internal/shared/config"
	"github.com/membergate/membergate/internal/shared/services/markdown"
)

// allServices holds the application and infrastructure services shared by
// use cases, middlewares and handlers.
type allServices struct {
	sessions *auth.SessionService
	nonces   *auth.NonceService
	hasher   *auth.BcryptPasswordHasher

	authorizer  *access.Authorizer
	credentials *gateway.CredentialResolver
	subscribers *gateway.SubscriberChecker
	paypal      *paypal.Client
	notifier    *email.MemberNotifier
	formatter   markdown.Formatter

	earnings *adminApp.EarningsService
	gate     *content.Gate
	renderer *content.Renderer

	// nil without redis
	limiter ratelimit.Limiter
}

func (c *Container) newServices() (*allServices, error) {
	cfg := c.cfg
	log := c.log

	enforcer, err := permission.NewEnforcer(c.db, log.Named("casbin"))
	if err != nil {
		return nil, fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	capabilities, err := permission.LoadCapabilityMap(cfg.Permission.CapabilitiesFile)
	if err != nil {
		return nil, err
	}
	if err := permission.SeedRoleCapabilities(enforcer, capabilities, log.Named("casbin")); err != nil {
		return nil, fmt.Errorf("failed to seed role capabilities: %w", err)
	}

	s := &allServices{
		sessions:    auth.NewSessionService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes),
		nonces:      auth.NewNonceService(cfg.Auth.Nonce.Secret, cfg.Auth.Nonce.LifetimeHours),
		hasher:      auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost),
		authorizer:  access.NewAuthorizer(enforcer, log.Named("access")),
		credentials: gateway.NewCredentialResolver(cfg.Gateway),
		subscribers: gateway.NewSubscriberChecker(c.repos.memberRepo, log.Named("gateway")),
		paypal:      paypal.NewClient(cfg.Gateway, c.metrics, log.Named("paypal")),
		formatter:   markdown.NewFormatter(),
	}

	var sender email.Sender
	if cfg.Email.Enabled() {
		sender = email.NewSMTPEmailService(cfg.Email)
	} else {
		log.Infow("email not configured, member notifications disabled")
	}
	s.notifier = email.NewMemberNotifier(sender, cfg.Display.SiteName, log.Named("notifier"))

	var earningsCache adminApp.EarningsCache
	if c.redis != nil {
		ttl := time.Duration(cfg.Cache.EarningsTTLSeconds) * time.Second
		earningsCache = cache.NewEarningsCache(c.redis, ttl)
		s.limiter = ratelimit.NewRedisLimiter(c.redis)
	}
	s.earnings = adminApp.NewEarningsService(c.repos.paymentRepo, earningsCache, c.metrics, log.Named("earnings"))

	s.gate = content.NewGate(c.repos.memberRepo, c.repos.levelRepo, s.authorizer, log.Named("gate"))
	s.renderer = content.NewRenderer(
		s.gate,
		c.repos.levelRepo,
		s.subscribers,
		s.credentials,
		s.nonces,
		s.formatter,
		content.Settings{
			Display: cfg.Display,
			Content: cfg.Content,
			Gateway: cfg.Gateway,
		},
		log.Named("content"),
	)

	return s, nil
}

func cardUpdatePolicy(cfg sharedConfig.RateLimitConfig) ratelimit.Policy {
	if !cfg.Enabled {
		return ratelimit.Policy{}
	}
	return ratelimit.Policy{PerHour: cfg.CardUpdatePerHour, PerDay: cfg.CardUpdatePerDay}
}

func loginPolicy(cfg sharedConfig.RateLimitConfig) ratelimit.Policy {
	if !cfg.Enabled {
		return ratelimit.Policy{}
	}
	return ratelimit.Policy{PerMinute: cfg.LoginPerMinute, PerHour: cfg.LoginPerHour}
}
