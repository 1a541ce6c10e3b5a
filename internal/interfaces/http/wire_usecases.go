package http

import (
	"github.com/membergate/membergate/internal/application/account"
	adminApp "github.com/membergate/membergate/internal/application/admin"
	gatewayUsecases "github.com/membergate/membergate/internal/application/gateway/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Account
	loginUC          *account.LoginUseCase
	changePasswordUC *account.ChangePasswordUseCase
	updateProfileUC  *account.UpdateProfileUseCase

	// Gateway
	updateBillingCardUC *gatewayUsecases.UpdateBillingCardUseCase
	cancelProfileUC     *gatewayUsecases.CancelRecurringProfileUseCase

	// Admin
	dispatcher *adminApp.Dispatcher
}

func (c *Container) newUseCases() *allUseCases {
	log := c.log
	repos := c.repos
	svcs := c.svcs

	ucs := &allUseCases{
		loginUC:          account.NewLoginUseCase(repos.memberRepo, svcs.hasher, svcs.sessions, log.Named("login")),
		changePasswordUC: account.NewChangePasswordUseCase(repos.memberRepo, svcs.hasher, log.Named("password")),
		updateProfileUC:  account.NewUpdateProfileUseCase(repos.memberRepo, log.Named("profile")),
	}

	ucs.updateBillingCardUC = gatewayUsecases.NewUpdateBillingCardUseCase(
		repos.memberRepo,
		svcs.subscribers,
		svcs.credentials,
		svcs.paypal,
		svcs.notifier,
		c.metrics,
		c.cfg.Gateway.PayPal,
		log.Named("card_update"),
	)
	ucs.cancelProfileUC = gatewayUsecases.NewCancelRecurringProfileUseCase(
		svcs.subscribers,
		svcs.credentials,
		svcs.paypal,
		log.Named("profile_cancel"),
	)

	commands := adminApp.NewCommands(adminApp.Deps{
		Members:    repos.memberRepo,
		Levels:     repos.levelRepo,
		Discounts:  repos.discountRepo,
		Payments:   repos.paymentRepo,
		Authorizer: svcs.authorizer,
		Tx:         repos.tx,
		Earnings:   svcs.earnings,
		Profiles:   ucs.cancelProfileUC,
		Notifier:   svcs.notifier,
		Formatter:  svcs.formatter,
		Logger:     log.Named("admin"),
	})
	ucs.dispatcher = adminApp.NewDispatcher(svcs.authorizer, svcs.nonces, c.metrics, log.Named("admin"), commands.All()...)

	return ucs
}
