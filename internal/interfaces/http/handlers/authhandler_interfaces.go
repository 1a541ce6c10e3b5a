package handlers

import (
	"context"

	"github.com/membergate/membergate/internal/application/account"
	gatewayUsecases "github.com/membergate/membergate/internal/application/gateway/usecases"
)

// Use case interfaces for the account handlers - enables unit testing with mocks.

type loginUseCase interface {
	Execute(ctx context.Context, cmd account.LoginCommand) (*account.LoginResult, error)
}

type changePasswordUseCase interface {
	Execute(ctx context.Context, userID uint, cmd account.ChangePasswordCommand) error
}

type updateProfileUseCase interface {
	Execute(ctx context.Context, userID uint, cmd account.UpdateProfileCommand) error
}

type updateBillingCardUseCase interface {
	Execute(ctx context.Context, cmd gatewayUsecases.UpdateBillingCardCommand) (*gatewayUsecases.UpdateBillingCardResult, error)
}

type nonceVerifier interface {
	Verify(token, action string, userID uint) error
}
