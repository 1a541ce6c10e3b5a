// Package account holds member self-service: logging in, changing the
// password, editing the profile, and creating accounts from the CLI.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/membergate/membergate/internal/domain/member"
	apperrors "github.com/membergate/membergate/internal/shared/errors"
	"github.com/membergate/membergate/internal/shared/logger"
	"github.com/membergate/membergate/internal/shared/utils"
)

const minPasswordLength = 8

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

type SessionIssuer interface {
	// Issue returns a signed session token and its lifetime in seconds.
	Issue(userID uint) (string, int64, error)
}

type LoginCommand struct {
	Identifier string
	Password   string
}

type LoginResult struct {
	Member    *member.Member
	Token     string
	ExpiresIn int64
}

type LoginUseCase struct {
	members  member.Repository
	hasher   PasswordHasher
	sessions SessionIssuer
	logger   logger.Interface
}

func NewLoginUseCase(members member.Repository, hasher PasswordHasher, sessions SessionIssuer, logger logger.Interface) *LoginUseCase {
	return &LoginUseCase{
		members:  members,
		hasher:   hasher,
		sessions: sessions,
		logger:   logger,
	}
}

// Execute verifies the credentials and issues a session. Unknown accounts
// and wrong passwords fail the same way.
func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	identifier := strings.TrimSpace(cmd.Identifier)
	if identifier == "" || cmd.Password == "" {
		return nil, apperrors.NewValidationError("login and password are required")
	}

	m, err := uc.members.GetByLoginOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return nil, apperrors.NewUnauthorizedError(member.ErrInvalidCredentials.Error())
		}
		uc.logger.Errorw("failed to load member for login", "error", err)
		return nil, fmt.Errorf("failed to load member: %w", err)
	}

	if m.PasswordHash() == "" || uc.hasher.Verify(cmd.Password, m.PasswordHash()) != nil {
		uc.logger.Infow("login rejected", "user_id", m.ID())
		return nil, apperrors.NewUnauthorizedError(member.ErrInvalidCredentials.Error())
	}

	token, expiresIn, err := uc.sessions.Issue(m.ID())
	if err != nil {
		uc.logger.Errorw("failed to issue session", "error", err, "user_id", m.ID())
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	uc.logger.Infow("member logged in", "user_id", m.ID())
	return &LoginResult{Member: m, Token: token, ExpiresIn: expiresIn}, nil
}

type ChangePasswordCommand struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

type ChangePasswordUseCase struct {
	members member.Repository
	hasher  PasswordHasher
	logger  logger.Interface
}

// NewChangePasswordUseCase creates a ChangePasswordUseCase.
func NewChangePasswordUseCase(members member.Repository, hasher PasswordHasher, logger logger.Interface) *ChangePasswordUseCase {
	return &ChangePasswordUseCase{members: members, hasher: hasher, logger: logger}
}

func (uc *ChangePasswordUseCase) Execute(ctx context.Context, userID uint, cmd ChangePasswordCommand) error {
	if cmd.OldPassword == "" || cmd.NewPassword == "" {
		return apperrors.NewValidationError("Please enter all required fields.")
	}
	if cmd.NewPassword != cmd.ConfirmPassword {
		return apperrors.NewValidationError("Passwords do not match")
	}
	if len(cmd.NewPassword) < minPasswordLength {
		return apperrors.NewValidationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	m, err := uc.members.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return apperrors.NewNotFoundError("member not found")
		}
		uc.logger.Errorw("failed to load member", "error", err, "user_id", userID)
		return fmt.Errorf("failed to load member: %w", err)
	}

	if uc.hasher.Verify(cmd.OldPassword, m.PasswordHash()) != nil {
		uc.logger.Warnw("password change rejected: wrong current password", "user_id", userID)
		return apperrors.NewValidationError("The current password is incorrect")
	}

	hash, err := uc.hasher.Hash(cmd.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	m.SetPasswordHash(hash)
	if err := uc.members.Update(ctx, m); err != nil {
		uc.logger.Errorw("failed to save password", "error", err, "user_id", userID)
		return fmt.Errorf("failed to save member: %w", err)
	}

	uc.logger.Infow("password changed", "user_id", userID)
	return nil
}

type UpdateProfileCommand struct {
	Email       string
	DisplayName string
}

type UpdateProfileUseCase struct {
	members member.Repository
	logger  logger.Interface
}

func NewUpdateProfileUseCase(members member.Repository, logger logger.Interface) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{members: members, logger: logger}
}

func (uc *UpdateProfileUseCase) Execute(ctx context.Context, userID uint, cmd UpdateProfileCommand) error {
	m, err := uc.members.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return apperrors.NewNotFoundError("member not found")
		}
		return fmt.Errorf("failed to load member: %w", err)
	}

	email := strings.TrimSpace(cmd.Email)
	if email == "" {
		email = m.Email()
	}
	if !strings.EqualFold(email, m.Email()) {
		other, err := uc.members.GetByLoginOrEmail(ctx, email)
		switch {
		case err == nil && other.ID() != m.ID():
			return apperrors.NewConflictError(member.ErrEmailExists.Error())
		case err != nil && !errors.Is(err, member.ErrMemberNotFound):
			return fmt.Errorf("failed to check email: %w", err)
		}
	}

	if err := m.UpdateProfile(email, strings.TrimSpace(cmd.DisplayName)); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if err := uc.members.Update(ctx, m); err != nil {
		uc.logger.Errorw("failed to save profile", "error", err, "user_id", userID)
		return fmt.Errorf("failed to save member: %w", err)
	}
	return nil
}

type CreateMemberCommand struct {
	Login       string
	Email       string
	DisplayName string
	Password    string
}

type CreateMemberUseCase struct {
	members member.Repository
	hasher  PasswordHasher
	logger  logger.Interface
}

func NewCreateMemberUseCase(members member.Repository, hasher PasswordHasher, logger logger.Interface) *CreateMemberUseCase {
	return &CreateMemberUseCase{members: members, hasher: hasher, logger: logger}
}

func (uc *CreateMemberUseCase) Execute(ctx context.Context, cmd CreateMemberCommand) (*member.Member, error) {
	if len(cmd.Password) < minPasswordLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	for _, identifier := range []string{cmd.Login, cmd.Email} {
		_, err := uc.members.GetByLoginOrEmail(ctx, strings.TrimSpace(identifier))
		if err == nil {
			return nil, apperrors.NewConflictError(fmt.Sprintf("%q is already registered", identifier))
		}
		if !errors.Is(err, member.ErrMemberNotFound) {
			return nil, fmt.Errorf("failed to check existing members: %w", err)
		}
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	m, err := member.NewMember(cmd.Login, cmd.Email, cmd.DisplayName, hash)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.members.Create(ctx, m); err != nil {
		uc.logger.Errorw("failed to create member", "error", err, "login", cmd.Login)
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	uc.logger.Infow("member created", "user_id", m.ID(), "login", m.Login(), "email", utils.MaskEmail(m.Email()))
	return m, nil
}
