package account

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/membergate/membergate/internal/domain/member"
	apperrors "github.com/membergate/membergate/internal/shared/errors"
	"github.com/membergate/membergate/internal/shared/logger"
)

type memberRepo struct {
	member.Repository
	byID    map[uint]*member.Member
	updates int
}

func newMemberRepo() *memberRepo {
	return &memberRepo{byID: map[uint]*member.Member{}}
}

func (r *memberRepo) Create(_ context.Context, m *member.Member) error {
	if err := m.SetID(uint(len(r.byID) + 1)); err != nil {
		return err
	}
	r.byID[m.ID()] = m
	return nil
}

func (r *memberRepo) Update(_ context.Context, m *member.Member) error {
	r.updates++
	r.byID[m.ID()] = m
	return nil
}

func (r *memberRepo) GetByID(_ context.Context, id uint) (*member.Member, error) {
	if m, ok := r.byID[id]; ok {
		return m, nil
	}
	return nil, member.ErrMemberNotFound
}

func (r *memberRepo) GetByLoginOrEmail(_ context.Context, identifier string) (*member.Member, error) {
	for _, m := range r.byID {
		if m.Login() == identifier || strings.EqualFold(m.Email(), identifier) {
			return m, nil
		}
	}
	return nil, member.ErrMemberNotFound
}

// plainHasher prefixes instead of hashing.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Verify(password, hash string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Issue(userID uint) (string, int64, error) {
	args := m.Called(userID)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func seedMember(t *testing.T, repo *memberRepo, login, password string) *member.Member {
	t.Helper()
	m, err := member.NewMember(login, login+"@example.com", "", "hashed:"+password)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), m))
	return m
}

func TestLogin(t *testing.T) {
	repo := newMemberRepo()
	m := seedMember(t, repo, "alice", "correct-horse")

	sessions := new(mockSessions)
	sessions.On("Issue", m.ID()).Return("token-1", int64(3600), nil).Twice()
	uc := NewLoginUseCase(repo, plainHasher{}, sessions, logger.NewNop())

	res, err := uc.Execute(context.Background(), LoginCommand{Identifier: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "token-1", res.Token)
	assert.Equal(t, int64(3600), res.ExpiresIn)

	res, err = uc.Execute(context.Background(), LoginCommand{Identifier: "ALICE@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, m.ID(), res.Member.ID())

	sessions.AssertExpectations(t)
}

func TestLogin_RejectsSameWayForUnknownAndWrongPassword(t *testing.T) {
	repo := newMemberRepo()
	seedMember(t, repo, "alice", "correct-horse")
	uc := NewLoginUseCase(repo, plainHasher{}, new(mockSessions), logger.NewNop())

	_, wrong := uc.Execute(context.Background(), LoginCommand{Identifier: "alice", Password: "nope"})
	_, unknown := uc.Execute(context.Background(), LoginCommand{Identifier: "bob", Password: "nope"})

	require.Error(t, wrong)
	require.Error(t, unknown)
	assert.Equal(t, wrong.Error(), unknown.Error())
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.GetAppError(wrong).Type)

	_, err := uc.Execute(context.Background(), LoginCommand{Identifier: " ", Password: "x"})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestChangePassword(t *testing.T) {
	repo := newMemberRepo()
	m := seedMember(t, repo, "alice", "old-password")
	uc := NewChangePasswordUseCase(repo, plainHasher{}, logger.NewNop())
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  ChangePasswordCommand
	}{
		{"missing", ChangePasswordCommand{NewPassword: "new-password", ConfirmPassword: "new-password"}},
		{"mismatch", ChangePasswordCommand{OldPassword: "old-password", NewPassword: "new-password", ConfirmPassword: "other"}},
		{"too short", ChangePasswordCommand{OldPassword: "old-password", NewPassword: "short", ConfirmPassword: "short"}},
		{"wrong current", ChangePasswordCommand{OldPassword: "guess", NewPassword: "new-password", ConfirmPassword: "new-password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := uc.Execute(ctx, m.ID(), tt.cmd)
			assert.True(t, apperrors.IsValidationError(err), "got %v", err)
		})
	}
	assert.Equal(t, 0, repo.updates)

	require.NoError(t, uc.Execute(ctx, m.ID(), ChangePasswordCommand{
		OldPassword:     "old-password",
		NewPassword:     "new-password",
		ConfirmPassword: "new-password",
	}))
	assert.Equal(t, "hashed:new-password", repo.byID[m.ID()].PasswordHash())

	err := uc.Execute(ctx, 999, ChangePasswordCommand{OldPassword: "a", NewPassword: "new-password", ConfirmPassword: "new-password"})
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestUpdateProfile(t *testing.T) {
	repo := newMemberRepo()
	alice := seedMember(t, repo, "alice", "password1")
	seedMember(t, repo, "bob", "password2")
	uc := NewUpdateProfileUseCase(repo, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, uc.Execute(ctx, alice.ID(), UpdateProfileCommand{Email: "alice@new.example.com", DisplayName: "Alice A."}))
	assert.Equal(t, "alice@new.example.com", repo.byID[alice.ID()].Email())
	assert.Equal(t, "Alice A.", repo.byID[alice.ID()].DisplayName())

	err := uc.Execute(ctx, alice.ID(), UpdateProfileCommand{Email: "bob@example.com"})
	assert.True(t, apperrors.IsConflictError(err))

	err = uc.Execute(ctx, alice.ID(), UpdateProfileCommand{Email: "not-an-email"})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestCreateMember(t *testing.T) {
	repo := newMemberRepo()
	uc := NewCreateMemberUseCase(repo, plainHasher{}, logger.NewNop())
	ctx := context.Background()

	m, err := uc.Execute(ctx, CreateMemberCommand{Login: "carol", Email: "carol@example.com", Password: "long-enough"})
	require.NoError(t, err)
	assert.Equal(t, "hashed:long-enough", m.PasswordHash())
	assert.Equal(t, "carol", m.DisplayName())

	_, err = uc.Execute(ctx, CreateMemberCommand{Login: "carol", Email: "other@example.com", Password: "long-enough"})
	assert.True(t, apperrors.IsConflictError(err))

	_, err = uc.Execute(ctx, CreateMemberCommand{Login: "dave", Email: "dave@example.com", Password: "short"})
	assert.True(t, apperrors.IsValidationError(err))
}
