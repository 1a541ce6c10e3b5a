// Package member holds the operator commands that manage accounts outside
// the HTTP surface, such as bootstrapping the first administrator.
package member

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/membergate/membergate/internal/application/access"
	"github.com/membergate/membergate/internal/application/account"
	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/infrastructure/auth"
	"github.com/membergate/membergate/internal/infrastructure/config"
	"github.com/membergate/membergate/internal/infrastructure/database"
	"github.com/membergate/membergate/internal/infrastructure/permission"
	"github.com/membergate/membergate/internal/infrastructure/repository"
	"github.com/membergate/membergate/internal/interfaces/cli/clienv"
	"github.com/membergate/membergate/internal/shared/logger"
)

var (
	env        string
	configPath string

	login       string
	email       string
	displayName string
	password    string

	user string
	role string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Member account tools",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Directory holding config.yaml (default: ./configs)")

	cmd.AddCommand(newCreateCommand(), newGrantRoleCommand())
	return cmd
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a member account",
		Long:  `Create a member account. The password is read from the terminal when --password is not given.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVar(&login, "login", "", "Login name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&displayName, "display-name", "", "Display name")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("login")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newGrantRoleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grant-role",
		Short: "Give a member a role",
		Long:  `Give a member a role, for example administrator. The member is named by id, login or email.`,
		RunE:  runGrantRole,
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "Member id, login or email (required)")
	cmd.Flags().StringVarP(&role, "role", "r", "administrator", "Role to grant")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	pass, err := readPassword(cmd)
	if err != nil {
		return err
	}

	cfg, log, err := clienv.Setup(env, configPath)
	if err != nil {
		return err
	}
	defer database.Close()

	uc := account.NewCreateMemberUseCase(
		repository.NewMemberRepository(database.Get()),
		auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost),
		log.Named("member"),
	)
	m, err := uc.Execute(cmd.Context(), account.CreateMemberCommand{
		Login:       login,
		Email:       email,
		DisplayName: displayName,
		Password:    pass,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created member %d (%s)\n", m.ID(), m.Login())
	return nil
}

func runGrantRole(cmd *cobra.Command, args []string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return errors.New("role must not be empty")
	}

	cfg, log, err := clienv.Setup(env, configPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := cmd.Context()
	m, err := findMember(ctx, repository.NewMemberRepository(database.Get()), user)
	if err != nil {
		return err
	}

	authorizer, err := newAuthorizer(cfg, log)
	if err != nil {
		return err
	}
	if err := authorizer.AddRole(ctx, m.ID(), role); err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}

	log.Infow("role granted", "user_id", m.ID(), "role", role)
	fmt.Fprintf(cmd.OutOrStdout(), "Granted %s to member %d (%s)\n", role, m.ID(), m.Login())
	return nil
}

func newAuthorizer(cfg *config.Config, log logger.Interface) (*access.Authorizer, error) {
	enforcer, err := permission.NewEnforcer(database.Get(), log.Named("casbin"))
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
	return access.NewAuthorizer(enforcer, log.Named("access")), nil
}

type memberFinder interface {
	GetByID(ctx context.Context, id uint) (*member.Member, error)
	GetByLoginOrEmail(ctx context.Context, identifier string) (*member.Member, error)
}

// findMember resolves ref as a numeric id first, then as a login or email.
func findMember(ctx context.Context, members memberFinder, ref string) (*member.Member, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil && id > 0 {
		m, err := members.GetByID(ctx, uint(id))
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, member.ErrMemberNotFound) {
			return nil, err
		}
	}

	m, err := members.GetByLoginOrEmail(ctx, ref)
	if errors.Is(err, member.ErrMemberNotFound) {
		return nil, fmt.Errorf("no member matches %q", ref)
	}
	return m, err
}

func readPassword(cmd *cobra.Command) (string, error) {
	if password != "" {
		return password, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("--password is required when stdin is not a terminal")
	}

	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
