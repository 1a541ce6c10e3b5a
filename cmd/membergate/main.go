package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/membergate/membergate/internal/interfaces/cli/member"
	"github.com/membergate/membergate/internal/interfaces/cli/migrate"
	"github.com/membergate/membergate/internal/interfaces/cli/server"
	"github.com/membergate/membergate/internal/shared/version"
)

//	@title						Membergate API
//	@version					1.0
//	@description				Membership gating, admin actions and PayPal billing-card updates.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:     "membergate",
		Short:   "Membergate - membership levels and content gating",
		Long:    `Membergate serves gated content, the member account forms and the admin actions of a membership site.`,
		Version: version.Current,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		member.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
