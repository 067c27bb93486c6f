package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ad-dashboard/pkg/session"
)

var (
	tokenUser      string
	tokenPerformer string
	tokenName      string
	tokenDeveloper bool
)

// newTokenCmd creates a new command that signs a session token
func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a session token for development",
		Long:  `Sign a session token with SECRET_KEY. Use it as the session cookie in a browser or as API_TOKEN for the command line tools.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := LoadConfig()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}

			token, err := session.NewCodec(cfg.SecretKey, cfg.SessionTTL).Encode(session.Session{
				UserID:        tokenUser,
				PerformerID:   tokenPerformer,
				PerformerName: tokenName,
				Developer:     tokenDeveloper,
			})
			if err != nil {
				log.Fatalf("Failed to sign token: %v", err)
			}
			fmt.Println(token)
		},
	}

	cmd.Flags().StringVar(&tokenUser, "user", "", "User id (required)")
	cmd.Flags().StringVar(&tokenPerformer, "performer-id", "", "Performer id")
	cmd.Flags().StringVar(&tokenName, "performer", "", "Performer name")
	cmd.Flags().BoolVar(&tokenDeveloper, "developer", false, "Grant the developer view")
	cmd.MarkFlagRequired("user")
	return cmd
}
