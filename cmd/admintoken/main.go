package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	jwttoken "laurelid/internal/jwt_token"
)

var (
	operator string
	ttl      time.Duration
)

// rootCmd mints an operator token for the kiosk admin endpoints.
var rootCmd = &cobra.Command{
	Use:   "admintoken",
	Short: "Issues an operator bearer token for the kiosk admin API",
	Long: `'admintoken' signs a short-lived HS256 token with ADMIN_JWT_KEY.
Use it as the Authorization bearer for /admin endpoints:

    curl -H "Authorization: Bearer $(admintoken --operator store-7)" \
        -X POST localhost:8080/admin/trustlist/refresh
`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		key := os.Getenv("ADMIN_JWT_KEY")
		if key == "" {
			return errors.New("ADMIN_JWT_KEY is not set")
		}
		if operator == "" {
			return errors.New("--operator is required")
		}
		svc := jwttoken.NewJWTService(key, jwttoken.DefaultIssuer, jwttoken.DefaultAudience)
		token, err := svc.GenerateAdminToken(operator, ttl)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	rootCmd.Flags().StringVar(&operator, "operator", "", "Operator identity recorded in admin logs")
	rootCmd.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "Token lifetime")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
