package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/GTDGit/kicks_api/cmd/inventoryctl/output"
	"github.com/GTDGit/kicks_api/internal/utils"
)

var (
	tokenUserID int
	tokenEmail  string
	tokenTTL    time.Duration
)

// tokenCmd mints admin tokens
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an admin JWT signed with JWT_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToken()
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().IntVar(&tokenUserID, "user-id", 0, "Admin user id (required)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Admin email (required)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", utils.DefaultTokenTTL, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("user-id")
	_ = tokenCmd.MarkFlagRequired("email")
}

func runToken() error {
	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	utils.SetJWTSecret(secret)

	token, err := utils.GenerateJWT(tokenUserID, tokenEmail, tokenTTL)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	if jsonOutput {
		fmt.Printf("{\"token\":%q,\"expiresIn\":%q}\n", token, tokenTTL.String())
		return nil
	}
	output.Muted("expires in %s", tokenTTL)
	fmt.Println(token)
	return nil
}
