package main

import (
	"errors"

	"github.com/spf13/cobra"

	"jasper-launcher/internal/domain/service/credentials"
)

type tokenOutput struct {
	Key     string `json:"key,omitempty"`
	Token   string `json:"token,omitempty"`
	Subject string `json:"subject,omitempty"`
	Role    string `json:"role,omitempty"`
}

func newTokenCommand() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue and verify session tokens",
	}

	var (
		key     string
		subject string
	)
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign a token, with a fresh session key unless --key is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			issuer := credentials.NewIssuer(cfg.TokenRole, cfg.IsLenientKeys())

			out := tokenOutput{Key: key, Subject: subject, Role: issuer.Role}
			if out.Key == "" {
				if out.Key, err = issuer.IssueKey(); err != nil {
					return err
				}
			}
			if out.Subject == "" {
				out.Subject = cfg.TokenSubject
			}
			if out.Token, err = issuer.IssueToken(out.Subject, out.Key); err != nil {
				return err
			}
			return newOutputFormatter(cmd).Print(out)
		},
	}
	issueCmd.Flags().StringVar(&key, "key", "", "Base64 session key to sign with")
	issueCmd.Flags().StringVar(&subject, "subject", "", "Token subject (default from config)")

	var verifyKey string
	verifyCmd := &cobra.Command{
		Use:   "verify TOKEN",
		Short: "Check a token's signature and print its subject and role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verifyKey == "" {
				return errors.New("--key is required")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			issuer := credentials.NewIssuer(cfg.TokenRole, cfg.IsLenientKeys())
			subject, role, err := issuer.VerifyToken(args[0], verifyKey)
			if err != nil {
				return err
			}
			return newOutputFormatter(cmd).Print(tokenOutput{Subject: subject, Role: role})
		},
	}
	verifyCmd.Flags().StringVar(&verifyKey, "key", "", "Base64 session key the token was signed with")

	tokenCmd.AddCommand(issueCmd, verifyCmd)
	return tokenCmd
}
