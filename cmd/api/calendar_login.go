package main

import (
	"fmt"
	"os"

	"github.com/justsurfingit/job-jotter/internal/auth"
	"github.com/spf13/cobra"
)

var calendarLoginCmd = &cobra.Command{
	Use:   "calendar-login",
	Short: "Authorize Google Calendar access and save token.json",
	Long: `Run the Google consent flow in a browser and save the resulting credential
to the token file used by the interactive calendar mode.

The application credentials are read from GOOGLE_CREDENTIALS_FILE
(credentials.json by default).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		oauthCfg, err := auth.LoadClientConfig(cfg.GoogleCredentialsFile)
		if err != nil {
			return err
		}
		creds := &auth.FileCredentials{
			Path:         cfg.GoogleTokenFile,
			ClientID:     oauthCfg.ClientID,
			ClientSecret: oauthCfg.ClientSecret,
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			if _, err := creds.LoadCredential(cmd.Context(), 0); err == nil {
				fmt.Fprintf(os.Stdout, "%s already holds a credential, use --force to replace it\n", cfg.GoogleTokenFile)
				return nil
			}
		}

		authorizer := auth.NewLocalAuthorizer(cfg.InteractiveTimeout)
		tok, err := authorizer.Authorize(cmd.Context(), oauthCfg)
		if err != nil {
			return fmt.Errorf("%w: %w", auth.ErrInteractiveAuth, err)
		}
		if err := creds.SaveCredential(cmd.Context(), 0, tok); err != nil {
			return err
		}
		logger.Info("google calendar credential saved", "path", cfg.GoogleTokenFile)
		return nil
	},
}

func init() {
	calendarLoginCmd.Flags().Bool("force", false, "Replace an existing credential")
	rootCmd.AddCommand(calendarLoginCmd)
}
