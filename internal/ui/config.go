package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"aawo/internal/config"
	"aawo/internal/db"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			path := config.DefaultConfigPath()

			fmt.Printf("\n  %s\n", formatHeader("Configuration"))
			fmt.Println(separator())
			fmt.Println(formatMuted("  file: " + path))
			fmt.Println()
			fmt.Printf("  timezone:        %s\n", a.config.Calendar.Timezone)
			fmt.Printf("  visible hours:   %s-%s\n", a.config.Calendar.DayStart, a.config.Calendar.DayEnd)
			fmt.Printf("  database:        %s\n", a.config.Storage.DBPath)
			fmt.Printf("  remote base url: %s\n", a.config.Remote.BaseURL)
			fmt.Printf("  remote token:    %s\n", maskSecret(a.config.Remote.Token))

			ctx := context.Background()
			connected, err := a.store.GetSetting(ctx, db.SettingRemoteConnected)
			if err != nil {
				return err
			}
			lastImport, err := a.store.GetSetting(ctx, db.SettingLastImportAt)
			if err != nil {
				return err
			}
			fmt.Printf("  remote sync:     %s\n", syncStatus(connected, lastImport))

			fmt.Printf("  llm provider:    %s\n", a.config.LLM.Provider)
			fmt.Printf("  llm model:       %s\n", a.config.LLM.Model)
			if a.config.LLM.BaseURL != "" {
				fmt.Printf("  llm base url:    %s\n", a.config.LLM.BaseURL)
			}
			fmt.Printf("  llm api key:     %s\n", maskSecret(a.config.LLM.APIKey))
			return nil
		},
	}

	cmd.AddCommand(a.configInitCmd())

	return cmd
}

func (a *App) configInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			path := config.DefaultConfigPath()
			if err := a.config.Save(); err != nil {
				return err
			}
			fmt.Println("Wrote " + path)
			fmt.Println(formatMuted("secrets stay in AAWO_REMOTE_TOKEN and AAWO_LLM_API_KEY, never in the file"))
			return nil
		},
	}
}

func maskSecret(s string) string {
	if s == "" {
		return formatMuted("(not set)")
	}
	return "set (" + formatMuted(fmt.Sprintf("%d chars", len(s))) + ")"
}
