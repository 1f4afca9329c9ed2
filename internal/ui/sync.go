package ui

import (
	"context"
	"time"

	"aawo/internal/db"
)

// recordSyncSuccess marks the provider as reachable and stamps the
// import time, so the config command can report sync health.
func (a *App) recordSyncSuccess(ctx context.Context) error {
	if err := a.store.SetSetting(ctx, db.SettingRemoteConnected, "true"); err != nil {
		return err
	}
	return a.store.SetSetting(ctx, db.SettingLastImportAt,
		time.Now().UTC().Format(time.RFC3339))
}

// syncStatus renders the stored sync state for display.
func syncStatus(connected, lastImport string) string {
	if connected != "true" {
		return "never synced"
	}
	t, err := time.Parse(time.RFC3339, lastImport)
	if err != nil {
		return "connected"
	}
	return "connected, last sync " + t.Local().Format("Jan 2 15:04")
}
