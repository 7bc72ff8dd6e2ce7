// ABOUTME: CLI commands for the raw page archive.
// ABOUTME: Supports status, get, sync, and the Charm-only link, repair and wipe operations.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harperreed/exercises/internal/archive"
	"github.com/harperreed/exercises/internal/ingest"
	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:     "archive",
	Aliases: []string{"a"},
	Short:   "Inspect and maintain the page archive",
	Long: `Inspect and maintain the archive of raw listing pages.

The archive driver comes from --archive, EXERCISES_ARCHIVE_DRIVER or the
archive.driver config key.

DRIVERS:

  fs       one JSON file per page under --archive-dir
  memory   process-local, gone on exit
  badger   embedded badger database under --archive-dir
  charm    Charm KV: badger locally, E2E encrypted sync to a Charm server
  s3       S3 or MinIO bucket (archive.bucket, archive.region, archive.endpoint)

COMMANDS:

  status   Show the driver and whether the first page is archived
  get      Print the archived body of a page URL
  sync     Push and pull pages (charm)
  link     Link this device to a Charm account (charm)
  repair   Repair the local Charm database (charm)
  wipe     Delete cloud and local Charm data (charm, destructive)`,
}

var archiveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show archive status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.ArchiveEnabled() {
			color.Yellow("No archive driver configured")
			fmt.Println("\nUse --archive fs|memory|badger|charm|s3 or set archive.driver in the config.")
			return nil
		}

		store, err := cfg.OpenArchive(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer func() { _ = store.Close() }()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Driver:", store.Driver())
		if c, ok := store.(*archive.Charm); ok && c.IsReadOnly() {
			color.Yellow("⚠ Archive is locked by another process (read-only)")
		}

		startURL, err := ingest.StartURL(cfg.API.BaseURL, cfg.API.Limit, cfg.API.Offset, cfg.API.Status)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "First page:", startURL)

		_, err = store.Get(cmd.Context(), archive.PageKey(startURL))
		switch {
		case errors.Is(err, archive.ErrNotFound):
			color.Yellow("  not archived; run 'exercises ingest --archive %s' first", store.Driver())
		case err != nil:
			return fmt.Errorf("failed to read archive: %w", err)
		default:
			color.Green("✓ First page archived; --replay is available")
		}
		return nil
	},
}

var archiveGetCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Print an archived page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cfg.OpenArchive(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer func() { _ = store.Close() }()

		body, err := store.Get(cmd.Context(), archive.PageKey(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(body))
		return nil
	},
}

var archiveSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the archive with its server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cfg.OpenArchive(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer func() { _ = store.Close() }()

		syncer, ok := store.(interface{ Sync() error })
		if !ok {
			color.Yellow("The %s driver has nothing to sync", store.Driver())
			return nil
		}
		if err := syncer.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		color.Green("✓ Archive synced")
		return nil
	},
}

var archiveLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	Long: `Link this device to your Charm account so the charm archive driver can sync.

If you don't have a Charm account, one will be created using your SSH key.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		charmCmd := exec.Command("charm", "link")
		charmCmd.Stdin = os.Stdin
		charmCmd.Stdout = os.Stdout
		charmCmd.Stderr = os.Stderr

		if err := charmCmd.Run(); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		color.Green("\n✓ Device linked to Charm")
		fmt.Println("Archived pages will now sync with --archive charm.")
		return nil
	},
}

var archiveRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair the local Charm archive",
	Long: `Repair the local Charm archive by checkpointing WAL, removing SHM files,
checking integrity, and vacuuming.

Run with --force to attempt recovery even if integrity checks fail.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		name := archive.CharmName(cfg.Archive.Name)

		fmt.Printf("Repairing %s archive...\n", name)
		result, err := kv.Repair(name, force)

		if result.WalCheckpointed {
			color.Green("  ✓ WAL checkpointed")
		}
		if result.ShmRemoved {
			color.Green("  ✓ SHM file removed")
		}
		if result.IntegrityOK {
			color.Green("  ✓ Integrity check passed")
		} else {
			color.Red("  ✗ Integrity check failed")
		}
		if result.Vacuumed {
			color.Green("  ✓ Database vacuumed")
		}

		if err != nil {
			if !force {
				color.Yellow("\nRun with --force to attempt recovery.")
			}
			return fmt.Errorf("repair failed: %w", err)
		}

		color.Green("\n✓ Repair complete")
		return nil
	},
}

var archiveWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all cloud and local Charm archive data",
	Long: `Delete every archived page from Charm Cloud and this device.

This is a DESTRUCTIVE operation. The relational store is not touched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := archive.CharmName(cfg.Archive.Name)

		fmt.Printf("This will PERMANENTLY DELETE the %s archive in the cloud and locally.\n", name)
		fmt.Print("Type 'wipe' to confirm: ")
		var confirm string
		_, _ = fmt.Scanln(&confirm)
		if confirm != "wipe" {
			fmt.Println("Canceled.")
			return nil
		}

		result, err := kv.Wipe(name)
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		color.Green("✓ Archive wiped")
		fmt.Printf("  Cloud backups deleted: %d\n", result.CloudBackupsDeleted)
		fmt.Printf("  Local files deleted: %d\n", result.LocalFilesDeleted)
		return nil
	},
}

func init() {
	archiveCmd.PersistentFlags().String("archive", "", "page archive driver: fs, memory, badger, charm or s3")
	archiveCmd.PersistentFlags().String("archive-dir", "", "archive directory for fs and badger (default under the data dir)")
	configFlags[archiveCmd] = map[string]string{
		"archive.driver": "archive",
		"archive.dir":    "archive-dir",
	}

	archiveRepairCmd.Flags().Bool("force", false, "Attempt recovery even if integrity checks fail")

	archiveCmd.AddCommand(archiveStatusCmd)
	archiveCmd.AddCommand(archiveGetCmd)
	archiveCmd.AddCommand(archiveSyncCmd)
	archiveCmd.AddCommand(archiveLinkCmd)
	archiveCmd.AddCommand(archiveRepairCmd)
	archiveCmd.AddCommand(archiveWipeCmd)
	rootCmd.AddCommand(archiveCmd)
}
