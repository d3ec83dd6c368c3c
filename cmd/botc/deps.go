package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"botc/interpreter-go/pkg/driver"
)

func newDepsCmd() *cobra.Command {
	deps := &cobra.Command{
		Use:   "deps",
		Short: "Manage behavior pack dependencies",
	}
	deps.AddCommand(newDepsInstallCmd())
	deps.AddCommand(newDepsUpdateCmd())
	return deps
}

func newDepsInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Fetch declared behavior packs and write pack.lock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepsInstall(cmd)
		},
	}
}

func newDepsUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update [pack...]",
		Short: "Re-resolve behavior packs, dropping their pinned versions",
		Long: `Update discards pinned pack versions and resolves them again.

Without arguments every pack is re-resolved; with arguments only the named
packs are.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDepsUpdate(cmd, args)
		},
	}
}

func runDepsInstall(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	manifest, err := loadProjectManifest(".")
	if err != nil {
		return err
	}
	cacheDir, err := resolveBotcHome()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(out, "Robot: %s\n", manifest.Name)
	fmt.Fprintf(out, "Packs: %d\n", len(manifest.Dependencies))
	fmt.Fprintf(out, "Cache: %s\n", cacheDir)

	lockPath := filepath.Join(manifest.Dir(), driver.LockfileName)
	lock, created, err := loadOrCreateLockfile(manifest, lockPath)
	if err != nil {
		return err
	}

	installer := newPackInstaller(manifest, cacheDir)
	changed, logs, err := installer.Install(lock)
	if err != nil {
		return fmt.Errorf("resolve packs: %w", err)
	}
	for _, line := range logs {
		fmt.Fprintln(out, line)
	}

	if changed || created {
		action := "Updated"
		if created {
			action = "Created"
		}
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n", action, lockPath)
	} else {
		fmt.Fprintf(out, "%s already up to date\n", lockPath)
	}
	return nil
}

func runDepsUpdate(cmd *cobra.Command, targets []string) error {
	out := cmd.OutOrStdout()

	manifest, err := loadProjectManifest(".")
	if err != nil {
		return err
	}
	cacheDir, err := resolveBotcHome()
	if err != nil {
		return err
	}

	lockPath := filepath.Join(manifest.Dir(), driver.LockfileName)
	lock, created, err := loadOrCreateLockfile(manifest, lockPath)
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		lock.Packs = nil
	} else {
		for _, name := range targets {
			if _, ok := manifest.Dependencies[name]; !ok {
				return fmt.Errorf("dependency %q not declared in manifest", name)
			}
		}
		drop := make(map[string]struct{}, len(targets))
		for _, name := range targets {
			drop[name] = struct{}{}
		}
		kept := make([]*driver.LockedPack, 0, len(lock.Packs))
		for _, pack := range lock.Packs {
			if pack == nil {
				continue
			}
			if _, ok := drop[pack.Name]; ok {
				continue
			}
			kept = append(kept, pack)
		}
		lock.Packs = kept
	}

	installer := newPackInstaller(manifest, cacheDir)
	changed, logs, err := installer.Install(lock)
	if err != nil {
		return fmt.Errorf("update packs: %w", err)
	}
	for _, line := range logs {
		fmt.Fprintln(out, line)
	}

	if changed || created {
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated %s\n", lockPath)
	} else {
		fmt.Fprintln(out, "Packs already up to date")
	}
	return nil
}

// loadOrCreateLockfile reads the project lockfile, creating a fresh one when
// none exists yet. The loaded lockfile must belong to this manifest.
func loadOrCreateLockfile(manifest *driver.Manifest, lockPath string) (*driver.Lockfile, bool, error) {
	lock, err := driver.LoadLockfile(lockPath)
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			return nil, false, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
		}
		lock.Tool = toolVersion
		return lock, false, nil
	case errors.Is(err, os.ErrNotExist):
		fresh := driver.NewLockfile(manifest.Name, toolVersion)
		fresh.Path = lockPath
		return fresh, true, nil
	default:
		return nil, false, fmt.Errorf("read lockfile: %w", err)
	}
}
