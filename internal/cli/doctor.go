package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/mveach/rollo/internal/backup"
	"github.com/mveach/rollo/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	// Check 1: store reachable
	if err := ctx.Service.Load(); err != nil {
		fmt.Printf("❌ Store reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Store reachable: OK\n")
		storeReachable = true
		defer ctx.Service.Close()
	}

	// Check 2: data validation (only if store is reachable)
	if storeReachable {
		if err := checkValidation(ctx); err != nil {
			fmt.Printf("❌ Data validation: FAIL\n")
			fmt.Printf("   %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Data validation: OK\n")
		}
	}

	// Check 3: rollover freshness (warning only)
	if storeReachable {
		if err := checkRolloverFresh(ctx); err != nil {
			fmt.Printf("⚠ Rollover up to date: WARNING\n")
			fmt.Printf("   %v\n", err)
		} else {
			fmt.Printf("✓ Rollover up to date: OK\n")
		}
	}

	// Check 4: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 5: competing processes (warning only). The store assumes a
	// single process; two rollos writing the same file can lose data.
	if err := checkOtherProcesses(); err != nil {
		fmt.Printf("⚠ Single rollo process: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Single rollo process: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkValidation(ctx *Context) error {
	projects, err := ctx.Service.Projects()
	if err != nil {
		return err
	}
	tasks, err := ctx.Service.Tasks()
	if err != nil {
		return err
	}

	result := validation.New().ValidateState(projects, tasks)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found, run 'rollo validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkRolloverFresh(ctx *Context) error {
	state, err := ctx.Service.LastRollover()
	if err != nil {
		return err
	}
	if state.LastRolloverDate != ctx.Service.Today() {
		return fmt.Errorf("last rollover was %s, run 'rollo rollover' to catch up", state.LastRolloverDate)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := backup.NewManager(ctx.Service.ConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, run 'rollo backup create'")
	}

	newest := backups[0]
	if time.Since(newest.Timestamp) > 7*24*time.Hour {
		return fmt.Errorf("newest backup is from %s", newest.Timestamp.Format("2006-01-02"))
	}
	return nil
}

func checkOtherProcesses() error {
	processes, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("could not list processes: %w", err)
	}

	self := os.Getpid()
	for _, proc := range processes {
		if proc.Pid() != self && proc.Executable() == "rollo" {
			return fmt.Errorf("another rollo process is running (pid %d); concurrent access to the store is unsupported", proc.Pid())
		}
	}
	return nil
}
