package cli

import "fmt"

type RolloverCmd struct{}

// Run always performs a rollover pass for today. Tasks that already rolled
// over today are skipped, so running this repeatedly is harmless.
func (c *RolloverCmd) Run(ctx *Context) error {
	if err := ctx.Service.Load(); err != nil {
		return err
	}
	defer ctx.Service.Close()

	advanced, err := ctx.Service.Rollover()
	if err != nil {
		return fmt.Errorf("rollover failed: %w", err)
	}

	if advanced == 0 {
		fmt.Println("Nothing to roll over.")
	} else {
		fmt.Printf("✓ Rolled %d task(s) forward to today\n", advanced)
	}

	state, err := ctx.Service.LastRollover()
	if err == nil && state.LastRolloverTime != "" {
		fmt.Printf("Last rollover: %s\n", state.LastRolloverTime)
	}

	return nil
}
