package cli

import "fmt"

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Service.Store().Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized rollo storage at: %s\n", ctx.Service.ConfigPath())
	return nil
}
