package cli

import (
	"github.com/calperry/stride/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	return tui.Run(ctx.Store)
}
