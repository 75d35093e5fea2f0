package commands

import (
	"context"

	"github.com/naveenspark/uitam/internal/tui"
)

// TUICmd starts the interactive browser. It restores the stored session
// itself, so it does not call requireSession.
type TUICmd struct{}

func (t *TUICmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.open(ctx, true)
	if err != nil {
		return err
	}
	defer e.Close()

	e.log.Info().Str("version", globals.Version).Msg("tui started")
	return tui.Run(e.manager, e.client, tui.Options{WebURL: e.cfg.WebURL, Logger: e.log})
}
