package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/smartvoyage/internal/client/gateway"
	"github.com/dmitrijs2005/smartvoyage/internal/client/services"
	"github.com/dmitrijs2005/smartvoyage/internal/common"
)

// LocalData reports what this device stores for all users.
func (c *Controller) LocalData(ctx context.Context) (services.LocalUsage, error) {
	if c.localData == nil {
		return services.LocalUsage{}, fmt.Errorf("local data: %w", common.ErrNotConfigured)
	}
	return c.localData.Usage(ctx)
}

// ResetLocalData signs out and wipes the local store: every profile, every
// journey history and the saved session. If sign out fails nothing is wiped.
func (c *Controller) ResetLocalData(ctx context.Context) error {
	if c.localData == nil {
		return fmt.Errorf("local data: %w", common.ErrNotConfigured)
	}

	if err := c.gw.SignOut(ctx); err != nil && !errors.Is(err, gateway.ErrNoSession) {
		c.log.Warn(ctx, "reset aborted, sign out failed", "error", err)
		c.notify(ctx, KindError, "Error", userMessage(err, "Could not sign out"))
		return &AuthError{Op: "logout", Err: err}
	}

	if err := c.localData.Reset(ctx); err != nil {
		c.log.Error(ctx, "error clearing local data", "error", err)
		c.notify(ctx, KindError, "Error", "Could not clear local data")
		return err
	}

	c.applySession(ctx, gateway.EventSignedOut, nil)
	c.mu.Lock()
	c.state.Page = HomePage{}
	c.mu.Unlock()

	c.notify(ctx, KindSuccess, "Local data cleared", "Profiles, journey history and the saved session were removed from this device.")
	return nil
}
