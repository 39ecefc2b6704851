package cli

import (
	"context"
	"strings"
)

// Data prints what this device keeps in local storage.
func (a *App) Data(ctx context.Context) error {
	u, err := a.voyage.LocalData(ctx)
	if err != nil {
		return err
	}
	a.printf("Profiles:          %d\n", u.Profiles)
	a.printf("Journey histories: %d (%d journeys)\n", u.Histories, u.Journeys)
	a.printf("Size:              %d bytes\n", u.Bytes)
	a.println("Type 'data reset' to remove everything from this device.")
	return nil
}

// ResetData wipes local storage after the user confirms.
func (a *App) ResetData(ctx context.Context) error {
	a.println("This signs you out and removes every profile, journey history and saved session from this device.")
	answer, err := getSimpleText(a.reader, "Type 'yes' to continue", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		a.println("Cancelled.")
		return nil
	}
	if err := a.voyage.ResetLocalData(ctx); err != nil {
		return err
	}
	a.render(ctx)
	return nil
}
