package cli

import (
	"context"

	"github.com/dmitrijs2005/smartvoyage/internal/client/controller"
)

// Chat talks to the travel assistant until an empty line is entered.
func (a *App) Chat(ctx context.Context) error {
	if !a.isLoggedIn() {
		return controller.ErrNotAuthenticated
	}
	a.println("Hi! I'm your Smart Voyage assistant. Ask me anything about travelling in India.")
	a.println("(press Enter on an empty line to leave the chat)")

	for {
		msg, err := getSimpleText(a.reader, "You:", a.out)
		if err != nil {
			return err
		}
		if msg == "" {
			return nil
		}

		reply, err := a.voyage.SendChatMessage(ctx, msg)
		if err != nil {
			a.log.Warn(ctx, "chat reply failed", "error", err)
			a.println("Assistant: Sorry, I couldn't process that. Please try again.")
			continue
		}
		a.println("Assistant:", reply)
	}
}
