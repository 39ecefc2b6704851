package cli

import (
	"context"

	"github.com/dmitrijs2005/smartvoyage/internal/client/controller"
	"github.com/dmitrijs2005/smartvoyage/internal/common"
)

// Login prompts for credentials and signs in. On success the dashboard is
// rendered; on failure the login page stays open so the user can retry.
func (a *App) Login(ctx context.Context) error {
	return a.authenticate(ctx, controller.ModeLogin)
}

// SignUp prompts for credentials and creates an account.
func (a *App) SignUp(ctx context.Context) error {
	return a.authenticate(ctx, controller.ModeSignup)
}

func (a *App) authenticate(ctx context.Context, mode controller.LoginMode) error {
	if a.isLoggedIn() {
		a.println("You are already signed in.")
		return nil
	}
	a.voyage.Navigate(controller.LoginPage{Mode: mode})

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if mode == controller.ModeSignup {
		err = a.voyage.SignUp(ctx, email, string(password))
	} else {
		err = a.voyage.Login(ctx, email, string(password))
	}
	if err != nil {
		return err
	}

	a.render(ctx)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.voyage.Logout(ctx); err != nil {
		return err
	}
	a.render(ctx)
	return nil
}

func (a *App) Home(ctx context.Context) error {
	if a.isLoggedIn() {
		return a.Dashboard(ctx)
	}
	a.voyage.Navigate(controller.HomePage{})
	a.render(ctx)
	return nil
}

func (a *App) Dashboard(ctx context.Context) error {
	if !a.isLoggedIn() {
		return controller.ErrNotAuthenticated
	}
	a.voyage.Navigate(controller.DashboardPage{})
	a.render(ctx)
	return nil
}
