package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/smartvoyage/internal/client/controller"
	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
)

// readProfile asks for every profile field, offering cur as defaults.
func (a *App) readProfile(cur models.Profile) (models.Profile, error) {
	var (
		p   models.Profile
		err error
	)
	if p.Name, err = GetWithDefault(a.reader, "Full name", cur.Name, a.out); err != nil {
		return p, err
	}
	if p.DateOfBirth, err = GetWithDefault(a.reader, "Date of birth (YYYY-MM-DD)", cur.DateOfBirth, a.out); err != nil {
		return p, err
	}
	if p.Gender, err = GetChoice(a.reader, "Gender", models.Genders, cur.Gender, a.out); err != nil {
		return p, err
	}
	if p.Nationality, err = GetWithDefault(a.reader, "Nationality", cur.Nationality, a.out); err != nil {
		return p, err
	}
	if p.PreferredLanguage, err = GetChoice(a.reader, "Preferred language", models.Languages, cur.PreferredLanguage, a.out); err != nil {
		return p, err
	}
	return p, nil
}

// fillProfile repeats the form until save accepts it.
func (a *App) fillProfile(cur models.Profile, save func(models.Profile) error) error {
	for {
		p, err := a.readProfile(cur)
		if err != nil {
			return err
		}
		err = save(p)
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		a.report(err)
		cur = p
	}
}

// CreateProfile runs the mandatory profile creation form.
func (a *App) CreateProfile(ctx context.Context) error {
	if !a.isLoggedIn() {
		return controller.ErrNotAuthenticated
	}
	a.println("Create your traveler profile. All fields are required.")
	err := a.fillProfile(models.Profile{}, func(p models.Profile) error {
		return a.voyage.SaveProfile(ctx, p)
	})
	if err != nil {
		return err
	}
	a.render(ctx)
	return nil
}

func (a *App) ShowProfile(ctx context.Context) error {
	st := a.voyage.State()
	if !st.Authenticated() {
		return controller.ErrNotAuthenticated
	}
	if st.Profile == nil {
		a.println("No profile yet.")
		return nil
	}
	p := st.Profile
	a.printf("Name:               %s\n", p.Name)
	a.printf("Email:              %s\n", st.Session.Email)
	a.printf("Date of birth:      %s\n", p.DateOfBirth)
	a.printf("Gender:             %s\n", p.Gender)
	a.printf("Nationality:        %s\n", p.Nationality)
	a.printf("Preferred language: %s\n", p.PreferredLanguage)
	a.println("Type 'profile edit' to change it.")
	return nil
}

func (a *App) EditProfile(ctx context.Context) error {
	st := a.voyage.State()
	if !st.Authenticated() {
		return controller.ErrNotAuthenticated
	}
	var cur models.Profile
	if st.Profile != nil {
		cur = *st.Profile
	}
	a.println("Press Enter to keep the current value.")
	return a.fillProfile(cur, func(p models.Profile) error {
		return a.voyage.UpdateProfile(ctx, p)
	})
}
