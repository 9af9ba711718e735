package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/rashid4567/recruitiq/internal/client/api"
	"github.com/rashid4567/recruitiq/internal/common"
)

func (a *App) ShowProfile(ctx context.Context) error {
	p, err := a.api.GetProfile(ctx)
	if err != nil {
		if errors.Is(err, common.ErrAccountDeactivated) {
			log.Printf("This account has been deactivated.")
			return err
		}
		log.Printf("Could not load profile: %v", err)
		return err
	}

	fmt.Fprintf(a.out, "Headline: %s\nLocation: %s\nAbout: %s\n", p.Headline, p.Location, p.About)
	if p.Company != "" {
		fmt.Fprintf(a.out, "Company: %s\n", p.Company)
	}
	if p.ResumeKey != "" {
		fmt.Fprintf(a.out, "Resume on file: %s\n", p.ResumeKey)
	}
	return nil
}

func (a *App) CompleteProfile(ctx context.Context) error {
	headline, err := GetSimpleText(a.reader, "Headline", a.out)
	if err != nil {
		return err
	}
	location, err := GetSimpleText(a.reader, "Location", a.out)
	if err != nil {
		return err
	}
	about, err := GetSimpleText(a.reader, "About", a.out)
	if err != nil {
		return err
	}

	p := &api.Profile{Headline: headline, Location: location, About: about}
	if a.sessions.Get().Role == common.RoleRecruiter {
		if p.Company, err = GetSimpleText(a.reader, "Company", a.out); err != nil {
			return err
		}
	}

	if err := a.api.CompleteProfile(ctx, p); err != nil {
		log.Printf("Could not save profile: %v", err)
		return err
	}
	log.Printf("Profile saved")
	return nil
}
