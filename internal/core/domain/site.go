package domain

import (
	"errors"
	"fmt"
	"strings"
)

const DefaultSiteName = "InstaBazaar"

var ErrInvalidSiteConfig = errors.New("invalid site config")

// SiteConfig is the branding shown by the navigation bar.
type SiteConfig struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo"`
}

func (c SiteConfig) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSiteConfig)
	}
	if c.LogoURL != "" {
		if err := validateAbsoluteURL(c.LogoURL); err != nil {
			return fmt.Errorf("%w: logo: %v", ErrInvalidSiteConfig, err)
		}
	}
	return nil
}

// NavBar is what the presentation shell renders on every page.
type NavBar struct {
	Title     string `json:"title"`
	LogoURL   string `json:"logo_url,omitempty"`
	ShowLogo  bool   `json:"show_logo"`
	HomePath  string `json:"home_path"`
	AdminPath string `json:"admin_path"`
}

func NewNavBar(cfg SiteConfig) NavBar {
	title := cfg.Name
	if title == "" {
		title = DefaultSiteName
	}
	return NavBar{
		Title:     title,
		LogoURL:   cfg.LogoURL,
		ShowLogo:  cfg.LogoURL != "",
		HomePath:  "/",
		AdminPath: "/admin",
	}
}
