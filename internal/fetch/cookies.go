package fetch

import (
	"encoding/json"
	"os"

	"github.com/playwright-community/playwright-go"
)

type storedCookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// LoadCookies reads exported browser cookies from a JSON file for seeding
// browser-strategy sessions. A missing file is the caller's problem; a
// malformed one is an error, not a panic.
func LoadCookies(path string) ([]playwright.OptionalCookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	cookies := make([]playwright.OptionalCookie, 0, len(stored))
	for _, c := range stored {
		cookie := playwright.OptionalCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   playwright.String(c.Domain),
			Path:     playwright.String(c.Path),
			HttpOnly: playwright.Bool(c.HTTPOnly),
			Secure:   playwright.Bool(c.Secure),
		}
		if c.Expires > 0 {
			cookie.Expires = playwright.Float(c.Expires)
		}
		switch c.SameSite {
		case "Lax":
			cookie.SameSite = playwright.SameSiteAttributeLax
		case "Strict":
			cookie.SameSite = playwright.SameSiteAttributeStrict
		case "None":
			cookie.SameSite = playwright.SameSiteAttributeNone
		}
		cookies = append(cookies, cookie)
	}
	return cookies, nil
}
