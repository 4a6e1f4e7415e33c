package fetch

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

func randomPause(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	time.Sleep(time.Duration(rand.Intn(max-min)+min) * time.Millisecond)
}

// humanize performs a small amount of mouse and scroll activity before the
// page content is read. Scrolling to the bottom also triggers lazy-loaded
// listings.
func humanize(page playwright.Page) {
	x := float64(rand.Intn(800) + 100)
	y := float64(rand.Intn(600) + 100)
	page.Mouse().Move(x, y)
	randomPause(100, 300)

	page.Mouse().Wheel(0, 500)
	randomPause(300, 700)
	page.Mouse().Wheel(0, -200)
	randomPause(200, 500)

	page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	randomPause(300, 600)
}
