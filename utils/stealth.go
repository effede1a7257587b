package utils

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay pauses execution for a random time between min and max (milliseconds)
func RandomDelay(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	duration := time.Duration(rand.Intn(max-min)+min) * time.Millisecond
	time.Sleep(duration)
}

// MouseJiggle simulates random mouse movements
func MouseJiggle(page playwright.Page) {
	//random position in viewport (100-900 x 100-700)
	x := float64(rand.Intn(800) + 100)
	y := float64(rand.Intn(600) + 100)

	page.Mouse().Move(x, y)
	RandomDelay(100, 300)
}

// GentleScroll scrolls a watched page enough to trigger lazy-loaded
// sections without racing past them
func GentleScroll(page playwright.Page) {
	page.Mouse().Wheel(0, 600)
	RandomDelay(300, 700)

	// Scroll to bottom to flush lazy loading, then return to the top so
	// the body text reads in document order
	page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	RandomDelay(300, 600)
	page.Evaluate("window.scrollTo(0, 0)")
}
