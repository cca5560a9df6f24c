package scraper

import (
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
)

func TestZZDebugLoginRedirect(t *testing.T) {
	_, _, page := setupPlaywright(t)

	err := page.Route("**/*", func(route playwright.Route) {
		t.Logf("route: %s", route.Request().URL())
		if strings.Contains(route.Request().URL(), "/login") {
			route.Fulfill(playwright.RouteFulfillOptions{
				Status:      playwright.Int(200),
				ContentType: playwright.String("text/html"),
				Body:        "<html><body>Sign in</body></html>",
			})
			return
		}
		err := route.Fulfill(playwright.RouteFulfillOptions{
			Status:  playwright.Int(302),
			Headers: map[string]string{"Location": "https://www.linkedin.com/login"},
		})
		t.Logf("fulfill 302 err=%v", err)
	})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := page.Goto("https://www.linkedin.com/feed/", playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(10000),
	})
	t.Logf("goto err=%v finalURL=%s", err, page.URL())
	if resp != nil {
		t.Logf("status=%d url=%s", resp.Status(), resp.URL())
	}
}
