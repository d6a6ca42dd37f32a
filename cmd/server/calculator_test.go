package main

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func addTool(t *testing.T, app *testApp, id string) {
	t.Helper()
	resp := app.postForm("/calculator/tools", url.Values{"tool_id": {id}})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("add %s: expected 303, got %d", id, resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/calculator" {
		t.Fatalf("add %s: redirected to %q", id, loc)
	}
}

func calculatorPage(t *testing.T, app *testApp) string {
	t.Helper()
	resp, body := app.get("/calculator")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /calculator: %d", resp.StatusCode)
	}
	return body
}

func TestCalculatorStartsEmptyWithDefaults(t *testing.T) {
	app := newTestApp(t)

	body := calculatorPage(t, app)
	if !strings.Contains(body, "Add a tool to see what it costs your team.") {
		t.Fatalf("expected empty state")
	}
	if !strings.Contains(body, `name="team_size" min="1" max="100" value="5"`) {
		t.Fatalf("expected default team size of 5")
	}
}

func TestCalculatorProjectsMonthlyAndAnnual(t *testing.T) {
	app := newTestApp(t)
	addTool(t, app, "chatgpt")

	body := calculatorPage(t, app)
	if !strings.Contains(body, "ChatGPT") || !strings.Contains(body, "$50/month") {
		t.Fatalf("expected ChatGPT at $50/month")
	}

	app.postForm("/calculator/settings", url.Values{"team_size": {"5"}, "billing_cycle": {"annual"}})
	body = calculatorPage(t, app)
	for _, want := range []string{"$510/year", "You save", "$90"} {
		if !strings.Contains(body, want) {
			t.Fatalf("annual page missing %q", want)
		}
	}
}

func TestCalculatorPlanAndUsageChanges(t *testing.T) {
	app := newTestApp(t)
	addTool(t, app, "chatgpt")

	app.postForm("/calculator/tools/chatgpt/plan", url.Values{"plan": {"Team"}})
	if body := calculatorPage(t, app); !strings.Contains(body, "<td>$75</td>") {
		t.Fatalf("expected Team plan at $75")
	}

	app.postForm("/calculator/tools/chatgpt/usage", url.Values{"usage": {"100"}})
	if body := calculatorPage(t, app); !strings.Contains(body, "<td>$150</td>") {
		t.Fatalf("expected full usage at $150")
	}

	// Unknown plans are ignored.
	app.postForm("/calculator/tools/chatgpt/plan", url.Values{"plan": {"Galactic"}})
	if body := calculatorPage(t, app); !strings.Contains(body, "<td>$150</td>") {
		t.Fatalf("unknown plan changed the projection")
	}

	app.postForm("/calculator/tools/chatgpt/usage", url.Values{"usage": {"lots"}})
	if body := calculatorPage(t, app); !strings.Contains(body, "Usage must be a whole percentage.") {
		t.Fatalf("expected usage warning")
	}
}

func TestCalculatorRejectsSixthTool(t *testing.T) {
	app := newTestApp(t)
	for _, id := range []string{"chatgpt", "claude", "jasper", "midjourney", "notion-ai"} {
		addTool(t, app, id)
	}
	addTool(t, app, "perplexity")

	body := calculatorPage(t, app)
	if !strings.Contains(body, `<div class="alert alert-error">You can compare up to 5 tools at once</div>`) {
		t.Fatalf("expected capacity warning")
	}
	if strings.Contains(body, "<td>Perplexity</td>") {
		t.Fatalf("sixth tool was added")
	}
	if strings.Contains(body, `name="tool_id"`) {
		t.Fatalf("add form should be hidden when the calculator is full")
	}

	// The warning is shown once.
	if body := calculatorPage(t, app); strings.Contains(body, "alert-error") {
		t.Fatalf("warning shown twice")
	}
}

func TestCalculatorDuplicateAndUnknownTools(t *testing.T) {
	app := newTestApp(t)
	addTool(t, app, "claude")
	addTool(t, app, "claude")

	body := calculatorPage(t, app)
	if !strings.Contains(body, "That tool is already selected.") {
		t.Fatalf("expected duplicate warning")
	}
	if strings.Count(body, "<td>Claude</td>") != 1 {
		t.Fatalf("duplicate tool listed")
	}

	addTool(t, app, "no-such-tool")
	if body := calculatorPage(t, app); !strings.Contains(body, "alert-error") {
		t.Fatalf("expected warning for unknown tool")
	}
}

func TestCalculatorCustomPlanNeedsContactSales(t *testing.T) {
	app := newTestApp(t)
	addTool(t, app, "synthesia")
	addTool(t, app, "claude")
	app.postForm("/calculator/tools/synthesia/plan", url.Values{"plan": {"Enterprise"}})

	body := calculatorPage(t, app)
	if !strings.Contains(body, "Contact sales") {
		t.Fatalf("expected contact sales for custom plan")
	}
	if !strings.Contains(body, "Custom pricing, not included in the total: Synthesia.") {
		t.Fatalf("expected custom pricing note")
	}
	if !strings.Contains(body, "<th>$50/month</th>") {
		t.Fatalf("expected total of the numeric plans only")
	}
}

func TestCalculatorSettingsClampAndValidate(t *testing.T) {
	app := newTestApp(t)

	app.postForm("/calculator/settings", url.Values{"team_size": {"0"}})
	if body := calculatorPage(t, app); !strings.Contains(body, `value="1"`) {
		t.Fatalf("team size 0 should clamp to 1")
	}

	app.postForm("/calculator/settings", url.Values{"team_size": {"5000"}})
	if body := calculatorPage(t, app); !strings.Contains(body, `max="100" value="100"`) {
		t.Fatalf("team size should clamp to 100")
	}

	app.postForm("/calculator/settings", url.Values{"team_size": {"many"}})
	body := calculatorPage(t, app)
	if !strings.Contains(body, "Team size must be a whole number.") || !strings.Contains(body, `max="100" value="100"`) {
		t.Fatalf("invalid team size should warn and keep the previous value")
	}
}

func TestCalculatorRemoveAndReset(t *testing.T) {
	app := newTestApp(t)
	addTool(t, app, "chatgpt")
	addTool(t, app, "claude")

	app.postForm("/calculator/tools/chatgpt/remove", nil)
	body := calculatorPage(t, app)
	if strings.Contains(body, "<td>ChatGPT</td>") || !strings.Contains(body, "<td>Claude</td>") {
		t.Fatalf("remove dropped the wrong tool")
	}

	// Removing an absent tool is a no-op.
	resp := app.postForm("/calculator/tools/chatgpt/remove", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}

	app.postForm("/calculator/settings", url.Values{"team_size": {"12"}, "billing_cycle": {"annual"}})
	app.postForm("/calculator/reset", nil)
	body = calculatorPage(t, app)
	if !strings.Contains(body, "Add a tool to see what it costs your team.") || !strings.Contains(body, `value="5"`) {
		t.Fatalf("reset should restore the defaults")
	}
}

func TestCalculatorStateIsPerSession(t *testing.T) {
	first := newTestApp(t)
	addTool(t, first, "chatgpt")

	other := *first
	other.client = &http.Client{CheckRedirect: first.client.CheckRedirect}
	if body := calculatorPage(t, &other); strings.Contains(body, "<td>ChatGPT</td>") {
		t.Fatalf("calculator state leaked across sessions")
	}
}
