package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/siteoptz/siteoptz/internal/respond"
)

func TestAPIToolsQuery(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get("/api/tools?sort=price&order=asc")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got struct {
		Tools []struct {
			ID string `json:"id"`
		} `json:"tools"`
		Categories []string `json:"categories"`
		Count      int      `json:"count"`
	}
	decode(t, body, &got)
	if got.Count != 12 || len(got.Tools) != 12 {
		t.Fatalf("expected 12 tools, got %d", got.Count)
	}
	// Free plans tie and keep catalog order.
	if got.Tools[0].ID != "grammarly" || got.Tools[1].ID != "zapier-ai" {
		t.Fatalf("expected free plans first, got %s, %s", got.Tools[0].ID, got.Tools[1].ID)
	}
	if len(got.Categories) == 0 {
		t.Fatalf("expected categories")
	}
}

func TestAPIToolByID(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get("/api/tools/github-copilot")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var tool struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Pricing []struct {
			Plan          string `json:"plan"`
			PricePerMonth any    `json:"pricePerMonth"`
		} `json:"pricing"`
	}
	decode(t, body, &tool)
	if tool.Name != "GitHub Copilot" || len(tool.Pricing) != 2 || tool.Pricing[0].Plan != "Monthly" {
		t.Fatalf("unexpected tool %+v", tool)
	}

	resp, body = app.get("/api/tools/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	var env respond.Envelope
	decode(t, body, &env)
	if env.Success || env.Message != "tool not found" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestAPIProjectMonthlyAndAnnual(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.postJSON("/api/calculator/project", `{"tools":[{"id":"chatgpt","plan":"Plus","usage":50}],"teamSize":5,"billingCycle":"monthly"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var monthly projectionResponse
	decode(t, body, &monthly)
	if monthly.Total != 50 || monthly.TotalDisplay != "$50" || monthly.PerTool["chatgpt"] != 50 {
		t.Fatalf("unexpected monthly projection %+v", monthly)
	}

	_, body = app.postJSON("/api/calculator/project", `{"tools":[{"id":"chatgpt","plan":"Plus","usage":50}],"teamSize":5,"billingCycle":"annual"}`)
	var annual projectionResponse
	decode(t, body, &annual)
	if annual.Total != 510 || annual.Savings != 90 || annual.MonthlyTotal != 42.5 {
		t.Fatalf("unexpected annual projection %+v", annual)
	}
	if annual.BillingCycle != "annual" {
		t.Fatalf("expected annual cycle, got %s", annual.BillingCycle)
	}
}

func TestAPIProjectDefaultsAndCoercion(t *testing.T) {
	app := newTestApp(t)

	_, body := app.postJSON("/api/calculator/project", `{"tools":[{"id":"claude"}]}`)
	var got projectionResponse
	decode(t, body, &got)
	if got.TeamSize != 5 || got.BillingCycle != "monthly" || got.Lines[0].Usage != 50 || got.Total != 50 {
		t.Fatalf("unexpected defaults %+v", got)
	}

	_, body = app.postJSON("/api/calculator/project", `{"tools":[{"id":"claude","usage":3}],"teamSize":-4,"billingCycle":"weekly"}`)
	decode(t, body, &got)
	if got.TeamSize != 1 || got.BillingCycle != "monthly" || got.Lines[0].Usage != 10 || got.Total != 2 {
		t.Fatalf("unexpected coercion %+v", got)
	}

	_, body = app.postJSON("/api/calculator/project", `{"tools":[]}`)
	decode(t, body, &got)
	if got.Total != 0 || len(got.Lines) != 0 || got.ContactSales == nil {
		t.Fatalf("unexpected empty projection %+v", got)
	}
}

func TestAPIProjectCustomPlan(t *testing.T) {
	app := newTestApp(t)

	_, body := app.postJSON("/api/calculator/project", `{"tools":[{"id":"chatgpt","plan":"Enterprise"},{"id":"perplexity"}]}`)
	var got projectionResponse
	decode(t, body, &got)
	if len(got.ContactSales) != 1 || got.ContactSales[0] != "ChatGPT" {
		t.Fatalf("expected ChatGPT in contact sales, got %v", got.ContactSales)
	}
	if !got.Lines[0].Custom || got.Lines[0].PricePerMonth != nil || got.Lines[0].CostDisplay != "Contact sales" {
		t.Fatalf("unexpected custom line %+v", got.Lines[0])
	}
	if _, ok := got.PerTool["chatgpt"]; ok {
		t.Fatalf("custom plan should not have a per-tool cost")
	}
	if got.Total != 50 {
		t.Fatalf("expected total of 50, got %v", got.Total)
	}
}

func TestAPIProjectErrors(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"unknown tool", `{"tools":[{"id":"nope"}]}`, http.StatusBadRequest},
		{"unknown plan", `{"tools":[{"id":"chatgpt","plan":"Galactic"}]}`, http.StatusBadRequest},
		{"duplicate", `{"tools":[{"id":"chatgpt"},{"id":"chatgpt"}]}`, http.StatusBadRequest},
		{"over cap", `{"tools":[{"id":"chatgpt"},{"id":"claude"},{"id":"jasper"},{"id":"midjourney"},{"id":"notion-ai"},{"id":"perplexity"}]}`, http.StatusConflict},
		{"bad json", `{"tools":`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := app.postJSON("/api/calculator/project", tc.body)
			if resp.StatusCode != tc.code {
				t.Fatalf("expected %d, got %d: %s", tc.code, resp.StatusCode, body)
			}
		})
	}

	_, body := app.postJSON("/api/calculator/project", cases[3].body)
	if !strings.Contains(body, "You can compare up to 5 tools at once") {
		t.Fatalf("expected capacity message, got %s", body)
	}
}
