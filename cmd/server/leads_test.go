package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/siteoptz/siteoptz/internal/leads"
	"github.com/siteoptz/siteoptz/internal/middleware"
	"github.com/siteoptz/siteoptz/internal/respond"
)

func TestSubscribeIsIdempotent(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.postJSON("/api/subscribe", `{"email":"Ada@Example.com","source":"calculator"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var env respond.Envelope
	decode(t, body, &env)
	if !env.Success || env.Message != "Successfully subscribed!" {
		t.Fatalf("unexpected envelope %+v", env)
	}

	_, body = app.postJSON("/api/subscribe", `{"email":"ada@example.com"}`)
	decode(t, body, &env)
	if !env.Success || env.Message != "You're already subscribed." {
		t.Fatalf("unexpected duplicate envelope %+v", env)
	}

	counts, err := app.srv.leads.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts[leads.KindSubscribe] != 1 {
		t.Fatalf("expected one subscribe lead, got %d", counts[leads.KindSubscribe])
	}
}

func TestLeadEndpointsValidate(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		path    string
		body    string
		message string
	}{
		{"/api/subscribe", `{"email":"not-an-email"}`, "Invalid email format"},
		{"/api/subscribe", `{}`, "Missing required field: email"},
		{"/api/pricing-quote", `{"email":"a@b.co"}`, "Missing required field: tool"},
		{"/api/expert-consultation", `{"firstName":"A","lastName":"B","email":"a@b.co"}`, "Missing required field: company"},
		{"/api/webinar-registration", `{"name":"A","email":"a@b.co"}`, "Missing required field: webinar"},
		{"/api/job-application", `{"firstName":"A","lastName":"B","email":"a@b.co","phone":"1","currentLocation":"X","eligibleToWork":"yes","startDate":"now","experience":"x","motivation":"y","positionTitle":"Engineer","resumeUrl":"not a url"}`, "Invalid URL for field: resumeUrl"},
		{"/api/subscribe", `{"email":`, "invalid JSON body"},
	}
	for _, tc := range cases {
		resp, body := app.postJSON(tc.path, tc.body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s %s: expected 400, got %d", tc.path, tc.body, resp.StatusCode)
		}
		var env respond.Envelope
		decode(t, body, &env)
		if env.Success || env.Message != tc.message {
			t.Fatalf("%s: expected %q, got %+v", tc.path, tc.message, env)
		}
	}
}

func TestLeadEndpointsRejectGet(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/subscribe", "/api/pricing-quote", "/api/download-guide", "/api/checkout"} {
		resp, body := app.get(path)
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Fatalf("GET %s: expected 405, got %d", path, resp.StatusCode)
		}
		if !strings.Contains(body, "Method not allowed") {
			t.Fatalf("GET %s: unexpected body %s", path, body)
		}
	}
}

func TestPricingQuoteAndConsultationAreStored(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.postJSON("/api/pricing-quote", `{"email":"buyer@corp.example","tool":"ChatGPT","calculatedCost":510,"users":5,"planType":"annual","selectedPlan":"Plus"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pricing quote: %d %s", resp.StatusCode, body)
	}
	resp, body = app.postJSON("/api/expert-consultation", `{"firstName":"Grace","lastName":"Hopper","email":"grace@navy.example","company":"Navy","interestedTools":["Claude"],"totalCost":1200,"billingCycle":"monthly"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("consultation: %d %s", resp.StatusCode, body)
	}

	list, err := app.srv.leads.List(context.Background(), leads.Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(list))
	}
	kinds := map[leads.Kind]leads.Lead{}
	for _, l := range list {
		kinds[l.Kind] = l
	}
	if kinds[leads.KindExpertConsultation].Name != "Grace Hopper" {
		t.Fatalf("unexpected consultation lead %+v", kinds[leads.KindExpertConsultation])
	}
	if !strings.Contains(string(kinds[leads.KindPricingQuote].Payload), `"calculatedCost":510`) {
		t.Fatalf("quote payload missing cost: %s", kinds[leads.KindPricingQuote].Payload)
	}
}

const guideRequest = `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","company":"Engines","role":"CTO","companySize":"11-50"}`

func TestDownloadGuideIssuesWorkingLink(t *testing.T) {
	app := newTestApp(t)
	pdf := []byte("%PDF-1.4 guide")
	if err := os.WriteFile(filepath.Join(app.srv.cfg.GuidesDir, "ai-tools-comparison-guide-2025.pdf"), pdf, 0o644); err != nil {
		t.Fatalf("write guide: %v", err)
	}

	resp, body := app.postJSON("/api/download-guide", guideRequest)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var got downloadGuideResponse
	decode(t, body, &got)
	prefix := "https://siteoptz.test/downloads/"
	if !got.Success || !strings.HasPrefix(got.DownloadURL, prefix) {
		t.Fatalf("unexpected response %+v", got)
	}

	resp, body = app.get("/downloads/" + strings.TrimPrefix(got.DownloadURL, prefix))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", resp.StatusCode)
	}
	if body != string(pdf) {
		t.Fatalf("unexpected file contents %q", body)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("expected attachment disposition, got %q", cd)
	}
}

func TestDownloadGuideErrors(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.postJSON("/api/download-guide", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","company":"Engines","role":"CTO","companySize":"11-50","guide":"missing-guide"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown guide: expected 404, got %d", resp.StatusCode)
	}

	resp, _ = app.get("/downloads/not-a-token")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", resp.StatusCode)
	}

	// The guide row exists but the file was never uploaded.
	token, err := app.srv.signer.Issue("ai-roi-playbook", "ada@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	resp, _ = app.get("/downloads/" + token)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing file: expected 404, got %d", resp.StatusCode)
	}
}

func TestLeadEndpointsAreRateLimited(t *testing.T) {
	app := newTestApp(t)
	app.srv.limiter = middleware.NewRateLimiter(0.001, 1)
	ts := httptest.NewServer(app.srv.routes())
	t.Cleanup(ts.Close)

	post := func(body string) (int, string) {
		resp, err := http.Post(ts.URL+"/api/subscribe", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		return resp.StatusCode, readBody(t, resp)
	}

	first, _ := post(`{"email":"one@example.com"}`)
	second, body := post(`{"email":"two@example.com"}`)
	if first != http.StatusOK || second != http.StatusTooManyRequests {
		t.Fatalf("expected 200 then 429, got %d then %d", first, second)
	}
	if !strings.Contains(body, "Too many requests") {
		t.Fatalf("unexpected body %s", body)
	}
}
