package leads

import (
	"encoding/json"
	"time"
)

// Kind names the form a lead was captured from.
type Kind string

const (
	KindSubscribe           Kind = "subscribe"
	KindPricingQuote        Kind = "pricing_quote"
	KindExpertConsultation  Kind = "expert_consultation"
	KindGuideDownload       Kind = "guide_download"
	KindWebinarRegistration Kind = "webinar_registration"
	KindJobApplication      Kind = "job_application"
)

// Kinds lists every lead kind in display order.
var Kinds = []Kind{
	KindSubscribe,
	KindPricingQuote,
	KindExpertConsultation,
	KindGuideDownload,
	KindWebinarRegistration,
	KindJobApplication,
}

// Lead is one submitted form.
type Lead struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Email     string          `json:"email"`
	Name      string          `json:"name,omitempty"`
	Company   string          `json:"company,omitempty"`
	Source    string          `json:"source,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Subscriber is a newsletter contact, unique by email.
type Subscriber struct {
	Email     string
	Name      string
	Company   string
	Source    string
	Interests []string
	CreatedAt time.Time
}

// Filter narrows ListLeads. Zero values match everything.
type Filter struct {
	Kind   Kind
	Search string
	Limit  int
}
