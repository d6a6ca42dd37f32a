package leads

// SubscribeRequest is posted by the newsletter and email-capture forms.
type SubscribeRequest struct {
	Email     string   `json:"email" validate:"required,email,max=254"`
	Name      string   `json:"name" validate:"max=200"`
	Company   string   `json:"company" validate:"max=200"`
	Source    string   `json:"source" validate:"max=100"`
	Interests []string `json:"interests" validate:"max=20,dive,max=100"`
}

// PricingQuoteRequest is posted by the calculator's "email me this quote" form.
type PricingQuoteRequest struct {
	Email          string  `json:"email" validate:"required,email,max=254"`
	Tool           string  `json:"tool" validate:"required,max=200"`
	CalculatedCost float64 `json:"calculatedCost" validate:"gte=0"`
	Users          int     `json:"users" validate:"omitempty,gte=1,lte=100000"`
	PlanType       string  `json:"planType" validate:"omitempty,oneof=monthly annual"`
	SelectedPlan   string  `json:"selectedPlan" validate:"max=200"`
	Source         string  `json:"source" validate:"max=100"`
}

// ConsultationRequest is posted by the expert-consultation modal.
type ConsultationRequest struct {
	FirstName       string   `json:"firstName" validate:"required,max=100"`
	LastName        string   `json:"lastName" validate:"required,max=100"`
	Email           string   `json:"email" validate:"required,email,max=254"`
	Company         string   `json:"company" validate:"required,max=200"`
	Phone           string   `json:"phone" validate:"max=50"`
	Message         string   `json:"message" validate:"max=5000"`
	InterestedTools []string `json:"interestedTools" validate:"max=20,dive,max=200"`
	Budget          string   `json:"budget" validate:"max=100"`
	Timeline        string   `json:"timeline" validate:"max=100"`
	TotalCost       float64  `json:"totalCost" validate:"gte=0"`
	BillingCycle    string   `json:"billingCycle" validate:"omitempty,oneof=monthly annual"`
}

// GuideRequest is posted by the guide-download form.
type GuideRequest struct {
	FirstName        string `json:"firstName" validate:"required,max=100"`
	LastName         string `json:"lastName" validate:"required,max=100"`
	Email            string `json:"email" validate:"required,email,max=254"`
	Company          string `json:"company" validate:"required,max=200"`
	Role             string `json:"role" validate:"required,max=100"`
	CompanySize      string `json:"companySize" validate:"required,max=50"`
	PrimaryInterest  string `json:"primaryInterest" validate:"max=200"`
	Timeline         string `json:"timeline" validate:"max=100"`
	MarketingConsent bool   `json:"marketingConsent"`
	Guide            string `json:"guide" validate:"omitempty,max=100"`
}

// WebinarRequest is posted by the webinar and podcast signup modals.
type WebinarRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Company  string `json:"company" validate:"max=200"`
	JobTitle string `json:"jobTitle" validate:"max=200"`
	Webinar  string `json:"webinar" validate:"required,max=200"`
}

// JobApplicationRequest is posted by the careers form. The resume is a link;
// uploads are not accepted.
type JobApplicationRequest struct {
	FirstName       string `json:"firstName" validate:"required,max=100"`
	LastName        string `json:"lastName" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Phone           string `json:"phone" validate:"required,max=50"`
	CurrentLocation string `json:"currentLocation" validate:"required,max=200"`
	EligibleToWork  string `json:"eligibleToWork" validate:"required,max=50"`
	StartDate       string `json:"startDate" validate:"required,max=50"`
	Experience      string `json:"experience" validate:"required,max=5000"`
	Motivation      string `json:"motivation" validate:"required,max=5000"`
	PositionTitle   string `json:"positionTitle" validate:"required,max=200"`
	ResumeURL       string `json:"resumeUrl" validate:"required,url,max=1000"`
	LinkedIn        string `json:"linkedin" validate:"omitempty,url,max=1000"`
}
