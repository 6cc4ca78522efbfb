package models

// QuoteEmailData holds the values substituted into quote e-mail templates.
type QuoteEmailData struct {
	CustomerName   string
	CustomerEmail  string
	Company        string
	ProjectType    string
	FormattedPrice string
	FormattedTotal string
	EstimateRange  string
	SubmissionID   string
	QuoteURL       string
	SupportEmail   string
}

// EmailTemplateVariable describes one placeholder usable in a template.
type EmailTemplateVariable struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}
