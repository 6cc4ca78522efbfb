package services

import (
	"errors"
	"fmt"
	"net/smtp"
	"regexp"
	"strconv"
	"strings"

	"estimator-backend/calculator"
	"estimator-backend/config"
	"estimator-backend/models"

	"go.uber.org/multierr"
	"golang.org/x/net/html"
)

// Default quote templates. Placeholders are written as {{name}}.
const (
	CustomerQuoteSubject = "Your project estimate {{formatted_price}}"
	CustomerQuoteBody    = `<h2>Hi {{customer_name}},</h2>
<p>Thank you for using our project calculator. Here is your estimate:</p>
<table>
<tr><td>Project type</td><td>{{project_type}}</td></tr>
<tr><td>Estimate</td><td>{{formatted_price}}</td></tr>
<tr><td>Total incl. GST</td><td>{{formatted_total}}</td></tr>
<tr><td>Range</td><td>{{estimate_range}}</td></tr>
</table>
<p>Your quote: {{quote_url}}</p>
<p>Questions? Write to {{support_email}}.</p>`

	SalesQuoteSubject = "New calculator submission from {{customer_name}}"
	SalesQuoteBody    = `<h3>New quote request</h3>
<ul>
<li>Name: {{customer_name}}</li>
<li>Email: {{customer_email}}</li>
<li>Company: {{company}}</li>
<li>Project type: {{project_type}}</li>
<li>Estimate: {{formatted_price}} ({{estimate_range}})</li>
<li>Submission: {{submission_id}}</li>
</ul>`
)

// convertHTMLToText converts HTML content to plain text for email sending
func convertHTMLToText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var text strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6", "table", "tr", "ul":
				text.WriteString("\n")
			case "li":
				text.WriteString("\n• ")
			case "td", "th":
				text.WriteString(" | ")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			extractText(child)
		}
	}
	extractText(doc)

	result := text.String()
	for strings.Contains(result, "\n\n\n") {
		result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(result)
}

// SendMailFunc matches smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService sends quote notifications over SMTP.
type EmailService struct {
	cfg      config.SMTPConfig
	sendMail SendMailFunc
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg, sendMail: smtp.SendMail}
}

// WithSendMail replaces the SMTP transport, mainly for tests.
func (es *EmailService) WithSendMail(fn SendMailFunc) *EmailService {
	es.sendMail = fn
	return es
}

// Enabled reports whether SMTP is configured.
func (es *EmailService) Enabled() bool {
	return es != nil && es.cfg.Enabled()
}

// SendQuoteEmails mails the estimate to the customer and a notice to the
// sales inbox. Recipients that are not configured are skipped.
func (es *EmailService) SendQuoteEmails(data models.QuoteEmailData) error {
	if !es.Enabled() {
		return nil
	}
	var err error
	if data.CustomerEmail != "" {
		err = multierr.Append(err, es.SendTemplatedEmail(data.CustomerEmail, CustomerQuoteSubject, CustomerQuoteBody, data))
	}
	if es.cfg.SalesInbox != "" {
		err = multierr.Append(err, es.SendTemplatedEmail(es.cfg.SalesInbox, SalesQuoteSubject, SalesQuoteBody, data))
	}
	return err
}

// SendTemplatedEmail renders subject and body with data and sends the text
// rendering of the body to one recipient.
func (es *EmailService) SendTemplatedEmail(to, subjectTpl, bodyTpl string, data models.QuoteEmailData) error {
	subject, err := es.processTemplate(subjectTpl, data)
	if err != nil {
		return fmt.Errorf("failed to process subject template: %w", err)
	}
	body, err := es.processTemplate(bodyTpl, data)
	if err != nil {
		return fmt.Errorf("failed to process body template: %w", err)
	}
	return es.sendEmail(to, subject, convertHTMLToText(body))
}

// PreviewEmailAsText renders a template as the plain text that would be sent.
func (es *EmailService) PreviewEmailAsText(htmlContent string, data models.QuoteEmailData) (string, error) {
	processed, err := es.processTemplate(htmlContent, data)
	if err != nil {
		return "", fmt.Errorf("failed to process template: %w", err)
	}
	return convertHTMLToText(processed), nil
}

func templateVariables(data models.QuoteEmailData) map[string]string {
	return map[string]string{
		"customer_name":   data.CustomerName,
		"customer_email":  data.CustomerEmail,
		"company":         data.Company,
		"project_type":    data.ProjectType,
		"formatted_price": data.FormattedPrice,
		"formatted_total": data.FormattedTotal,
		"estimate_range":  data.EstimateRange,
		"submission_id":   data.SubmissionID,
		"quote_url":       data.QuoteURL,
		"support_email":   data.SupportEmail,
	}
}

// processTemplate processes a template string with variable substitution
func (es *EmailService) processTemplate(templateStr string, data models.QuoteEmailData) (string, error) {
	if err := es.ValidateTemplate(templateStr); err != nil {
		return "", err
	}
	result := templateStr
	for key, value := range templateVariables(data) {
		result = strings.ReplaceAll(result, "{{"+key+"}}", value)
	}
	return result, nil
}

func (es *EmailService) sendEmail(to, subject, body string) error {
	if !es.Enabled() {
		return errors.New("smtp is not configured")
	}
	var auth smtp.Auth
	if es.cfg.Username != "" {
		auth = smtp.PlainAuth("", es.cfg.Username, es.cfg.Password, es.cfg.Host)
	}

	headers := []string{
		"From: " + es.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}
	msg := []byte(strings.Join(headers, "\r\n") + "\r\n")

	addr := es.cfg.Host + ":" + strconv.Itoa(es.cfg.Port)
	return es.sendMail(addr, auth, es.cfg.From, []string{to}, msg)
}

var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// ValidateTemplate validates a template string for syntax errors
func (es *EmailService) ValidateTemplate(templateStr string) error {
	if strings.Count(templateStr, "{{") != strings.Count(templateStr, "}}") {
		return fmt.Errorf("unmatched braces in template")
	}
	valid := templateVariables(models.QuoteEmailData{})
	for _, match := range placeholderPattern.FindAllStringSubmatch(templateStr, -1) {
		variable := strings.TrimSpace(match[1])
		if _, ok := valid[variable]; !ok {
			return fmt.Errorf("invalid variable: %s", variable)
		}
	}
	return nil
}

// GetAvailableVariables returns a list of available template variables
func (es *EmailService) GetAvailableVariables() []models.EmailTemplateVariable {
	return []models.EmailTemplateVariable{
		{Key: "customer_name", Description: "Contact name"},
		{Key: "customer_email", Description: "Contact email"},
		{Key: "company", Description: "Contact company"},
		{Key: "project_type", Description: "Selected project type"},
		{Key: "formatted_price", Description: "Estimate before GST"},
		{Key: "formatted_total", Description: "Estimate including GST"},
		{Key: "estimate_range", Description: "Low to high estimate"},
		{Key: "submission_id", Description: "Submission ID"},
		{Key: "quote_url", Description: "Link to the quote PDF"},
		{Key: "support_email", Description: "Support email"},
	}
}

// BuildQuoteEmailData collects template values for a stored submission.
func BuildQuoteEmailData(sub *models.CalculatorSubmission, baseURL, supportEmail string) models.QuoteEmailData {
	quoteURL := ""
	if baseURL != "" {
		quoteURL = strings.TrimRight(baseURL, "/") + "/api/calculator-submissions/" + sub.ID + "/pdf"
	}
	return models.QuoteEmailData{
		CustomerName:   sub.ContactInfo.Name,
		CustomerEmail:  sub.ContactInfo.Email,
		Company:        sub.ContactInfo.Company,
		ProjectType:    sub.Selections.String(calculator.FieldProjectType),
		FormattedPrice: sub.Result.FormattedPrice,
		FormattedTotal: sub.Result.FormattedTotal,
		EstimateRange:  sub.Result.EstimateRange,
		SubmissionID:   sub.ID,
		QuoteURL:       quoteURL,
		SupportEmail:   supportEmail,
	}
}
