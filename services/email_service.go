package services

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"regexp"
	"strconv"
	"strings"

	"backend/models"
	"backend/repository"

	"golang.org/x/net/html"
)

// rfqInvitationTemplateType selects the default template for vendor
// solicitation mails.
const rfqInvitationTemplateType = "rfq_invitation"

// convertHTMLToText converts HTML content to plain text for email sending
func convertHTMLToText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		// If parsing fails, return the original content
		return htmlContent
	}

	var text strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			// Add line breaks for block elements
			switch n.Data {
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6":
				text.WriteString("\n")
			case "li":
				text.WriteString("- ")
			case "table", "tr":
				text.WriteString("\n")
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
	result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	result = strings.TrimSpace(result)

	return result
}

// EmailService sends vendor-facing mail from DB-stored templates. It
// implements EmailSender for the RFQ lifecycle.
type EmailService struct {
	store repository.Store
}

// NewEmailService creates a new email service instance
func NewEmailService(store repository.Store) *EmailService {
	return &EmailService{store: store}
}

// SendRFQInvitation emails one vendor their invitation to quote on an RFQ,
// using the default rfq_invitation template.
func (es *EmailService) SendRFQInvitation(ctx context.Context, rfq *models.RFQ, vendor models.Vendor) error {
	if vendor.Email == "" {
		return fmt.Errorf("vendor %d has no email address", vendor.ID)
	}

	company, err := es.store.Scopes().GetCompany(ctx, rfq.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to load company %d: %w", rfq.CompanyID, err)
	}

	data := models.EmailData{
		VendorName:         vendor.Name,
		ContactPerson:      vendor.ContactPerson,
		Email:              vendor.Email,
		CompanyName:        company.Name,
		RFQNumber:          rfq.RFQNumber,
		SubmissionDeadline: rfq.SubmissionDeadline.Format("02 Jan 2006"),
		ItemCount:          strconv.Itoa(len(rfq.LineItems)),
		PaymentTerms:       rfq.PaymentTerms,
		DeliveryTerms:      rfq.DeliveryTerms,
		SupportEmail:       os.Getenv("SUPPORT_EMAIL"),
	}
	return es.SendTemplatedEmail(ctx, rfqInvitationTemplateType, data, nil)
}

// SendTemplatedEmail sends an email using a template with variable substitution
func (es *EmailService) SendTemplatedEmail(ctx context.Context, templateType string, emailData models.EmailData, customTemplateID *uint) error {
	var emailTemplate *models.EmailTemplate
	var err error

	// Template selection logic:
	// 1. If custom template ID is provided, use that specific template
	// 2. Otherwise, automatically use the default template for the type
	if customTemplateID != nil {
		emailTemplate, err = es.store.Templates().GetByID(ctx, *customTemplateID)
		if err != nil {
			return fmt.Errorf("failed to get custom template (ID: %d): %w", *customTemplateID, err)
		}
		if emailTemplate.TemplateType != templateType {
			return fmt.Errorf("custom template type mismatch: expected %s, got %s", templateType, emailTemplate.TemplateType)
		}
	} else {
		emailTemplate, err = es.store.Templates().GetDefault(ctx, templateType)
		if err != nil {
			return fmt.Errorf("failed to get default template for type '%s': %w", templateType, err)
		}
	}

	subject := es.processTemplate(emailTemplate.Subject, emailData)
	body := es.processTemplate(emailTemplate.Body, emailData)

	// Convert HTML body to plain text for email sending
	plainTextBody := convertHTMLToText(body)

	return es.sendEmail(emailData.Email, subject, plainTextBody, emailTemplate.CC, emailTemplate.BCC)
}

// PreviewEmailAsText renders a template to plain text so the frontend can
// show how the HTML will read in a vendor's inbox.
func (es *EmailService) PreviewEmailAsText(htmlContent string, emailData models.EmailData) string {
	return convertHTMLToText(es.processTemplate(htmlContent, emailData))
}

// processTemplate processes a template string with variable substitution
func (es *EmailService) processTemplate(templateStr string, data models.EmailData) string {
	variables := map[string]string{
		"vendor_name":         data.VendorName,
		"contact_person":      data.ContactPerson,
		"email":               data.Email,
		"company_name":        data.CompanyName,
		"rfq_number":          data.RFQNumber,
		"submission_deadline": data.SubmissionDeadline,
		"item_count":          data.ItemCount,
		"payment_terms":       data.PaymentTerms,
		"delivery_terms":      data.DeliveryTerms,
		"support_email":       data.SupportEmail,
	}

	result := templateStr
	for key, value := range variables {
		placeholder := fmt.Sprintf("{{%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return result
}

// sendEmail sends an email using SMTP with optional CC and BCC
func (es *EmailService) sendEmail(to, subject, body string, cc, bcc []string) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = user
	}

	auth := smtp.PlainAuth("", user, password, host)

	toList := []string{to}
	toList = append(toList, cc...)
	toList = append(toList, bcc...)

	// Build email headers
	headers := []string{
		"From: " + from,
		"To: " + to,
	}
	if len(cc) > 0 {
		headers = append(headers, "Cc: "+strings.Join(cc, ", "))
	}
	headers = append(headers,
		"Subject: "+subject,
		"",
		body,
	)

	msg := []byte(strings.Join(headers, "\r\n") + "\r\n")

	return smtp.SendMail(host+":"+port, auth, from, toList, msg)
}

// ValidateTemplate validates a template string for syntax errors
func (es *EmailService) ValidateTemplate(templateStr string) error {
	openBraces := strings.Count(templateStr, "{{")
	closeBraces := strings.Count(templateStr, "}}")

	if openBraces != closeBraces {
		return fmt.Errorf("unmatched braces in template")
	}

	re := regexp.MustCompile(`\{\{([^}]+)\}\}`)
	matches := re.FindAllStringSubmatch(templateStr, -1)

	validVariables := map[string]bool{
		"vendor_name":         true,
		"contact_person":      true,
		"email":               true,
		"company_name":        true,
		"rfq_number":          true,
		"submission_deadline": true,
		"item_count":          true,
		"payment_terms":       true,
		"delivery_terms":      true,
		"support_email":       true,
	}

	for _, match := range matches {
		if len(match) > 1 {
			variable := strings.TrimSpace(match[1])
			if !validVariables[variable] {
				return fmt.Errorf("invalid variable: %s", variable)
			}
		}
	}

	return nil
}

// GetAvailableVariables returns a list of available template variables
func (es *EmailService) GetAvailableVariables() []models.EmailTemplateVariable {
	return []models.EmailTemplateVariable{
		{Key: "vendor_name", Description: "Vendor name"},
		{Key: "contact_person", Description: "Vendor contact person"},
		{Key: "email", Description: "Vendor email"},
		{Key: "company_name", Description: "Issuing company name"},
		{Key: "rfq_number", Description: "RFQ document number"},
		{Key: "submission_deadline", Description: "Quotation submission deadline"},
		{Key: "item_count", Description: "Number of line items"},
		{Key: "payment_terms", Description: "Payment terms"},
		{Key: "delivery_terms", Description: "Delivery terms"},
		{Key: "support_email", Description: "Support contact"},
	}
}
