package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"backend/models"
	"backend/repository"
)

// PDFService renders the printable RFQ document sent alongside vendor
// invitations. The embedded QR code carries the RFQ number so inbound paper
// quotes can be matched back to the document.
type PDFService struct {
	store repository.Store
}

// NewPDFService wires the renderer.
func NewPDFService(store repository.Store) *PDFService {
	return &PDFService{store: store}
}

// RenderRFQ produces the RFQ as a PDF.
func (s *PDFService) RenderRFQ(ctx context.Context, actor *models.User, rfqID uint) ([]byte, error) {
	rfq, err := s.store.RFQs().GetByID(ctx, rfqID)
	if err != nil {
		return nil, notFoundOr(err, "RFQ", rfqID)
	}
	if rfq.CompanyID != actor.CompanyID {
		return nil, &NotFoundError{Entity: "RFQ", ID: rfqID}
	}
	company, err := s.store.Scopes().GetCompany(ctx, rfq.CompanyID)
	if err != nil {
		return nil, notFoundOr(err, "company", rfq.CompanyID)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Request for Quotation "+rfq.RFQNumber, false)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, company.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, "Request for Quotation", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(50, 7, "RFQ Number:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, rfq.RFQNumber, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(50, 7, "Issue Date:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, rfq.IssueDate.Format("02 Jan 2006"), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(50, 7, "Submission Deadline:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, rfq.SubmissionDeadline.Format("02 Jan 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Line item table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(12, 8, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 8, "Item Code", "1", 0, "L", true, 0, "")
	pdf.CellFormat(28, 8, "Quantity", "1", 0, "R", true, 0, "")
	pdf.CellFormat(20, 8, "Unit", "1", 0, "L", true, 0, "")
	pdf.CellFormat(32, 8, "Required By", "1", 0, "L", true, 0, "")
	pdf.CellFormat(58, 8, "Specification", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for i, item := range rfq.LineItems {
		pdf.CellFormat(12, 7, strconv.Itoa(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, item.ItemCode, "1", 0, "L", false, 0, "")
		pdf.CellFormat(28, 7, fmt.Sprintf("%.3f", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 7, item.Unit, "1", 0, "L", false, 0, "")
		pdf.CellFormat(32, 7, item.RequiredDate.Format("02-01-2006"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(58, 7, item.Specification, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	if rfq.PaymentTerms != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Payment Terms", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, rfq.PaymentTerms, "", "L", false)
		pdf.Ln(2)
	}
	if rfq.DeliveryTerms != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Delivery Terms", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, rfq.DeliveryTerms, "", "L", false)
		pdf.Ln(2)
	}

	// QR code with the RFQ number, bottom-right
	png, err := qrcode.Encode(rfq.RFQNumber, qrcode.Medium, 256)
	if err == nil {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("rfq-qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("rfq-qr", 170, 250, 28, 28, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render RFQ PDF: %w", err)
	}
	return buf.Bytes(), nil
}
