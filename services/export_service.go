package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"backend/models"
)

// ExportService writes the comparison views into an Excel workbook for
// offline review by the procurement committee.
type ExportService struct {
	comparisons *ComparisonService
}

// NewExportService wires the exporter.
func NewExportService(comparisons *ComparisonService) *ExportService {
	return &ExportService{comparisons: comparisons}
}

// ComparisonWorkbook renders the item matrix and the overall ranking as two
// sheets of one xlsx file.
func (s *ExportService) ComparisonWorkbook(ctx context.Context, actor *models.User, rfqID uint) ([]byte, error) {
	result, err := s.comparisons.Compare(ctx, actor, rfqID)
	if err != nil {
		return nil, err
	}

	titleCaser := cases.Title(language.Und)
	f := excelize.NewFile()
	defer f.Close()

	itemSheet := "Item Comparison"
	f.SetSheetName("Sheet1", itemSheet)
	itemHeaders := []string{"Item Code", "Quantity", "Unit", "Vendor", "Rating", "Unit Price", "Total", "Delivery Days", "Warranty Months"}
	for col, header := range itemHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(itemSheet, cell, header)
	}
	row := 2
	for _, item := range result.Items {
		for _, entry := range item.Vendors {
			values := []any{
				item.ItemCode,
				item.Quantity,
				item.Unit,
				titleCaser.String(entry.VendorName),
				entry.VendorRating,
				entry.UnitPrice.InexactFloat64(),
				entry.TotalPrice.InexactFloat64(),
				entry.DeliveryDays,
				entry.WarrantyMonths,
			}
			for col, value := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(itemSheet, cell, value)
			}
			row++
		}
	}

	rankingSheet := "Overall Ranking"
	if _, err := f.NewSheet(rankingSheet); err != nil {
		return nil, fmt.Errorf("failed to add ranking sheet: %w", err)
	}
	rankingHeaders := []string{"Rank", "Vendor", "Rating", "Total Amount", "Currency", "Payment Terms", "Delivery Terms", "Valid Until"}
	for col, header := range rankingHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(rankingSheet, cell, header)
	}
	for i, ranked := range result.Ranking {
		validUntil := ""
		if ranked.ValidUntil != nil {
			validUntil = ranked.ValidUntil.Format("02-01-2006")
		}
		values := []any{
			i + 1,
			titleCaser.String(ranked.VendorName),
			ranked.VendorRating,
			ranked.TotalAmount.InexactFloat64(),
			ranked.Currency,
			ranked.PaymentTerms,
			ranked.DeliveryTerms,
			validUntil,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(rankingSheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write comparison workbook: %w", err)
	}
	return buf.Bytes(), nil
}
