package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"presence/backend/internal/repository/postgres/visitor"
)

// VisitorBadgePDF renders a printable visitor pass and returns its path.
func VisitorBadgePDF(detail visitor.GetDetailByIdResponse) (string, error) {
	targetPath := filepath.Join(baseDir, "badges")
	if err := os.MkdirAll(targetPath, os.ModePerm); err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A6", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "VISITOR", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 14)
	if detail.FullName != nil {
		pdf.CellFormat(0, 10, *detail.FullName, "", 1, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 11)
	if detail.BadgeNo != nil {
		pdf.CellFormat(0, 8, fmt.Sprintf("Badge: %s", *detail.BadgeNo), "", 1, "C", false, 0, "")
	}
	if detail.Branch != nil {
		pdf.CellFormat(0, 8, fmt.Sprintf("Branch: %s", *detail.Branch), "", 1, "C", false, 0, "")
	}
	if detail.Host != nil {
		pdf.CellFormat(0, 8, fmt.Sprintf("Host: %s", *detail.Host), "", 1, "C", false, 0, "")
	}
	if detail.CheckIn != nil {
		pdf.CellFormat(0, 8, fmt.Sprintf("Check-in: %s", detail.CheckIn.Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	}

	fileName := filepath.Join(targetPath, fmt.Sprintf("badge-%d-%s.pdf", detail.ID, time.Now().Format("20060102150405")))
	if err := pdf.OutputFileAndClose(fileName); err != nil {
		return "", fmt.Errorf("error saving badge pdf: %w", err)
	}

	return fileName, nil
}
