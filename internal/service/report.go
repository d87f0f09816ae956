package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"presence/backend/internal/repository/postgres/attendance"
)

// AttendanceExcel writes the export rows into an xlsx file under statics/
// and returns its path.
func AttendanceExcel(rows []attendance.ExportRow) (string, error) {
	targetPath := filepath.Join(baseDir, "reports")
	if err := os.MkdirAll(targetPath, os.ModePerm); err != nil {
		return "", err
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	headers := []string{"Staff ID", "Full Name", "Branch", "Work Day", "Clock In", "Clock Out", "Status", "Verification"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	for i, row := range rows {
		rowNum := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), row.StaffID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), row.FullName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), row.Branch)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), row.WorkDay)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), row.ClockIn)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), row.ClockOut)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), row.Status)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", rowNum), row.VerificationMethod)
	}

	fileName := filepath.Join(targetPath, fmt.Sprintf("attendance-%s.xlsx", time.Now().Format("2006-01-02-150405")))
	if err := f.SaveAs(fileName); err != nil {
		return "", fmt.Errorf("error saving excel file: %w", err)
	}

	return fileName, nil
}
