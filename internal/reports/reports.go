// Package reports renders employee data into downloadable artifacts: a
// per-employee profile PDF and a directory spreadsheet.
package reports

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"peopleops/internal/employee"
)

type Service struct {
	Employees *employee.Store
}

func NewService(employees *employee.Store) *Service {
	return &Service{Employees: employees}
}

func orDash(value *string) string {
	if value == nil || *value == "" {
		return "-"
	}
	return *value
}

// ProfilePDF renders the employee's profile as a one-page PDF.
func (s *Service) ProfilePDF(ctx context.Context, employeeID string) ([]byte, error) {
	emp, err := s.Employees.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Employee Profile")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	name := emp.FirstName
	if emp.MiddleName != "" {
		name += " " + emp.MiddleName
	}
	name += " " + emp.LastName
	pdf.Cell(0, 8, name)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	rows := []struct {
		label, value string
	}{
		{"Email", emp.Email},
		{"Phone", emp.Phone},
		{"Status", emp.Status},
		{"Department", orDash(emp.Department)},
		{"Designation", orDash(emp.Designation)},
		{"Job title", orDash(emp.JobTitle)},
		{"Employment type", orDash(emp.EmploymentType)},
		{"Work location", orDash(emp.WorkLocation)},
		{"Joining date", orDash(emp.JoiningDate)},
		{"Date of birth", orDash(emp.DOB)},
		{"Gender", orDash(emp.Gender)},
		{"Address", orDash(emp.Address)},
	}
	for _, row := range rows {
		pdf.Cell(0, 7, fmt.Sprintf("%s: %s", row.label, row.value))
		pdf.Ln(6)
	}

	if emp.IsProbation {
		pdf.Ln(3)
		pdf.Cell(0, 7, fmt.Sprintf("On probation until: %s", orDash(emp.ConfirmationDate)))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var directoryHeaders = []any{
	"First Name", "Middle Name", "Last Name", "Email", "Phone",
	"Department", "Designation", "Status", "Joining Date",
}

// DirectoryXLSX exports the full (optionally filtered) directory as a
// spreadsheet.
func (s *Service) DirectoryXLSX(ctx context.Context, search string) ([]byte, error) {
	summaries, _, err := s.Employees.Search(ctx, search, 0, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Employees"
	f.SetSheetName("Sheet1", sheet)
	if err := f.SetSheetRow(sheet, "A1", &directoryHeaders); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(sheet, "A1", "I1", style)
	}

	for i, sum := range summaries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			sum.FirstName, sum.MiddleName, sum.LastName, sum.Email, sum.Phone,
			sum.Department, sum.Designation, sum.Status, sum.JoiningDate,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(sheet, "A", "C", 18)
	_ = f.SetColWidth(sheet, "D", "D", 30)
	_ = f.SetColWidth(sheet, "E", "I", 20)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
