package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"hrms/api/internal/model"
)

// ExportService renders attendance records as downloadable CSV or XLSX
type ExportService struct {
	attendance *AttendanceService
}

// NewExportService creates a new export service
func NewExportService(attendance *AttendanceService) *ExportService {
	return &ExportService{attendance: attendance}
}

var exportHeader = []string{
	"Employee ID", "Name", "Date", "Status",
	"Check-In", "Check-Out", "Total Hours", "Auto Checkout",
}

// AttendanceCSV renders the filtered attendance records as CSV
func (s *ExportService) AttendanceCSV(ctx context.Context, filter AttendanceFilter) ([]byte, error) {
	views, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, v := range views {
		if err := w.Write(exportRow(&v)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AttendanceXLSX renders the filtered attendance records as an Excel workbook
func (s *ExportService) AttendanceXLSX(ctx context.Context, filter AttendanceFilter) ([]byte, error) {
	views, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}
	for rowIdx, v := range views {
		for col, value := range exportRow(&v) {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportRow(v *model.AttendanceRecordView) []string {
	return []string{
		v.EmployeeID,
		v.FullName,
		v.Date,
		v.Status,
		v.CheckInTime,
		v.CheckOutTime,
		v.TotalHours,
		fmt.Sprintf("%t", v.AutoCheckout),
	}
}
