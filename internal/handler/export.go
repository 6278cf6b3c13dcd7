package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/stay-booking/internal/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var reservationExportHeader = []string{"Reservation ID", "Guest", "Check-in", "Check-out", "Nights"}

// ExportForStay streams the stay's reservations as an xlsx workbook.
func (h *ReservationHandler) ExportForStay(c echo.Context) error {
	list, ok, err := h.hostReservations(c)
	if !ok {
		return err
	}
	data, err := reservationsWorkbook(list)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="stay-%s-reservations.xlsx"`, c.Param("id")))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

// reservationsWorkbook renders one sheet with a bold header row.
func reservationsWorkbook(list []model.Reservation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Reservations"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	for col, title := range reservationExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", headerStyle); err != nil {
		return nil, err
	}

	for i, r := range list {
		row := []interface{}{
			r.ID,
			r.Guest,
			model.FormatDate(r.CheckinDate),
			model.FormatDate(r.CheckoutDate),
			len(r.Range().Nights()),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 16); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", "B", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "C", "E", 12); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
