package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/student-threshold-api/internal/service"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportAboveThreshold handles GET /v1/students/above/export?threshold=n
// and returns the query result as a spreadsheet with name and total
// columns in roster order.
func (h *StudentHandler) ExportAboveThreshold(c echo.Context) error {
	q, err := service.ParseThresholdParam(c.QueryParam("threshold"))
	if err != nil {
		return invalidThreshold(c)
	}
	res := service.QueryAboveThreshold(h.Roster, q.Threshold)

	f, err := resultWorkbook(res)
	if err != nil {
		c.Logger().Errorf("export: build workbook: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
	}
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		c.Logger().Errorf("export: write workbook: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
	}

	name := "students-above-" + strconv.FormatFloat(q.Threshold, 'f', -1, 64) + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, mimeXLSX, buf.Bytes())
}

func resultWorkbook(res service.ThresholdResult) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]any{"name", "total"}); err != nil {
		_ = f.Close()
		return nil, err
	}
	for i, s := range res.Students {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &[]any{s.Name, s.Total}); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}
