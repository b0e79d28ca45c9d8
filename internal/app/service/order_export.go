package service

import (
	"fmt"

	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/internal/i18n"
	"github.com/xuri/excelize/v2"
)

const orderExportSheet = "Orders"

var orderExportHeader = []interface{}{
	"Order Number",
	"Status",
	"Payment Type",
	"Payment Status",
	"City",
	"Region",
	"Address",
	"Total Before Discount",
	"Total After Discount",
	"Savings",
}

// ExportOrders renders orders as an xlsx workbook, one row per order. The
// sheet reads right to left for rtl languages.
func ExportOrders(orders []model.Order, lang string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", orderExportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if i18n.Direction(lang) == "rtl" {
		rtl := true
		if err := f.SetSheetView(orderExportSheet, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
			return nil, fmt.Errorf("set sheet view: %w", err)
		}
	}

	if err := f.SetSheetRow(orderExportSheet, "A1", &orderExportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(orderExportHeader), 1)
	if err := f.SetCellStyle(orderExportSheet, "A1", lastHeader, bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, o := range orders {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			o.OrderNumber,
			string(o.OrderStatus),
			o.PaymentType,
			o.PaymentStatus,
			o.CityName,
			o.RegionName,
			o.Address,
			o.TotalPriceBeforeDiscount.InexactFloat64(),
			o.TotalPriceAfterDiscount.InexactFloat64(),
			o.Savings().InexactFloat64(),
		}
		if err := f.SetSheetRow(orderExportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write order %s: %w", o.OrderNumber, err)
		}
	}

	if err := f.SetColWidth(orderExportSheet, "A", "J", 18); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
