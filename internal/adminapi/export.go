package adminapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/codebookhq/codebook/internal/domain"
	"github.com/codebookhq/codebook/internal/webserver"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func setDownloadHeaders(c echo.Context, filename, contentType string) {
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
}

func exportProductsXLSX(c echo.Context) error {
	products, err := client.AdminGetAllProducts(c.Request().Context())
	if err != nil {
		return backendFail(c, err, "Failed to query products")
	}

	const sheet = "Sheet1"
	file := excelize.NewFile()
	headers := []string{"ID", "Name", "Price", "Size", "Rating", "DerivedRating", "BestSeller", "InStock", "Reviews"}
	for i, h := range headers {
		file.SetCellValue(sheet, fmt.Sprintf("%c1", 'A'+i), h)
	}
	for row, p := range products {
		r := row + 2
		file.SetCellValue(sheet, fmt.Sprintf("A%d", r), p.ID)
		file.SetCellValue(sheet, fmt.Sprintf("B%d", r), p.Name)
		file.SetCellValue(sheet, fmt.Sprintf("C%d", r), p.Price)
		file.SetCellValue(sheet, fmt.Sprintf("D%d", r), p.Size)
		file.SetCellValue(sheet, fmt.Sprintf("E%d", r), p.Rating)
		file.SetCellValue(sheet, fmt.Sprintf("F%d", r), domain.DerivedRating(p.Reviews))
		file.SetCellValue(sheet, fmt.Sprintf("G%d", r), p.BestSeller)
		file.SetCellValue(sheet, fmt.Sprintf("H%d", r), p.InStock)
		file.SetCellValue(sheet, fmt.Sprintf("I%d", r), len(p.Reviews))
	}

	setDownloadHeaders(c, "products.xlsx", xlsxContentType)
	return file.Write(c.Response().Writer)
}

// orderExportRow flattens an order for tabular export.
type orderExportRow struct {
	OrderID    int64   `csv:"order_id"`
	UserID     int64   `csv:"user_id"`
	UserName   string  `csv:"user_name"`
	Email      string  `csv:"email"`
	Quantity   int     `csv:"quantity"`
	AmountPaid float64 `csv:"amount_paid"`
	Items      string  `csv:"items"`
}

func orderExportRows(orders []domain.Order) []orderExportRow {
	rows := make([]orderExportRow, 0, len(orders))
	for _, o := range orders {
		names := make([]string, 0, len(o.CartList))
		for _, it := range o.CartList {
			names = append(names, it.Name)
		}
		rows = append(rows, orderExportRow{
			OrderID:    o.ID,
			UserID:     o.User.ID,
			UserName:   o.User.Name,
			Email:      o.User.Email,
			Quantity:   o.Quantity,
			AmountPaid: o.AmountPaid,
			Items:      strings.Join(names, "; "),
		})
	}
	return rows
}

func exportOrdersCSV(c echo.Context) error {
	orders, err := client.AdminGetAllOrders(c.Request().Context(), webserver.BrowserID(c))
	if err != nil {
		return backendFail(c, err, "Failed to query orders")
	}

	setDownloadHeaders(c, "orders.csv", "text/csv")
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(orderExportRows(orders), c.Response().Writer)
}

func exportOrdersXLSX(c echo.Context) error {
	orders, err := client.AdminGetAllOrders(c.Request().Context(), webserver.BrowserID(c))
	if err != nil {
		return backendFail(c, err, "Failed to query orders")
	}

	const sheet = "Sheet1"
	file := excelize.NewFile()
	headers := []string{"OrderID", "UserID", "UserName", "Email", "Quantity", "AmountPaid", "Items"}
	for i, h := range headers {
		file.SetCellValue(sheet, fmt.Sprintf("%c1", 'A'+i), h)
	}
	for row, o := range orderExportRows(orders) {
		r := row + 2
		file.SetCellValue(sheet, fmt.Sprintf("A%d", r), o.OrderID)
		file.SetCellValue(sheet, fmt.Sprintf("B%d", r), o.UserID)
		file.SetCellValue(sheet, fmt.Sprintf("C%d", r), o.UserName)
		file.SetCellValue(sheet, fmt.Sprintf("D%d", r), o.Email)
		file.SetCellValue(sheet, fmt.Sprintf("E%d", r), o.Quantity)
		file.SetCellValue(sheet, fmt.Sprintf("F%d", r), o.AmountPaid)
		file.SetCellValue(sheet, fmt.Sprintf("G%d", r), o.Items)
	}

	setDownloadHeaders(c, "orders.xlsx", xlsxContentType)
	return file.Write(c.Response().Writer)
}
