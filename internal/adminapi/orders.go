package adminapi

import (
	"github.com/labstack/echo/v4"

	"github.com/codebookhq/codebook/internal/webserver"
)

func registerOrderRoutes() {
	webserver.ApiGET("/crm/orders", listOrders)
	webserver.ApiGET("/crm/orders/export/csv", exportOrdersCSV)
	webserver.ApiGET("/crm/orders/export/xlsx", exportOrdersXLSX)
}

func listOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)

	orders, err := client.AdminGetAllOrders(c.Request().Context(), webserver.BrowserID(c))
	if err != nil {
		return backendFail(c, err, "Failed to query orders")
	}

	lo, hi := pageBounds(len(orders), page, pageSize)
	return paged(c, orders[lo:hi], len(orders), page, pageSize)
}
