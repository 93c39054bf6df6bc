package adminapi

import (
    "net/http"
    "sort"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"

    "github.com/codebookhq/codebook/internal/backend"
    "github.com/codebookhq/codebook/internal/domain"
    "github.com/codebookhq/codebook/internal/webserver"
)

type productPayload struct {
    Name            string  `json:"name" validate:"required,min=1,max=200"`
    Overview        string  `json:"overview"`
    LongDescription string  `json:"long_description"`
    Price           float64 `json:"price"`
    Poster          string  `json:"poster"`
    Size            string  `json:"size"`
    Rating          float64 `json:"rating"`
    BestSeller      bool    `json:"best_seller"`
    InStock         bool    `json:"in_stock"`
}

// adminProduct carries the derived review mean next to the stored
// rating. The two are shown side by side and never reconciled.
type adminProduct struct {
    domain.Product
    DerivedRating float64 `json:"derived_rating"`
    ReviewCount   int     `json:"review_count"`
}

// registerProductRoutes registers catalog CRUD endpoints
func registerProductRoutes() {
    webserver.ApiGET("/crm/products", listProducts)
    webserver.ApiGET("/crm/products/:id", getProduct)
    webserver.ApiPOST("/crm/products", createProduct)
    webserver.ApiPUT("/crm/products/:id", updateProduct)
    webserver.ApiDELETE("/crm/products/:id", deleteProduct)
    webserver.ApiGET("/crm/products/export/xlsx", exportProductsXLSX)
}

func listProducts(c echo.Context) error {
    page, pageSize := parsePagination(c)

    // Filters: q or name
    q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))

    // Sorting: field and order
    sortField := strings.TrimSpace(c.QueryParam("sort"))
    order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
    if order != "ASC" && order != "DESC" {
        order = "ASC"
    }

    products, err := client.AdminGetAllProducts(c.Request().Context())
    if err != nil {
        return backendFail(c, err, "Failed to query products")
    }

    rows := make([]adminProduct, 0, len(products))
    for _, p := range products {
        if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
            continue
        }
        rows = append(rows, adminProduct{
            Product:       p,
            DerivedRating: domain.DerivedRating(p.Reviews),
            ReviewCount:   len(p.Reviews),
        })
    }

    less := func(i, j int) bool { return rows[i].ID < rows[j].ID }
    switch sortField {
    case "name":
        less = func(i, j int) bool { return rows[i].Name < rows[j].Name }
    case "price":
        less = func(i, j int) bool { return rows[i].Price < rows[j].Price }
    case "rating":
        less = func(i, j int) bool { return rows[i].Rating < rows[j].Rating }
    }
    if order == "DESC" {
        inner := less
        less = func(i, j int) bool { return inner(j, i) }
    }
    sort.SliceStable(rows, less)

    lo, hi := pageBounds(len(rows), page, pageSize)
    return paged(c, rows[lo:hi], len(rows), page, pageSize)
}

func getProduct(c echo.Context) error {
    id, err := parseIDParam(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
    }
    p, err := client.GetProduct(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, backend.ErrNotFound) {
            return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
        }
        return backendFail(c, err, "Failed to query product")
    }
    return ok(c, adminProduct{Product: p, DerivedRating: domain.DerivedRating(p.Reviews), ReviewCount: len(p.Reviews)})
}

func validateProductPayload(payload *productPayload) (string, bool) {
    payload.Name = strings.TrimSpace(payload.Name)
    if payload.Name == "" {
        return "Name is required", false
    }
    if payload.Price < 0 {
        return "Price must not be negative", false
    }
    if payload.Rating < 0 || payload.Rating > 5 {
        return "Rating must be between 0 and 5", false
    }
    return "", true
}

func createProduct(c echo.Context) error {
    var payload productPayload
    if err := c.Bind(&payload); err != nil {
        return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
    }
    if msg, valid := validateProductPayload(&payload); !valid {
        return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
    }

    p := domain.Product{
        Name:            payload.Name,
        Overview:        strings.TrimSpace(payload.Overview),
        LongDescription: payload.LongDescription,
        Price:           payload.Price,
        Poster:          strings.TrimSpace(payload.Poster),
        Size:            payload.Size,
        Rating:          payload.Rating,
        BestSeller:      payload.BestSeller,
        InStock:         payload.InStock,
    }
    created, err := client.CreateProduct(c.Request().Context(), webserver.BrowserID(c), p)
    if err != nil {
        return backendFail(c, err, "Failed to create product")
    }
    return ok(c, created)
}

func updateProduct(c echo.Context) error {
    id, err := parseIDParam(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
    }
    existing, err := client.GetProduct(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, backend.ErrNotFound) {
            return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
        }
        return backendFail(c, err, "Failed to query product")
    }

    var payload productPayload
    if err := c.Bind(&payload); err != nil {
        return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
    }
    if msg, valid := validateProductPayload(&payload); !valid {
        return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
    }

    existing.Name = payload.Name
    existing.Overview = strings.TrimSpace(payload.Overview)
    existing.LongDescription = payload.LongDescription
    existing.Price = payload.Price
    existing.Poster = strings.TrimSpace(payload.Poster)
    existing.Size = payload.Size
    existing.Rating = payload.Rating
    existing.BestSeller = payload.BestSeller
    existing.InStock = payload.InStock

    updated, err := client.UpdateProduct(c.Request().Context(), webserver.BrowserID(c), id, existing)
    if err != nil {
        return backendFail(c, err, "Failed to update product")
    }
    return ok(c, updated)
}

func deleteProduct(c echo.Context) error {
    id, err := parseIDParam(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
    }
    if err := client.DeleteProduct(c.Request().Context(), id); err != nil {
        return backendFail(c, err, "Failed to delete product")
    }
    return ok(c, map[string]interface{}{"id": id})
}
