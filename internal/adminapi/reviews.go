package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codebookhq/codebook/internal/webserver"
)

func registerReviewRoutes() {
	webserver.ApiGET("/crm/reviews", listReviews)
	webserver.ApiPOST("/crm/products/:id/reviews", createReview)
	webserver.ApiDELETE("/crm/products/:id/reviews/:rid", deleteReview)
}

// listReviews flattens reviews across the whole catalog, newest first
// as the backend returns them.
func listReviews(c echo.Context) error {
	page, pageSize := parsePagination(c)

	reviews, err := client.AdminGetAllReviews(c.Request().Context())
	if err != nil {
		return backendFail(c, err, "Failed to query reviews")
	}

	lo, hi := pageBounds(len(reviews), page, pageSize)
	return paged(c, reviews[lo:hi], len(reviews), page, pageSize)
}

type adminReviewPayload struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// createReview lets an operator post a review under their own session
// identity, through the same append cycle shoppers use.
func createReview(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload adminReviewPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse review", nil)
	}

	product, err := client.AddReview(c.Request().Context(), webserver.BrowserID(c), id, payload.Rating, payload.Comment)
	if err != nil {
		return backendFail(c, err, "Failed to create review")
	}
	return ok(c, product)
}

func deleteReview(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	rid, err := parseIDParam(c, "rid")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid review ID", nil)
	}

	product, err := client.DeleteReview(c.Request().Context(), webserver.BrowserID(c), id, rid)
	if err != nil {
		return backendFail(c, err, "Failed to delete review")
	}
	return ok(c, product)
}
