package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/codebookhq/codebook/internal/domain"
	"github.com/codebookhq/codebook/internal/webserver"
)

func registerUserRoutes() {
	webserver.ApiGET("/system/users", listUsers)
	webserver.ApiPOST("/system/users", createUser)
	webserver.ApiDELETE("/system/users/:id", deleteUser)
}

func listUsers(c echo.Context) error {
	page, pageSize := parsePagination(c)

	users, err := client.AdminGetAllUsers(c.Request().Context())
	if err != nil {
		return backendFail(c, err, "Failed to query users")
	}

	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	if q != "" {
		filtered := users[:0]
		for _, u := range users {
			if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	lo, hi := pageBounds(len(users), page, pageSize)
	return paged(c, users[lo:hi], len(users), page, pageSize)
}

type userPayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// createUser provisions an account through the normal register flow.
// The operator's own session must not be replaced by the fresh token,
// so the call runs without a browser binding.
func createUser(c echo.Context) error {
	var payload userPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse user", nil)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Name == "" || payload.Email == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name, email and password are required", nil)
	}

	user, err := client.Register(c.Request().Context(), "", domain.Registration{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		return backendFail(c, err, "Failed to create user")
	}
	return ok(c, user)
}

func deleteUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	if err := client.AdminDeleteUser(c.Request().Context(), id); err != nil {
		return backendFail(c, err, "Failed to delete user")
	}
	return ok(c, map[string]interface{}{"id": id})
}
