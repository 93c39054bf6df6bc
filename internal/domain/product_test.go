package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDerivedRating(t *testing.T) {
	assert.Zero(t, DerivedRating(nil))
	assert.Zero(t, DerivedRating([]Review{}))

	reviews := []Review{{Rating: 5}, {Rating: 4}, {Rating: 2}}
	assert.InDelta(t, 3.6667, DerivedRating(reviews), 0.001)
}

func TestDerivedRatingIgnoresStoredRating(t *testing.T) {
	p := Product{Rating: 4.8, Reviews: []Review{{Rating: 1}, {Rating: 1}}}
	// the stored rating and the derived one are independent views
	assert.InDelta(t, 4.8, p.Rating, 0.001)
	assert.InDelta(t, 1.0, DerivedRating(p.Reviews), 0.001)
}

func TestParsedDate(t *testing.T) {
	r := Review{Date: "2025-03-14T09:26:53Z"}
	assert.Equal(t, time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC), r.ParsedDate().UTC())

	assert.True(t, Review{}.ParsedDate().IsZero())
	assert.True(t, Review{Date: "not a date"}.ParsedDate().IsZero())
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, User{Role: "admin"}.IsAdmin())
	assert.True(t, User{Name: "Admin"}.IsAdmin())
	assert.False(t, User{Name: "admin", Role: "customer"}.IsAdmin())
	assert.False(t, User{}.IsAdmin())
}

func TestSessionAuthenticated(t *testing.T) {
	assert.False(t, Session{}.Authenticated())
	assert.False(t, Session{Token: "tok"}.Authenticated())
	assert.False(t, Session{UserID: 1}.Authenticated())
	assert.True(t, Session{Token: "tok", UserID: 1}.Authenticated())
}

func TestPaymentMissingFields(t *testing.T) {
	assert.Empty(t, Payment{CardNumber: "4111", Month: "12", Year: "2030", CVV: "123"}.MissingFields())
	assert.Equal(t, []string{"cardNumber", "month", "year", "cvv"}, Payment{}.MissingFields())
	assert.Equal(t, []string{"cvv"}, Payment{CardNumber: "4111", Month: "12", Year: "2030"}.MissingFields())
}
