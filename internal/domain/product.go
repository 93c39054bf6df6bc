package domain

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/montanaflynn/stats"
)

// Product is the storefront catalog item as the backend serialises it.
// Rating is the stored rating, editable by admins independently of the
// review list; DerivedRating computes the mean without reconciling.
type Product struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Overview        string   `json:"overview"`
	LongDescription string   `json:"long_description"`
	Price           float64  `json:"price"`
	Poster          string   `json:"poster"`
	Size            string   `json:"size"`
	Rating          float64  `json:"rating"`
	BestSeller      bool     `json:"best_seller"`
	InStock         bool     `json:"in_stock"`
	Reviews         []Review `json:"reviews,omitempty"`
}

// Review is appended to a product, never edited in place. Date is kept
// as the backend sends it (RFC3339 or epoch milliseconds).
type Review struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	Date     string `json:"date"`
}

// ParsedDate parses the review timestamp tolerantly. The zero time is
// returned for blank or unparsable values.
func (r Review) ParsedDate() time.Time {
	if r.Date == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(r.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DerivedRating is the arithmetic mean of the review ratings, 0 when no
// reviews exist. It may diverge from the stored Rating field.
func DerivedRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	data := make([]float64, 0, len(reviews))
	for _, r := range reviews {
		data = append(data, float64(r.Rating))
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return 0
	}
	return mean
}
