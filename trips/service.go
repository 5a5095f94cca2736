// Package trips is the typed client for the backend's trip inventory. All
// business rules (pricing, seat allocation) live backend-side; this layer
// only shapes requests and decodes responses.
package trips

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/ticketzen/go-web-gateway/backend"
)

type Trip struct {
	ID                int      `json:"id"`
	CompanyName       string   `json:"company_name"`
	DepartureCity     int      `json:"departure_city"`
	DepartureCityName string   `json:"departure_city_name"`
	ArrivalCity       int      `json:"arrival_city"`
	ArrivalCityName   string   `json:"arrival_city_name"`
	DepartureDatetime string   `json:"departure_datetime"`
	BasePrice         string   `json:"base_price"`
	AvailableSeats    int      `json:"available_seats"`
	TotalSeats        int      `json:"total_seats"`
	Status            string   `json:"status"`
	StatusDisplay     string   `json:"status_display"`
	OccupancyRate     float64  `json:"occupancy_rate"`
	DistanceKM        *string  `json:"distance_km,omitempty"`
	EstimatedDuration *int     `json:"estimated_duration,omitempty"`
	Amenities         []string `json:"amenities,omitempty"`
}

// SearchQuery narrows a trip search. Zero values are omitted from the
// request.
type SearchQuery struct {
	DepartureCity int
	ArrivalCity   int
	Date          string // YYYY-MM-DD
}

type Service struct {
	baseURL string
	http    *http.Client
}

// New builds a trip service on top of httpClient, which is expected to be
// the authenticated pipeline client (search itself also works as guest).
func New(baseURL string, httpClient *http.Client) *Service {
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (s *Service) Search(ctx context.Context, query SearchQuery) (*backend.Page[Trip], error) {
	params := url.Values{}
	if query.DepartureCity != 0 {
		params.Set("departure_city", fmt.Sprint(query.DepartureCity))
	}
	if query.ArrivalCity != 0 {
		params.Set("arrival_city", fmt.Sprint(query.ArrivalCity))
	}
	if query.Date != "" {
		params.Set("date", query.Date)
	}

	endpoint := s.baseURL + "/trips/"
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var page backend.Page[Trip]
	if err := s.get(ctx, endpoint, &page); err != nil {
		return nil, errors.Wrap(err, "[trips.Search]")
	}
	return &page, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Trip, error) {
	var trip Trip
	if err := s.get(ctx, fmt.Sprintf("%s/trips/%d/", s.baseURL, id), &trip); err != nil {
		return nil, errors.Wrap(err, "[trips.Get]")
	}
	return &trip, nil
}

func (s *Service) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "dispatch")
	}
	defer resp.Body.Close()

	return backend.Decode(resp, out)
}
