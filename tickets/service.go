// Package tickets is the typed client for the traveler's issued tickets.
package tickets

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/ticketzen/go-web-gateway/backend"
)

type Ticket struct {
	ID            int    `json:"id"`
	TripID        int    `json:"trip"`
	CompanyName   string `json:"company_name"`
	DepartureCity string `json:"departure_city_name"`
	ArrivalCity   string `json:"arrival_city_name"`
	DepartureTime string `json:"departure_datetime"`
	PassengerName string `json:"passenger_name"`
	SeatNumber    string `json:"seat_number"`
	QRCode        string `json:"qr_code"`
	Status        string `json:"status"`
	StatusDisplay string `json:"status_display"`
}

type Service struct {
	baseURL string
	http    *http.Client
}

// New builds a ticket service. Ticket endpoints require authentication, so
// httpClient must be the pipeline client.
func New(baseURL string, httpClient *http.Client) *Service {
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (s *Service) List(ctx context.Context) (*backend.Page[Ticket], error) {
	var page backend.Page[Ticket]
	if err := s.get(ctx, s.baseURL+"/tickets/", &page); err != nil {
		return nil, errors.Wrap(err, "[tickets.List]")
	}
	return &page, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Ticket, error) {
	var ticket Ticket
	if err := s.get(ctx, fmt.Sprintf("%s/tickets/%d/", s.baseURL, id), &ticket); err != nil {
		return nil, errors.Wrap(err, "[tickets.Get]")
	}
	return &ticket, nil
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
