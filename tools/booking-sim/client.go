package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type slotState struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Key      string `json:"key"`
	Past     bool   `json:"past"`
	Booked   bool   `json:"booked"`
	Disabled bool   `json:"disabled"`
}

type slotsResponse struct {
	Doctor string      `json:"doctor"`
	Day    string      `json:"day"`
	Days   []string    `json:"days"`
	Slots  []slotState `json:"slots"`
}

type booking struct {
	ID          string `json:"id"`
	DoctorName  string `json:"doctorName"`
	BookingTime string `json:"bookingTime"`
}

// apiClient talks to a running booking service.
type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *apiClient) Slots(ctx context.Context, doctor, day string) (slotsResponse, error) {
	q := url.Values{}
	q.Set("doctor", doctor)
	if day != "" {
		q.Set("day", day)
	}
	var out slotsResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/doctors/slots?"+q.Encode(), nil, http.StatusOK, &out)
	return out, err
}

func (c *apiClient) Book(ctx context.Context, doctor, slotKey string) (booking, error) {
	var out booking
	err := c.do(ctx, http.MethodPost, "/api/v1/bookings",
		map[string]string{"doctor_name": doctor, "slot_key": slotKey}, http.StatusCreated, &out)
	return out, err
}

func (c *apiClient) List(ctx context.Context, doctor string) ([]booking, error) {
	path := "/api/v1/bookings"
	if doctor != "" {
		path += "?" + url.Values{"doctor": {doctor}}.Encode()
	}
	var out []booking
	err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &out)
	return out, err
}

func (c *apiClient) Cancel(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/bookings/cancel", map[string]string{"id": id}, http.StatusOK, nil)
}

func (c *apiClient) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		return fmt.Errorf("%s %s: status=%d %s", method, path, resp.StatusCode, bytes.TrimSpace(raw))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// firstOpen returns the key of the first slot that can still be booked.
func firstOpen(slots []slotState) string {
	for _, s := range slots {
		if !s.Disabled {
			return s.Key
		}
	}
	return ""
}
