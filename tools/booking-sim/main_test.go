package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func fakeService(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var booked []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/doctors/slots", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("doctor") != "Dr A" {
			http.Error(w, "unknown doctor", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(slotsResponse{
			Doctor: "Dr A",
			Day:    "Monday",
			Days:   []string{"Monday"},
			Slots: []slotState{
				{Start: "09:00", End: "09:30", Key: "Monday-09:00-09:30", Past: true, Disabled: true},
				{Start: "09:30", End: "10:00", Key: "Monday-09:30-10:00"},
			},
		})
	})
	mux.HandleFunc("/api/v1/bookings", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			_ = json.NewEncoder(w).Encode([]booking{{ID: "b1", DoctorName: "Dr A", BookingTime: "Monday 09:30-10:00"}})
			return
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		booked = append(booked, in["slot_key"])
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(booking{ID: "b1", DoctorName: in["doctor_name"], BookingTime: "Monday 09:30-10:00"})
	})
	mux.HandleFunc("/api/v1/bookings/cancel", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "cancelled"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &booked
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSlotsCommand(t *testing.T) {
	srv, _ := fakeService(t)
	out, err := run(t, "slots", "--base-url", srv.URL, "--doctor", "Dr A")
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	if !strings.Contains(out, "09:00-09:30  past") || !strings.Contains(out, "09:30-10:00  open") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestBookCommandPicksFirstOpenSlot(t *testing.T) {
	srv, booked := fakeService(t)
	out, err := run(t, "book", "--base-url", srv.URL, "--doctor", "Dr A")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if len(*booked) != 1 || (*booked)[0] != "Monday-09:30-10:00" {
		t.Fatalf("expected first open slot booked, got %v", *booked)
	}
	if !strings.Contains(out, "booked b1") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSlotsCommandReportsStatus(t *testing.T) {
	srv, _ := fakeService(t)
	_, err := run(t, "slots", "--base-url", srv.URL, "--doctor", "Dr Z")
	if err == nil || !strings.Contains(err.Error(), "status=404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestListAndCancel(t *testing.T) {
	srv, _ := fakeService(t)
	out, err := run(t, "list", "--base-url", srv.URL)
	if err != nil || !strings.Contains(out, "b1  Dr A  Monday 09:30-10:00") {
		t.Fatalf("list: err=%v out=%q", err, out)
	}
	out, err = run(t, "cancel", "--base-url", srv.URL, "b1")
	if err != nil || !strings.Contains(out, "cancelled b1") {
		t.Fatalf("cancel: err=%v out=%q", err, out)
	}
	if _, err := run(t, "cancel", "--base-url", srv.URL); err == nil {
		t.Fatalf("expected arg error")
	}
}
