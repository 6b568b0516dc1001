package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var errDoctorRequired = errors.New("--doctor or DOCTOR is required")

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)
	root := &cobra.Command{
		Use:          "booking-sim",
		Short:        "Drive a running booking service from the command line",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "base-url", getenv("BASE_URL", "http://localhost:8083"), "booking service base url")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")

	client := func() *apiClient { return newAPIClient(baseURL, timeout) }
	root.AddCommand(slotsCmd(client), bookCmd(client), listCmd(client), cancelCmd(client))
	return root
}

func slotsCmd(client func() *apiClient) *cobra.Command {
	var doctor, day string
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print the slot grid for a doctor and day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if doctor == "" {
				return errDoctorRequired
			}
			slots, err := client().Slots(cmd.Context(), doctor, day)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s on %s (days: %s)\n", slots.Doctor, slots.Day, strings.Join(slots.Days, ", "))
			for _, s := range slots.Slots {
				fmt.Fprintf(out, "  %s-%s  %s\n", s.Start, s.End, slotMark(s))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&doctor, "doctor", getenv("DOCTOR", ""), "doctor name")
	cmd.Flags().StringVar(&day, "day", getenv("DAY", ""), "day of week (defaults to the doctor's first day)")
	return cmd
}

func bookCmd(client func() *apiClient) *cobra.Command {
	var doctor, day, slot string
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a slot, or the first open one when --slot is empty",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if doctor == "" {
				return errDoctorRequired
			}
			c := client()
			if slot == "" {
				slots, err := c.Slots(cmd.Context(), doctor, day)
				if err != nil {
					return err
				}
				if slot = firstOpen(slots.Slots); slot == "" {
					return errors.New("no open slot to book")
				}
			}
			b, err := c.Book(cmd.Context(), doctor, slot)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "booked %s with %s at %s\n", b.ID, b.DoctorName, b.BookingTime)
			return nil
		},
	}
	cmd.Flags().StringVar(&doctor, "doctor", getenv("DOCTOR", ""), "doctor name")
	cmd.Flags().StringVar(&day, "day", getenv("DAY", ""), "day of week used when picking a slot")
	cmd.Flags().StringVar(&slot, "slot", "", "slot key, e.g. Monday-09:00-09:30")
	return cmd
}

func listCmd(client func() *apiClient) *cobra.Command {
	var doctor string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored bookings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := client().List(cmd.Context(), doctor)
			if err != nil {
				return err
			}
			for _, b := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", b.ID, b.DoctorName, b.BookingTime)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&doctor, "doctor", "", "only bookings for this doctor")
	return cmd
}

func cancelCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a booking by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client().Cancel(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cancelled %s\n", args[0])
			return nil
		},
	}
}

func slotMark(s slotState) string {
	switch {
	case s.Booked:
		return "booked"
	case s.Past:
		return "past"
	case s.Disabled:
		return "-"
	default:
		return "open"
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
