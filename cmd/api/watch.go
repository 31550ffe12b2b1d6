package main

import (
	"errors"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/weather-insights/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch <location>",
	Short: "Browse and play weather videos for a location in the terminal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		location := strings.TrimSpace(strings.Join(args, " "))
		if location == "" {
			return errors.New("location is required")
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		// The terminal belongs to the UI from here on.
		log.SetOutput(io.Discard)

		options := &tui.Options{Location: location, Prefs: a.prefs}
		if a.youtube != nil {
			options.Catalog = a.youtube
		}
		return tui.Run(cmd.Context(), options)
	},
}
