package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/i474232898/grow-planner/internal/grow"
	"github.com/i474232898/grow-planner/internal/planner"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Width(14)
	toneStyles   = map[planner.Tone]lipgloss.Style{
		planner.ToneOK:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		planner.ToneWarn: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
)

func row(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s%s\n", labelStyle.Render(label), value)
}

func printProfile(w io.Writer, p grow.GrowProfile, session planner.SessionContext) {
	fmt.Fprintln(w, headingStyle.Render("Profile"))
	row(w, "Pot", fmt.Sprintf("%g L", p.PotLiters))
	row(w, "Lamp", fmt.Sprintf("%g W", p.Wattage))
	city := p.City
	if city == "" {
		city = planner.Placeholder
	}
	row(w, "City", city)
	sync := "local only"
	if session.Authenticated {
		sync = "synced to server"
	}
	row(w, "Storage", sync)
	fmt.Fprintln(w)
}

func printRecommendation(w io.Writer, rec grow.Recommendation) {
	fmt.Fprintln(w, headingStyle.Render("Watering"))
	row(w, "Per watering", rec.Watering.RangeLabel())
	row(w, "Flush", rec.Watering.FlushLabel())
	row(w, "Feed every", rec.Interval.Label())
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingStyle.Render("Nutrients per watering"))
	for _, dose := range rec.Nutrients {
		row(w, dose.Key, dose.Label())
	}
}

func printWeather(w io.Writer, v planner.WeatherView) {
	fmt.Fprintln(w, headingStyle.Render("Weather"))
	row(w, "Now", v.Status)
	row(w, "Details", v.Meta)
	suggestion := v.Suggestion
	if style, ok := toneStyles[v.Tone]; ok {
		suggestion = style.Render(suggestion)
	}
	row(w, "Suggestion", suggestion)
}
