package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i474232898/grow-planner/internal/auth"
	"github.com/i474232898/grow-planner/internal/config"
	"github.com/i474232898/grow-planner/internal/grow"
	"github.com/i474232898/grow-planner/internal/planner"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active profile and its recommendation",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Recalculate for a new pot size and/or wattage",
	Long: `Recalculate the recommendation. Flags that are not given keep their
current value. The new values are saved locally and synced to the server
profile when signed in.`,
	Args: cobra.NoArgs,
	RunE: runCalc,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Recalculate with the default pot size and wattage",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

var weatherCmd = &cobra.Command{
	Use:   "weather [city]",
	Short: "Show weather and a grow suggestion for a city",
	Long: `Look up current weather for a city. Without an argument the saved city
is used; if there is none you are prompted for one.`,
	RunE: runWeather,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget locally saved preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ws, err := openWorkspace(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer ws.Close()
		if err := ws.prefs.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared local preferences in %s\n", cfg.StatePath)
		return nil
	},
}

var envgenCmd = &cobra.Command{
	Use:   "envgen",
	Short: "Generate the runtime config asset from .env",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		envPath, _ := cmd.Flags().GetString("env")
		outPath, _ := cmd.Flags().GetString("out")
		if err := config.GenerateRuntimeConfig(envPath, outPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token USER",
	Short: "Sign a session token with $GROWPLANNER_JWT_SECRET",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadServer()
		if err != nil {
			return err
		}
		ttl, _ := cmd.Flags().GetDuration("ttl")
		signed, err := auth.NewTokens(cfg.JWTSecret).Sign(args[0], ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), signed)
		return nil
	},
}

func runShow(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd.Context(), !offline)
	if err != nil {
		return err
	}
	defer ws.Close()

	profile := ws.planner.Profile()
	out := cmd.OutOrStdout()
	printProfile(out, profile, ws.session)

	rec, err := grow.Recommend(profile.PotLiters, profile.Wattage)
	if err != nil {
		return inputError(err)
	}
	printRecommendation(out, rec)
	return nil
}

func runCalc(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd.Context(), !offline)
	if err != nil {
		return err
	}
	defer ws.Close()

	profile := ws.planner.Profile()
	pot, watts := profile.PotLiters, profile.Wattage
	if cmd.Flags().Changed("pot") {
		pot, _ = cmd.Flags().GetFloat64("pot")
	}
	if cmd.Flags().Changed("watts") {
		watts, _ = cmd.Flags().GetFloat64("watts")
	}

	rec, err := ws.planner.Recalculate(cmd.Context(), pot, watts)
	if err != nil {
		return inputError(err)
	}
	printRecommendation(cmd.OutOrStdout(), rec)
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd.Context(), !offline)
	if err != nil {
		return err
	}
	defer ws.Close()

	rec, err := ws.planner.Reset(cmd.Context())
	if err != nil {
		return err
	}
	printRecommendation(cmd.OutOrStdout(), rec)
	return nil
}

func runWeather(cmd *cobra.Command, args []string) error {
	if offline {
		return errOffline
	}
	ws, err := openWorkspace(cmd.Context(), !offline)
	if err != nil {
		return err
	}
	defer ws.Close()

	city := strings.Join(args, " ")
	if strings.TrimSpace(city) == "" {
		city = ws.planner.Profile().City
	}

	view, err := ws.planner.FetchWeather(cmd.Context(), city)
	if errors.Is(err, planner.ErrCityRequired) {
		city = promptCity(cmd)
		view, err = ws.planner.FetchWeather(cmd.Context(), city)
	}
	if errors.Is(err, planner.ErrCityRequired) {
		return errors.New("please enter a city")
	}

	printWeather(cmd.OutOrStdout(), view)
	var terr *planner.TransportError
	if errors.As(err, &terr) {
		return errors.New("weather lookup failed")
	}
	return err
}

func promptCity(cmd *cobra.Command) string {
	fmt.Fprint(cmd.OutOrStdout(), "City: ")
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimSpace(line)
}

func inputError(err error) error {
	var verr *grow.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("%s must be a positive number", verr.Field)
	}
	return err
}
