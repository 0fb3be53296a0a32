package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"collegematch/internal/format"
	"collegematch/internal/logger"
	"collegematch/internal/match"
	"collegematch/internal/profile"
	"collegematch/internal/regions"
)

const (
	PromptCompare     = "Compare schools side by side"
	PromptDumpToFile  = "Dump results to file"
	PromptNewSearch   = "Start a new search"
	PromptExit        = "Exit"
	labelNoPreference = "No preference"
)

var errExit = errors.New("exit requested")

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Interactively find colleges matching a student profile",
	Run: func(_ *cobra.Command, _ []string) {
		find()
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
}

func find() {
	ctx := context.Background()

	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	svc, err := buildServices(ctx, config, zl)
	if err != nil {
		zl.Fatal(
			"building services",
			zap.Error(err),
			zap.String("hint", "set SCORECARD_API_KEY or scorecard.api-key-file in the configuration file"),
		)
	}

	for {
		p, err := promptProfile()
		if err != nil {
			zl.Fatal("reading profile", zap.Error(err))
		}

		if !p.CanSearch() {
			fmt.Println("Enter at least one stat, a state or a region to search.")
			continue
		}

		resp, err := svc.matcher.Match(ctx, p)
		if err != nil {
			zl.Fatal("matching failed", zap.Error(err))
		}

		printResults(resp)

		if err := resultActions(ctx, svc, resp); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			zl.Fatal("exiting", zap.Error(err))
		}
	}
}

func promptProfile() (profile.StudentProfile, error) {
	var p profile.StudentProfile

	sat, err := promptOptionalInt("SAT (0-1600, empty to skip)", 0, 1600)
	if err != nil {
		return p, err
	}
	act, err := promptOptionalInt("ACT (0-36, empty to skip)", 0, 36)
	if err != nil {
		return p, err
	}
	gpa, err := promptOptionalFloat("GPA (0-4.0, empty to skip)", 0, 4)
	if err != nil {
		return p, err
	}

	statePrompt := promptui.Prompt{Label: "State (name or code, empty to skip)"}
	state, err := statePrompt.Run()
	if err != nil {
		return p, err
	}

	region, err := promptChoice("Region", []string{
		labelNoPreference,
		string(regions.Northeast), string(regions.Midwest), string(regions.Southeast),
		string(regions.Southwest), string(regions.West),
	})
	if err != nil {
		return p, err
	}

	size, err := promptChoice("School size", []string{labelNoPreference, "Small (<5,000)", "Medium (5,000-15,000)", "Large (>15,000)"})
	if err != nil {
		return p, err
	}

	d1, err := promptChoice("D1 sports", []string{labelNoPreference, "Yes", "No"})
	if err != nil {
		return p, err
	}

	greek, err := promptChoice("Greek life", []string{labelNoPreference, "Yes", "No"})
	if err != nil {
		return p, err
	}

	control, err := promptChoice("Public or private", []string{labelNoPreference, "Public", "Private"})
	if err != nil {
		return p, err
	}

	p = profile.StudentProfile{
		SAT:       sat,
		ACT:       act,
		GPA:       gpa,
		State:     state,
		Region:    regions.ParseRegion(region),
		Size:      sizeFromLabel(size),
		D1Sports:  yesNoFromLabel(d1),
		GreekLife: yesNoFromLabel(greek),
		Control:   controlFromLabel(control),
	}

	return p.Normalized(), nil
}

func resultActions(ctx context.Context, svc *services, resp *match.Response) error {
	if len(resp.Results) == 0 {
		return nil
	}

	for {
		prompt := promptui.Select{
			Label: "Proceed?",
			Items: []string{PromptCompare, PromptDumpToFile, PromptNewSearch, PromptExit},
		}

		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptCompare:
			if err := compareFromResults(ctx, svc, resp); err != nil {
				return err
			}
		case PromptDumpToFile:
			filename, err := dumpResults(resp)
			if err != nil {
				return fmt.Errorf("dump results to file: %w", err)
			}
			fmt.Printf("Results written to %s\n", filename)
		case PromptNewSearch:
			return nil
		case PromptExit:
			return errExit
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}
}

func compareFromResults(ctx context.Context, svc *services, resp *match.Response) error {
	idsPrompt := promptui.Prompt{
		Label: "School ids to compare (2-3, comma separated)",
	}
	raw, err := idsPrompt.Run()
	if err != nil {
		return err
	}

	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("invalid school id %q", part)
		}
		ids = append(ids, id)
	}

	cards, err := svc.matcher.Compare(ctx, ids)
	if err != nil {
		return err
	}

	for _, card := range cards {
		printCard(card)
	}
	return nil
}

func printResults(resp *match.Response) {
	if resp.Note != "" {
		fmt.Println(resp.Note)
	}

	for i, card := range resp.Results {
		score := ""
		if card.MatchScore != nil {
			score = fmt.Sprintf(" [match %s]", format.Score(*card.MatchScore))
		}
		fmt.Printf("%2d. (%d) %s, %s, %s%s\n", i+1, card.School.ID, card.School.Name, card.School.City, card.School.State, score)
	}
}

func printCard(card *match.Card) {
	s := card.School
	fmt.Printf("\n%s - %s, %s\n", s.Name, s.City, s.State)
	fmt.Printf("  Undergrads:      %s\n", format.Number(s.UndergradSize))
	fmt.Printf("  Acceptance rate: %s\n", format.Percent(s.AcceptanceRate))
	fmt.Printf("  SAT avg / ACT:   %s / %s\n", format.Number(s.SATAvg), format.Number(s.ACTMid))
	fmt.Printf("  Tuition in/out:  %s / %s\n", format.MoneyUSD(s.TuitionIn), format.MoneyUSD(s.TuitionOut))
	if card.Enrichment != nil {
		if len(card.Enrichment.NotableAlumni) > 0 {
			fmt.Printf("  Notable alumni:  %s\n", strings.Join(card.Enrichment.NotableAlumni, ", "))
		}
		if card.Enrichment.FunFact != "" {
			fmt.Printf("  Fun fact:        %s\n", card.Enrichment.FunFact)
		}
	}
}

func dumpResults(resp *match.Response) (string, error) {
	file, err := os.CreateTemp("", "collegematch_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func promptOptionalInt(label string, min, max int) (*int, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return nil
			}
			n, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil {
				return errors.New("enter a whole number")
			}
			if n < min || n > max {
				return fmt.Errorf("must be between %d and %d", min, max)
			}
			return nil
		},
	}

	raw, err := prompt.Run()
	if err != nil {
		return nil, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func promptOptionalFloat(label string, min, max float64) (*float64, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return nil
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
			if err != nil {
				return errors.New("enter a number")
			}
			if f < min || f > max {
				return fmt.Errorf("must be between %.1f and %.1f", min, max)
			}
			return nil
		},
	}

	raw, err := prompt.Run()
	if err != nil {
		return nil, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func promptChoice(label string, items []string) (string, error) {
	prompt := promptui.Select{Label: label, Items: items}
	_, choice, err := prompt.Run()
	return choice, err
}

func sizeFromLabel(label string) profile.SizePref {
	switch {
	case strings.HasPrefix(label, "Small"):
		return profile.SizeSmall
	case strings.HasPrefix(label, "Medium"):
		return profile.SizeMedium
	case strings.HasPrefix(label, "Large"):
		return profile.SizeLarge
	default:
		return profile.SizeNoPreference
	}
}

func yesNoFromLabel(label string) profile.YesNoPref {
	switch label {
	case "Yes":
		return profile.PrefYes
	case "No":
		return profile.PrefNo
	default:
		return profile.PrefNoPreference
	}
}

func controlFromLabel(label string) profile.ControlPref {
	switch label {
	case "Public":
		return profile.ControlPublic
	case "Private":
		return profile.ControlPrivate
	default:
		return profile.ControlNoPreference
	}
}
