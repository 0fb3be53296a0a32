package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"collegematch/internal/logger"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Print autocomplete suggestions for a school name query",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runSuggest(strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(query string) {
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
		zl.Fatal("building services", zap.Error(err))
	}

	suggestions, err := svc.suggester.Suggest(ctx, query)
	if err != nil {
		zl.Fatal("suggest failed", zap.Error(err))
	}

	if len(suggestions) == 0 {
		fmt.Println("No suggestions.")
		return
	}

	for _, s := range suggestions {
		fmt.Printf("(%d) %s - %s, %s\n", s.ID, s.Name, s.City, s.State)
	}
}
