package cmd

import (
	"fmt"

	"github.com/jerryli27/coffee-project/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the latest run produced",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		fmt.Printf("Pipeline Status\n")
		fmt.Printf("===============\n")
		fmt.Printf("Runs finished:   %d\n", s.RunCount())

		last, err := s.LastRun()
		if err != nil {
			return err
		}
		if last == nil {
			fmt.Printf("No finished runs yet. Try: cafe-map run --input <saved places csv>\n")
			return nil
		}

		fmt.Printf("Last run:        %s\n", last.ID)
		fmt.Printf("  input:         %s\n", last.Input)
		fmt.Printf("  finished:      %s\n", last.FinishedAt)
		fmt.Printf("  loaded:        %d\n", last.Loaded)
		fmt.Printf("  enriched:      %d / %d\n", last.Enriched, last.Loaded)
		fmt.Printf("  reviewed:      %d / %d\n", last.Reviewed, last.Enriched)
		fmt.Printf("  pages:         %d\n", last.Pages)
		fmt.Printf("Stored shops:    %d (%d with reviews)\n", s.ShopCount(), s.ReviewCount())

		cities, err := s.ReadCities()
		if err != nil {
			return err
		}
		if len(cities) > 0 {
			fmt.Printf("\nPer-City Breakdown\n")
			fmt.Printf("------------------\n")
			for _, c := range cities {
				fmt.Printf("  %-24s  shops: %3d\n", c.City, c.Shops)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
