package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jerryli27/coffee-project/internal/enricher"
	"github.com/jerryli27/coffee-project/internal/llm"
	"github.com/jerryli27/coffee-project/internal/pipeline"
	"github.com/jerryli27/coffee-project/internal/places"
	"github.com/jerryli27/coffee-project/internal/review"
	"github.com/jerryli27/coffee-project/internal/store"
	"github.com/spf13/cobra"
)

var (
	runInput    string
	runOutput   string
	runFormat   string
	runGeoJSON  bool
	runReviews  bool
	runHTML     bool
	runPhotos   bool
	runMarkdown bool
)

const googleKeyHelp = `To fix this:
1. Get a Google Maps API key from: https://developers.google.com/maps/gmp-get-started
2. Enable the Places API for your project
3. Set the API key as an environment variable:
   export GOOGLE_MAPS_API_KEY='your_api_key_here'
   or create a .env file with: GOOGLE_MAPS_API_KEY=your_api_key_here`

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Enrich a saved-places CSV and write the table, pages and index",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("output") {
			runOutput = cfg.Output.Dir
		}
		if !cmd.Flags().Changed("format") {
			runFormat = cfg.Output.Format
		}
		if !cmd.Flags().Changed("photos") {
			runPhotos = cfg.Places.DownloadPhotos
		}
		if !cmd.Flags().Changed("markdown") {
			runMarkdown = cfg.Output.Markdown
		}
		if runFormat != "parquet" && runFormat != "csv" {
			return fmt.Errorf("unknown format %q (want parquet or csv)", runFormat)
		}

		provider, err := places.NewGoogle()
		if err != nil {
			return fmt.Errorf("%w\n\n%s", err, googleKeyHelp)
		}
		say("✅ Place provider initialized")

		if _, err := os.Stat(runInput); err != nil {
			return fmt.Errorf("input file not found: %s (specify a different file with --input)", runInput)
		}

		var text llm.Completer
		if runReviews || runHTML {
			text, err = newTextProvider(cfg.LLM.Provider)
			if err != nil {
				fmt.Fprintf(os.Stderr, "⚠️  %v\n", err)
				if runReviews {
					fmt.Fprintln(os.Stderr, textKeyHelp(cfg.LLM.Provider))
				}
				fmt.Fprintln(os.Stderr, "   Continuing without reviews; city folders use address parsing.")
				text = nil
			}
		}

		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		models := cfg.LLM.Models()
		p := &pipeline.Pipeline{Places: provider, Text: text, Store: s, Logger: logger}
		opts := pipeline.Options{
			Input:     runInput,
			OutputDir: runOutput,
			Format:    runFormat,
			GeoJSON:   runGeoJSON,
			Reviews:   runReviews,
			HTML:      runHTML,
			Markdown:  runMarkdown,
			Enrich: enricher.Options{
				DownloadPhotos:  runPhotos,
				PhotoMaxWidth:   cfg.Places.PhotoMaxWidth,
				PhotoMaxHeight:  cfg.Places.PhotoMaxHeight,
				PhotoTimeout:    cfg.Places.PhotoTimeout(),
				DetailsInterval: cfg.Places.DetailsInterval(),
				PhotoInterval:   cfg.Places.PhotoInterval(),
			},
			Review: review.Options{
				Model:       models.ReviewModel,
				MaxTokens:   cfg.LLM.ReviewMaxTokens,
				Temperature: cfg.LLM.ReviewTemperature,
				Interval:    cfg.LLM.ReviewInterval(),
			},
			CityModel: models.CityModel,
		}

		say("🔍 Processing coffee shop list from: %s", runInput)
		res, err := p.Run(ctx, opts)
		if errors.Is(err, context.Canceled) {
			fmt.Println("\nInterrupted before the run finished.")
			return nil
		}
		if err != nil {
			return err
		}

		printSummary(res)
		return nil
	},
}

func newTextProvider(name string) (llm.Completer, error) {
	switch name {
	case "openai":
		return llm.NewOpenAI()
	case "anthropic", "":
		return llm.NewAnthropic()
	default:
		return nil, fmt.Errorf("unknown text provider %q", name)
	}
}

func textKeyHelp(provider string) string {
	if provider == "openai" {
		return `To fix this:
1. Get an OpenAI API key from: https://platform.openai.com/
2. Set it as an environment variable: export OPENAI_API_KEY='your_api_key_here'
   or create a .env file with: OPENAI_API_KEY=your_api_key_here`
	}
	return `To fix this:
1. Get an Anthropic API key from: https://console.anthropic.com/
2. Set it as an environment variable: export ANTHROPIC_API_KEY='your_api_key_here'
   or create a .env file with: ANTHROPIC_API_KEY=your_api_key_here`
}

func printSummary(res *pipeline.Result) {
	if res.Loaded == 0 {
		fmt.Println("❌ No coffee shops found in the CSV file")
		return
	}
	say("✅ Found %d coffee shops with valid place IDs", res.Loaded)
	if res.Enriched == 0 {
		fmt.Println("❌ No shops were successfully enriched")
		return
	}
	say("✅ Successfully enriched %d coffee shops", res.Enriched)
	if res.Reviewed > 0 {
		say("✅ Generated reviews for %d coffee shops", res.Reviewed)
		if r := res.Records[0].GeneratedReviews; r != nil && verbose {
			fmt.Printf("\n📝 Sample review for '%s':\n", res.Records[0].DisplayName())
			fmt.Printf("   🇺🇸 English: %s\n", r.EN)
			fmt.Printf("   🇨🇳 中文: %s\n", r.ZH)
		}
	}

	fmt.Printf("💾 Saved enriched data to %s (%d rows)\n", res.TablePath, res.Rows)
	if runGeoJSON {
		if res.GeoJSONPath != "" {
			fmt.Printf("🗺️ Exported GeoJSON to %s\n", res.GeoJSONPath)
		} else {
			fmt.Println("⚠️  GeoJSON export skipped: no location data")
		}
	}
	if res.IndexPath != "" {
		fmt.Printf("✅ Generated %d HTML files in %d cities\n", res.Pages, len(res.Cities))
		fmt.Printf("📑 Index: %s\n", res.IndexPath)
		say("🏙️ Cities: %s", strings.Join(res.Cities, ", "))
	}
	say("📍 Classified %d distinct addresses", res.Addresses)
	say("⏱️ Done in %s (run %s)", res.Duration.Round(time.Millisecond), res.RunID)
}

func init() {
	runCmd.Flags().StringVarP(&runInput, "input", "i", "places_list/example_short_list.csv", "Input CSV exported from a saved-places list")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "output", "Output directory; results go under <output>/<input name>/")
	runCmd.Flags().StringVar(&runFormat, "format", "parquet", "Table format: parquet or csv")
	runCmd.Flags().BoolVar(&runGeoJSON, "geojson", false, "Also export a GeoJSON file")
	runCmd.Flags().BoolVar(&runReviews, "reviews", true, "Generate bilingual reviews (needs a text provider key)")
	runCmd.Flags().BoolVar(&runHTML, "html", true, "Generate per-shop pages and an index")
	runCmd.Flags().BoolVar(&runPhotos, "photos", true, "Download place photos for the pages")
	runCmd.Flags().BoolVar(&runMarkdown, "markdown", false, "Also write a markdown copy of each page")
	rootCmd.AddCommand(runCmd)
}
