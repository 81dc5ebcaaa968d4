package cmd

import (
	"fmt"

	"github.com/jerryli27/coffee-project/internal/store"
	"github.com/jerryli27/coffee-project/internal/web"
	"github.com/spf13/cobra"
)

var (
	serveHost string
	servePort int
	serveSite string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generated site and a JSON API over the stored shops",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("host") {
			serveHost = cfg.Server.Host
		}
		if !cmd.Flags().Changed("port") {
			servePort = cfg.Server.Port
		}

		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		if serveSite == "" {
			if serveSite, err = lastSiteDir(s); err != nil {
				return err
			}
		}

		srv := &web.Server{
			Store:   s,
			Addr:    fmt.Sprintf("%s:%d", serveHost, servePort),
			SiteDir: serveSite,
		}
		return srv.ListenAndServe()
	},
}

// lastSiteDir returns the output directory of the latest finished run, or ""
// before the first one.
func lastSiteDir(s *store.Store) (string, error) {
	last, err := s.LastRun()
	if err != nil || last == nil {
		return "", err
	}
	return last.OutDir, nil
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Host to listen on")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveSite, "site", "", "Site directory to serve (default: output of the latest run)")
	rootCmd.AddCommand(serveCmd)
}
