package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/templui/mediafaves/internal/pixabay"
	"github.com/templui/mediafaves/internal/service"
)

func SearchCmd() *cobra.Command {
	var (
		contentType string
		page        int
		perPage     int
	)

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run one media search against Pixabay and print the mapped page",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			apiKey := os.Getenv("PIXABAY_API_KEY")
			if apiKey == "" {
				return fmt.Errorf("PIXABAY_API_KEY is not set")
			}

			base := envOr("PIXABAY_BASE_URL", "https://pixabay.com/api/")
			if !strings.HasSuffix(base, "/") {
				base += "/"
			}

			searcher := pixabay.New(apiKey, base, base+"videos/", pixabay.WithTimeout(15*time.Second))
			result, err := service.NewSearchService(searcher).Search(
				context.Background(), strings.Join(args, " "), contentType, page, perPage,
			)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	searchCmd.Flags().StringVar(&contentType, "type", pixabay.TypePhoto, "content type (photo or video)")
	searchCmd.Flags().IntVar(&page, "page", 1, "page number")
	searchCmd.Flags().IntVar(&perPage, "per-page", 5, "results per page")

	return searchCmd
}
