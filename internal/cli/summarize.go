package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"content-summarizer/internal/domain/entity"
	"content-summarizer/internal/usecase/summarize"
)

func newSummarizeCmd(build BuildFunc) *cobra.Command {
	var contentType string
	var model string
	var output string
	var asJSON bool
	var debug bool

	c := &cobra.Command{
		Use:          "summarize <url>",
		Short:        "Summarize a YouTube video or web article",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := entity.ParseContentType(contentType)
			if err != nil {
				return err
			}

			logger := newLogger(debug)
			svc, err := build(logger)
			if err != nil {
				return err
			}

			res, err := svc.Summarize(cmd.Context(), summarize.Request{
				URL:         strings.TrimSpace(args[0]),
				ContentType: ct,
				Model:       strings.TrimSpace(model),
			})
			if err != nil {
				return errors.New(userMessage(err))
			}

			if output != "" {
				if err := writeSummary(output, res.Summary); err != nil {
					return err
				}
			}
			return printResult(cmd.OutOrStdout(), res, output, asJSON)
		},
	}

	c.Flags().StringVarP(&contentType, "type", "t", "auto", "Content type: auto|video|article")
	c.Flags().StringVarP(&model, "model", "m", "", "Model name (default: catalog default)")
	c.Flags().StringVarP(&output, "output", "o", "summary.txt", "File to write the summary to (empty to skip)")
	c.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	c.Flags().BoolVar(&debug, "debug", false, "Log each refine step to stderr")
	return c
}

// userMessage renders the same static messages the web page shows.
func userMessage(err error) string {
	switch {
	case errors.Is(err, summarize.ErrInvalidURL):
		return "Please enter a valid URL"
	case errors.Is(err, summarize.ErrVideoUnavailable):
		return "Error accessing YouTube video. Please check if the video exists and is publicly available."
	case errors.Is(err, summarize.ErrNoContent):
		return "Unable to extract content from this article. Please check if the URL is accessible."
	case errors.Is(err, summarize.ErrArticleUnavailable):
		return "Failed to load article content. Please check if the URL is accessible, " +
			"the website allows content extraction and the article is not behind a paywall."
	default:
		return "An error occurred: " + err.Error()
	}
}

func writeSummary(path, summary string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(summary), 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

type jsonResult struct {
	*summarize.Result
	DurationMS int64  `json:"duration_ms"`
	Output     string `json:"output,omitempty"`
}

func printResult(w io.Writer, res *summarize.Result, output string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonResult{Result: res, DurationMS: res.Duration.Milliseconds(), Output: output})
	}

	if v := res.Video; v != nil {
		fmt.Fprintf(w, "Title:    %s\n", v.Title)
		fmt.Fprintf(w, "Duration: %s\n", v.DurationString)
		fmt.Fprintf(w, "Channel:  %s\n", v.Channel)
	} else if res.Title != "" {
		fmt.Fprintf(w, "Title:    %s\n", res.Title)
	}
	fmt.Fprintf(w, "Model:    %s (%d chunk(s), %s)\n", res.Model, res.ChunkCount, res.Duration.Round(time.Second))
	fmt.Fprintln(w)
	fmt.Fprintln(w, res.Summary)
	if output != "" {
		fmt.Fprintf(w, "\nSaved to %s\n", output)
	}
	return nil
}
