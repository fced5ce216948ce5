// Command score prints the sentiment of its arguments, or of stdin when no
// arguments are given, as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spacesedan/feedbackhub/internal/logging"
	"github.com/spacesedan/feedbackhub/internal/sentiment"
	"github.com/spacesedan/feedbackhub/internal/textclean"
)

func main() {
	stripMarkdown := flag.Bool("markdown", false, "strip markdown before scoring")
	level := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	slog.SetDefault(logging.NewLogger(os.Stderr, *level))

	text, err := readInput(flag.Args(), os.Stdin)
	if err != nil {
		slog.Error("[Score] Failed to read input", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *stripMarkdown {
		text = textclean.ToPlainText(text)
	}

	res, err := sentiment.Load()
	if err != nil {
		slog.Error("[Score] Failed to load sentiment resources", slog.String("error", err.Error()))
		os.Exit(1)
	}

	out, err := json.MarshalIndent(sentiment.NewScorer(res).Score(text), "", "  ")
	if err != nil {
		slog.Error("[Score] Failed to encode result", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
