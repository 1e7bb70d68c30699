package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"truthlens/internal/config"
	"truthlens/internal/feed"
)

var feedTopics []string

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Generate a credibility-scored news feed",
	Long: `Runs the two-stage pipeline: a search-grounded collector call
retrieves candidate stories, then an analyst call scores publisher
credibility and content neutrality and assigns a verdict per item.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		topics := feedTopics
		if len(topics) == 0 {
			if s, err := openStore(); err == nil {
				saved, _ := s.LoadTopics()
				s.Close()
				topics = saved
			} else {
				logger.Warn("session store unavailable", zap.Error(err))
			}
		}
		if len(topics) == 0 {
			topics = cfg.Feed.Topics
		}

		logger.Info("generating feed", zap.Strings("topics", topics))

		articles, err := feed.New(newInvoker()).Generate(ctx, topics)
		if err != nil {
			return err
		}
		if len(articles) == 0 {
			logger.Warn("no articles found")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(articles)
	},
}

func init() {
	feedCmd.Flags().StringSliceVarP(&feedTopics, "topics", "t", nil,
		fmt.Sprintf("topics to collect (default: saved preferences, then %v)", config.DefaultTopics))
	rootCmd.AddCommand(feedCmd)
}
