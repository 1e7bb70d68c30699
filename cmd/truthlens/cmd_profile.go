package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics [topic ...]",
	Short: "Show or set the saved feed topic preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		defer s.Close()

		if len(args) > 0 {
			if err := s.SaveTopics(args); err != nil {
				return err
			}
			fmt.Printf("saved topics: %s\n", strings.Join(args, ", "))
			return nil
		}

		topics, err := s.LoadTopics()
		if err != nil {
			return err
		}
		if len(topics) == 0 {
			topics = cfg.Feed.Topics
			fmt.Printf("no saved topics, using defaults: %s\n", strings.Join(topics, ", "))
			return nil
		}
		fmt.Println(strings.Join(topics, ", "))
		return nil
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent verification results",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		defer s.Close()

		results, err := s.History(historyLimit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of results to show")
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(historyCmd)
}
