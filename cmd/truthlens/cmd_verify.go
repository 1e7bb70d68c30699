package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"truthlens/internal/types"
	"truthlens/internal/verify"
)

var (
	verifyImagePath string
	verifyCaption   string
	verifyNoSave    bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify [claim]",
	Short: "Verify a text claim or an image",
	Long: `Runs a single search-grounded verification call and prints the
verdict, confidence, evidence, and cited sources.

Pass the claim text as an argument, or --image with a file path for
forensic image analysis (--caption adds optional user context).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		orchestrator := verify.New(newInvoker())

		var result *types.VerificationResult
		var err error
		switch {
		case verifyImagePath != "":
			var image []byte
			image, err = os.ReadFile(verifyImagePath)
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}
			result, err = orchestrator.VerifyImage(ctx, image, imageMIMEType(verifyImagePath), verifyCaption)
		case len(args) == 1 && strings.TrimSpace(args[0]) != "":
			result, err = orchestrator.VerifyText(ctx, args[0])
		default:
			return fmt.Errorf("nothing to verify: pass a claim or --image")
		}
		if err != nil {
			return fmt.Errorf("verification failed (check API key): %w", err)
		}

		if !verifyNoSave {
			if s, serr := openStore(); serr == nil {
				if herr := s.AppendHistory(result); herr != nil {
					logger.Warn("could not save history", zap.Error(herr))
				}
				s.Close()
			} else {
				logger.Warn("session store unavailable", zap.Error(serr))
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// imageMIMEType sniffs the MIME type from the file extension, defaulting to
// image/jpeg the way the verifier itself does.
func imageMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyImagePath, "image", "i", "", "path to an image file to analyze")
	verifyCmd.Flags().StringVarP(&verifyCaption, "caption", "c", "", "user-supplied context for image analysis")
	verifyCmd.Flags().BoolVar(&verifyNoSave, "no-save", false, "do not append the result to verification history")
	rootCmd.AddCommand(verifyCmd)
}
