package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"resume-pipeline/internal/claims"
	"resume-pipeline/internal/collections"
	"resume-pipeline/internal/labeling"
	"resume-pipeline/internal/records"
	"resume-pipeline/internal/shared/config"
	"resume-pipeline/internal/shared/storage/db"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Interactively score generated resumes in a collection",
	Long: `Claim documents from a collection one at a time, display each generated
resume, and record a score (0-100) and a truthfulness verdict. Type "quit" at
any prompt to release the current claim and exit. Ctrl-C also releases the
claim before exiting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		collection, _ := cmd.Flags().GetString("collection")
		operator, _ := cmd.Flags().GetString("operator")
		return runLabel(cmd.Context(), collection, operator)
	},
}

func init() {
	labelCmd.Flags().String("collection", "", "collection to label (default: prompt, suggesting the previous day)")
	labelCmd.Flags().String("operator", "", "evaluator name recorded on committed documents")
}

func runLabel(ctx context.Context, collection, operator string) error {
	cfg := config.Load()

	conn, repo, err := openRepo(ctx, cfg, db.DefaultCLIOptions())
	if err != nil {
		return err
	}
	defer conn.Close()

	prompter := labeling.NewPrompter(os.Stdin, os.Stdout)

	if collection == "" {
		collection, err = chooseCollection(ctx, repo, prompter, cfg)
		if errors.Is(err, labeling.ErrQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	ok, err := repo.HasCollection(ctx, collection)
	if err != nil {
		return fmt.Errorf("look up collection: %w", err)
	}
	if !ok {
		return fmt.Errorf("collection %s does not exist", collection)
	}

	if operator == "" {
		operator, err = prompter.Line("Your name: ")
		if errors.Is(err, labeling.ErrQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(operator) == "" {
		return fmt.Errorf("operator name is required")
	}

	mgr := claims.NewManager(repo, collection)

	// A claim left behind by a killed process stays invisible to every other
	// labeler, so the interrupt path releases before exiting.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		if err := mgr.ReleaseCurrent(context.Background()); err != nil {
			printError("release claim on exit: %v", err)
			os.Exit(1)
		}
		printSuccess("claim released, exiting")
		os.Exit(0)
	}()

	printStep("labeling %s as %s", collection, operator)
	session := labeling.NewSession(mgr, prompter, os.Stdout, operator)
	return session.Run(ctx)
}

// chooseCollection lists known collections and prompts for one, suggesting
// the previous day's collection.
func chooseCollection(ctx context.Context, repo records.Repo, prompter *labeling.Prompter, cfg config.Config) (string, error) {
	names, err := repo.ListCollections(ctx)
	if err != nil {
		return "", fmt.Errorf("list collections: %w", err)
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no collections exist yet; run upload or generate first")
	}

	fmt.Fprintln(os.Stdout, "Available collections:")
	for _, name := range names {
		fmt.Fprintf(os.Stdout, "  %s\n", name)
	}

	suggested := collections.PreviousDayName(cfg.Location())
	return prompter.LineOrDefault(fmt.Sprintf("Collection [%s]: ", suggested), suggested)
}
