// Command validate checks deal files (save-format .txt boards) before they are
// dropped into the deals directory. For each file it checks:
//   - the save format parses
//   - 52 distinct cards
//   - foundations built up in suit from the Ace
//   - tableau columns with face-down cards under a descending face-up run
//
// It also warns about layouts that parse but make a poor starting deal.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wricardo/klondike/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

// validateDeal loads and checks one deal file.
func validateDeal(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	b, err := engine.LoadBoardFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to load deal: %v", err))
		return result
	}

	if problems := engine.CheckBoard(b); len(problems) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, problems...)
		return result
	}

	hidden := 0
	for _, p := range b.Piles() {
		hidden += engine.CountFaceDown(p)
	}
	result.Info = append(result.Info,
		fmt.Sprintf("✓ %d distinct cards, %d face-down", engine.DeckSize, hidden),
		fmt.Sprintf("✓ Stock: %d, Discard: %d", b.Stock().Size(), b.Discard().Size()))

	for i := 1; i <= engine.TableauCount; i++ {
		p, _ := b.Tableau(i)
		if p.Size() != i {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s has %d cards; a standard deal has %d", p.Name(), p.Size(), i))
		}
	}

	if n := engine.FoundationCount(b); n > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d cards already on the foundations", n))
	}
	if engine.IsWon(b) {
		result.Warnings = append(result.Warnings, "deal is already won")
	} else if moves := engine.LegalMoves(b); len(moves) == 0 {
		result.Warnings = append(result.Warnings, "no legal opening moves")
	} else {
		result.Info = append(result.Info, fmt.Sprintf("✓ %d legal opening moves", len(moves)))
	}

	return result
}

// collectFiles expands each argument: directories contribute their .txt
// files, anything else is taken as a file.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("not found: %s", arg)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.txt"))
		if err != nil {
			return nil, fmt.Errorf("error finding deal files: %w", err)
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}

// printReport writes one block per result and reports whether all passed.
func printReport(out io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(out, colorize.GreenString("✅ VALID"))
			for _, info := range result.Info {
				fmt.Fprintln(out, "  "+info)
			}
		} else {
			fmt.Fprintln(out, colorize.RedString("❌ INVALID"))
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(out, "  ❌ "+err)
			}
		}
		for _, warn := range result.Warnings {
			fmt.Fprintln(out, colorize.YellowString("  ⚠ %s", warn))
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(out, colorize.GreenString("✅ All deals are valid!"))
	} else {
		fmt.Fprintln(out, colorize.RedString("❌ Some deals have errors"))
	}
	return allValid
}

func newRootCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir|file.txt]...",
		Short: "Validate Klondike deal files",
		Long: `Validate checks save-format deal files. Directories are searched for *.txt
files; with no arguments ../deals is checked.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"../deals"}
			}
			files, err := collectFiles(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no deal files found in %s", strings.Join(args, ", "))
			}

			results := make([]ValidationResult, 0, len(files))
			for _, f := range files {
				results = append(results, validateDeal(f))
			}
			if !printReport(out, results) {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
