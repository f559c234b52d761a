package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sectoolkit/pkg/analysis"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/serrors"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// AnalyzeCommand constructs the 'analyze' command that reports the strength
// of a password. Without an argument the password is read from the terminal
// without echo, or from the first line of stdin.
func (a *App) AnalyzeCommand() *cobra.Command {
	var (
		minLength    int
		wordlistPath string
		minScore     int
		generate     int
		symbols      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [password]",
		Short: "Analyzes password strength",
		Example: `  analyze
  echo 'correct horse' | analyze --min-score 3
  analyze --generate 20`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if generate > 0 {
				pw, err := analysis.Generate(generate, symbols)
				if err != nil {
					return err //nolint: wrapcheck
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), pw)

				return err //nolint: wrapcheck
			}

			analyzer, err := newPasswordAnalyzer(a.Config, minLength, wordlistPath)
			if err != nil {
				return err
			}

			var pw string
			if len(args) == 1 {
				pw = args[0]
			} else if pw, err = readPassword(cmd); err != nil {
				return err
			}

			res := analyzer.Analyze(pw)
			if err := a.write(cmd, &res); err != nil {
				return err
			}

			if res.Score < domain.PasswordScore(minScore) {
				return serrors.With(serrors.ErrBadRequest, "password is %s, at least %s is required",
					res.Score, domain.PasswordScore(minScore))
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&minLength, "min-length", 0, "Minimum length required by the policy")
	cmd.Flags().StringVar(&wordlistPath, "wordlist", "", "Extra common passwords, one per line")
	cmd.Flags().IntVar(&minScore, "min-score", 0, "Fail when the score (0-4) is lower")
	cmd.Flags().IntVar(&generate, "generate", 0, "Print a random password of this length instead")
	cmd.Flags().BoolVar(&symbols, "symbols", true, "Include symbols in generated passwords")

	return cmd
}

// readPassword prompts on a terminal without echo and otherwise reads one line.
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint: gosec
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		b, err := term.ReadPassword(int(f.Fd())) //nolint: gosec
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("could not read password: %w", err)
		}

		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("could not read password: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}
