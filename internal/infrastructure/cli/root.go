package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/doeshing/iop/internal/app"
	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/infrastructure/ai"
	"github.com/doeshing/iop/internal/ports"
	"github.com/doeshing/iop/internal/version"
)

// ErrNoQuery is returned after the usage screen when iop is called without a query.
var ErrNoQuery = errors.New("no query given")

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
	In      io.Reader
	Out     io.Writer
	ErrOut  io.Writer
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	terminal := NewTerminal(opts.Out, opts.ErrOut, isTerminal(opts.ErrOut))
	container, err := app.BuildContainer(ctx, app.Options{
		Verbose:   opts.Verbose,
		Sink:      terminal,
		Prompter:  NewPrompter(opts.In, opts.Out),
		Clipboard: NewClipboard(),
	})
	if err != nil {
		return nil, err
	}

	var (
		ask         bool
		rotateKey   bool
		showVersion bool
	)

	root := &cobra.Command{
		Use:   "iop [flags] <query...>",
		Short: "iop - natural language to shell commands",
		Long:  "iop asks a language model (OpenRouter) for a shell command, screens it and runs it after confirmation.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case showVersion:
				printVersion(cmd.OutOrStdout())
				return nil
			case rotateKey:
				terminal.Notice(ports.NoticeInfo, "", "Changing the OpenRouter API key")
				if err := container.ConfigLoader.RotateKey(cmd.Context()); err != nil {
					return err
				}
				terminal.Notice(ports.NoticeSuccess, "", "API key updated.")
				return nil
			case len(args) == 0:
				printUsage(terminal, container.Config)
				return ErrNoQuery
			}
			return runQuery(cmd.Context(), container, strings.Join(args, " "), ask)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// Everything after the first word belongs to the query, including things like "-la".
	root.Flags().SetInterspersed(false)
	root.Flags().BoolVarP(&ask, "ask", "a", false, "Ask for confirmation before running the command")
	root.Flags().BoolVarP(&rotateKey, "key", "k", false, "Change the OpenRouter API key")
	root.Flags().BoolVarP(&showVersion, "version", "v", false, "Show the program version")
	root.SetIn(opts.In)
	root.SetOut(opts.Out)
	root.SetErr(opts.ErrOut)

	root.AddCommand(newConfigCommand(container, terminal))
	root.AddCommand(newHistoryCommand(container, terminal))
	root.AddCommand(newCacheCommand(container, terminal))
	root.AddCommand(newDoctorCommand(container, terminal))
	root.AddCommand(newVersionCommand())
	return root, nil
}

func runQuery(ctx context.Context, container *app.Container, prompt string, ask bool) error {
	prompt, err := ai.EnsureQuestion(prompt)
	if err != nil {
		return err
	}
	svc, err := container.NewQueryService(ctx)
	if err != nil {
		return err
	}
	_, err = svc.Run(ctx, domain.QueryRequest{
		Prompt: prompt,
		Ask:    ask,
		Shell:  container.Environment.Shell,
	})
	return err
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show iop version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printVersion(cmd.OutOrStdout())
			return nil
		},
	}
}

func printVersion(out io.Writer) {
	fmt.Fprintf(out, "IOP CLI version %s\n", version.Version)
	if version.Commit != "" {
		fmt.Fprintf(out, "Commit: %s\n", version.Commit)
	}
	if version.BuildDate != "" {
		fmt.Fprintf(out, "Built: %s\n", version.BuildDate)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
