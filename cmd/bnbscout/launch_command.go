package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bnbscout/internal/dashboard"
	"bnbscout/internal/search"
)

var monitorCommandContext = exec.CommandContext

func newLaunchCommand(ctx *commandContext) *cobra.Command {
	var skipMonitor bool

	cmd := &cobra.Command{
		Use:   "launch [url]",
		Short: "Pick or create a search, run the monitor, and open the dashboard",
		Long: `Launch is the guided entry point. Without arguments it lists the saved
searches and asks which one to run; pasting a marketplace search URL
(either as the argument or at the prompt) creates a new search first.
The monitor runs to completion before the dashboard opens.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			input := bufio.NewReader(cmd.InOrStdin())
			sc, err := selectSearch(cmd, input, cfg.Paths.SearchesDir, cfg.Marketplace.Currency, arg)
			if err != nil {
				return err
			}

			if !skipMonitor {
				if err := runMonitorProcess(cmd, ctx, sc.Name); err != nil {
					return err
				}
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			session, err := dashboard.NewSession(sc,
				dashboard.WithIO(input, cmd.OutOrStdout()),
				dashboard.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			return session.Run()
		},
	}

	cmd.Flags().BoolVar(&skipMonitor, "skip-monitor", false, "Open the dashboard without refreshing data first")
	return cmd
}

// selectSearch resolves the search to operate on. A URL argument creates a
// new search; otherwise the saved searches are listed and the user picks one
// by number or pastes a URL at the prompt.
func selectSearch(cmd *cobra.Command, input *bufio.Reader, searchesRoot, currency, arg string) (*search.Context, error) {
	if arg != "" {
		return createFromURL(cmd, input, searchesRoot, currency, arg)
	}

	names, err := search.List(searchesRoot)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, "No saved searches yet.")
	} else {
		fmt.Fprintln(out, "Saved searches:")
		for i, name := range names {
			fmt.Fprintf(out, "  %d. %s\n", i+1, name)
		}
	}
	fmt.Fprint(out, "Select a search by number, or paste a marketplace search URL: ")

	line, err := readLine(input)
	if err != nil {
		return nil, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("no search selected")
	}

	if n, err := strconv.Atoi(line); err == nil {
		if n < 1 || n > len(names) {
			return nil, fmt.Errorf("selection %d out of range (1-%d)", n, len(names))
		}
		return search.Load(searchesRoot, names[n-1])
	}
	return createFromURL(cmd, input, searchesRoot, currency, line)
}

func createFromURL(cmd *cobra.Command, input *bufio.Reader, searchesRoot, currency, raw string) (*search.Context, error) {
	params, err := search.ParseURL(raw)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	suggested := params.SuggestedName()
	fmt.Fprintf(out, "Search name [%s]: ", suggested)
	name, err := readLine(input)
	if err != nil && err != io.EOF {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = suggested
	}

	sc, err := search.Create(searchesRoot, name, params, currency)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Created search %q in %s\n", sc.Name, sc.Dir)

	if editor := os.Getenv("EDITOR"); editor != "" {
		fmt.Fprintf(out, "Open %s in %s before the first run? [y/N]: ", sc.ConfigPath(), editor)
		answer, err := readLine(input)
		if err != nil && err != io.EOF {
			return nil, err
		}
		if a := strings.ToLower(strings.TrimSpace(answer)); a == "y" || a == "yes" {
			edit := exec.CommandContext(cmd.Context(), editor, sc.ConfigPath())
			edit.Stdin = os.Stdin
			edit.Stdout = os.Stdout
			edit.Stderr = os.Stderr
			if err := edit.Run(); err != nil {
				fmt.Fprintf(out, "editor exited with error: %v\n", err)
			}
		}
	}
	return sc, nil
}

// runMonitorProcess executes `bnbscout monitor <name>` as a child process so
// a monitor crash cannot take the interactive session down with it. Output
// is streamed through as-is.
func runMonitorProcess(cmd *cobra.Command, ctx *commandContext, name string) error {
	binary, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	args := []string{"monitor", name}
	if ctx.configFlag != nil && strings.TrimSpace(*ctx.configFlag) != "" {
		args = append(args, "--config", strings.TrimSpace(*ctx.configFlag))
	}

	child := monitorCommandContext(cmd.Context(), binary, args...)
	stdout, err := child.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	child.Stderr = child.Stdout
	if err := child.Start(); err != nil {
		return fmt.Errorf("start monitor: %w", err)
	}

	out := cmd.OutOrStdout()
	drained := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			fmt.Fprintln(out, scanner.Text())
		}
		drained <- scanner.Err()
	}()

	// The pipe must be fully read before Wait closes it.
	if err := <-drained; err != nil {
		_ = child.Wait()
		return fmt.Errorf("read monitor output: %w", err)
	}
	if err := child.Wait(); err != nil {
		return fmt.Errorf("monitor run failed: %w", err)
	}
	return nil
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}
