package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/go-kratos/quickstart"
	"github.com/go-kratos/quickstart/internal/config"
	"github.com/go-kratos/quickstart/internal/logging"
	"github.com/go-kratos/quickstart/internal/telemetry"
)

const serviceName = "quickstart"

type runFlags struct {
	input       string
	transform   string
	prompt      bool
	json        bool
	trace       bool
	retry       int
	instruction string
	logLevel    string
	envFile     string
}

func newRootCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "quickstart",
		Short: "Run a single-node text transformation graph",
		Long: `quickstart builds a graph with one "transform" node, which is both the entry and the
finish point, invokes it once with the input text and prints the result.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "", `input text (default "hello", or QUICKSTART_INPUT)`)
	flags.StringVarP(&f.transform, "transform", "t", "", "transform applied by the node: "+strings.Join(append(quickstart.TransformNames(), quickstart.TransformModel), ", "))
	flags.BoolVar(&f.prompt, "prompt", false, "read the input from one line of stdin, empty keeps the default")
	flags.BoolVar(&f.json, "json", false, "read and write the state as JSON")
	flags.BoolVar(&f.trace, "trace", false, "write OpenTelemetry spans to stderr")
	flags.IntVar(&f.retry, "retry", 0, "total attempts for a failing node")
	flags.StringVar(&f.instruction, "instruction", "", "system instruction for the model transform (or QUICKSTART_INSTRUCTION)")
	cmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error (or LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&f.envFile, "env-file", ".env", "optional dotenv file, loaded when it exists")

	cmd.AddCommand(newInspectCmd(), newSchemaCmd(), newVersionCmd())
	return cmd
}

func run(cmd *cobra.Command, f *runFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(f.envFile)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(firstNonEmpty(f.logLevel, cfg.LogLevel))
	if err != nil {
		return err
	}
	logger := logging.New(level, cmd.ErrOrStderr())

	if f.instruction != "" {
		cfg.Instruction = f.instruction
	}
	transform, err := resolveTransform(ctx, firstNonEmpty(f.transform, cfg.Transform), cfg)
	if err != nil {
		return err
	}
	opts := []quickstart.Option{
		quickstart.WithTransform(transform),
		quickstart.WithLogger(logger),
		quickstart.WithRetry(f.retry),
	}
	if f.trace {
		tp, err := telemetry.NewTracerProvider(ctx, cmd.ErrOrStderr(), serviceName)
		if err != nil {
			return err
		}
		defer func() {
			if err := tp.Shutdown(context.WithoutCancel(ctx)); err != nil {
				logger.WarnContext(ctx, "tracer shutdown failed", "error", err)
			}
		}()
		opts = append(opts, quickstart.WithTracerProvider(tp))
	}
	executor, err := quickstart.Build(opts...)
	if err != nil {
		return err
	}

	input, err := resolveInput(cmd, f, cfg)
	if err != nil {
		return err
	}
	runner := quickstart.NewRunner(executor, quickstart.WithRunLogger(logger))
	if !f.json {
		output, err := runner.Run(ctx, input)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
		return err
	}

	state, err := quickstart.DecodeState([]byte(input))
	if err != nil {
		return err
	}
	state, err = runner.RunState(ctx, state)
	if err != nil {
		return err
	}
	data, err := quickstart.EncodeState(state)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func resolveTransform(ctx context.Context, name string, cfg *config.Config) (quickstart.Transform, error) {
	switch name {
	case "":
		return quickstart.Identity, nil
	case quickstart.TransformModel:
		clientConfig, err := cfg.GenAIClientConfig(ctx)
		if err != nil {
			return nil, err
		}
		return quickstart.NewModelTransform(ctx, quickstart.ModelConfig{
			Model:       cfg.Model,
			Instruction: cfg.Instruction,
			Client:      clientConfig,
		})
	default:
		return quickstart.LookupTransform(name)
	}
}

// resolveInput picks the input text: the flag, then one line of stdin with
// --prompt, then QUICKSTART_INPUT, then the default literal. With --json the
// text is a JSON encoded state; stdin is still read only with --prompt.
func resolveInput(cmd *cobra.Command, f *runFlags, cfg *config.Config) (string, error) {
	fallback := firstNonEmpty(cfg.Input, config.DefaultInput)
	if f.json {
		data, err := quickstart.EncodeState(quickstart.State{Text: fallback})
		if err != nil {
			return "", err
		}
		fallback = string(data)
	}
	if f.input != "" {
		return f.input, nil
	}
	if !f.prompt {
		return fallback, nil
	}
	in := cmd.InOrStdin()
	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Enter input (default %q): ", fallback)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	if line = strings.TrimSpace(line); line == "" {
		return fallback, nil
	}
	return line, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
