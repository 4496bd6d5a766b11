package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/llmstream/bootstrap"
	"github.com/kbukum/llmstream/llm"
	"github.com/kbukum/llmstream/llm/clarifai"
	"github.com/kbukum/llmstream/provider"
)

type streamOptions struct {
	system        string
	model         string
	showReasoning bool
	timeout       time.Duration
}

func newStreamCmd() *cobra.Command {
	var o streamOptions
	cmd := &cobra.Command{
		Use:   "stream [prompt]",
		Short: "Send a prompt and print the response chunks",
		Long: `Send a prompt and print the response chunks.

The prompt is taken from the arguments, or from stdin when none are given.
Text chunks go to stdout. Reasoning chunks are hidden unless --show-reasoning
is set, in which case they are written to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			if prompt == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read prompt: %w", err)
				}
				prompt = strings.TrimSpace(string(data))
			}
			if prompt == "" {
				return fmt.Errorf("a prompt is required")
			}
			return runStream(cmd, prompt, o)
		},
	}
	cmd.Flags().StringVarP(&o.system, "system", "s", "", "System prompt")
	cmd.Flags().StringVarP(&o.model, "model", "m", "", "Model id (user/app/models/name), overrides config")
	cmd.Flags().BoolVar(&o.showReasoning, "show-reasoning", false, "Write reasoning chunks to stderr")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "Request timeout (default from config, 120s)")
	return cmd
}

func runStream(cmd *cobra.Command, prompt string, o streamOptions) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if o.model != "" {
		cfg.Clarifai.ModelID = o.model
	}
	if o.timeout > 0 {
		cfg.Clarifai.Timeout = o.timeout
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := app.EnableTelemetry(ctx, cfg.Telemetry); err != nil {
		return err
	}

	reg := llm.NewRegistry()
	clarifai.Register(reg,
		clarifai.WithLogger(app.Logger.WithComponent(clarifai.Name)),
		clarifai.WithMetrics(app.Metrics),
	)

	providers := provider.NewManager(reg, nil)
	if err := providers.Initialize(clarifai.Name, cfg.Clarifai.Map()); err != nil {
		return err
	}

	return app.RunTask(ctx, func(ctx context.Context) error {
		p, err := providers.GetByName(clarifai.Name)
		if err != nil {
			return err
		}
		it, err := p.Stream(ctx, o.system, []llm.Message{llm.UserMessage(prompt)})
		if err != nil {
			return err
		}
		return printChunks(ctx, it, cmd.OutOrStdout(), cmd.ErrOrStderr(), o.showReasoning)
	})
}

func printChunks(ctx context.Context, it provider.Iterator[llm.Chunk], out, reasoning io.Writer, showReasoning bool) error {
	defer func() { _ = it.Close() }()

	wrote := false
	for {
		c, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		switch c.Type {
		case llm.ChunkReasoning:
			if showReasoning {
				fmt.Fprintf(reasoning, "[reasoning] %s\n", c.Text)
			}
		default:
			fmt.Fprint(out, c.Text)
			wrote = true
		}
	}
	if wrote {
		fmt.Fprintln(out)
	}
	return nil
}
