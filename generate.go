package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"project_navigator/formatter"
	"project_navigator/generator"
)

type generateOptions struct {
	topic      string
	difficulty string
	duration   string
	count      int
	format     string
	outDir     string
}

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate project ideas once and write them to a file",
	Example: `  projectnav generate --topic "Machine Learning" --difficulty Hard --duration 30 --count 3 --format pdf`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, agent, _, err := setup()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.LLM.Timeout)
		defer cancel()
		return runGenerate(ctx, agent, genOpts, cmd.OutOrStdout())
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genOpts.topic, "topic", "t", "", "topic to master (required)")
	f.StringVarP(&genOpts.difficulty, "difficulty", "d", string(generator.Medium), "Beginner, Easy, Medium, Hard or Expert")
	f.StringVar(&genOpts.duration, "duration", string(generator.TwoWeeks), "completion time in days: 7, 14, 30, 60 or 90")
	f.IntVarP(&genOpts.count, "count", "n", generator.DefaultCount, "number of projects (1-10)")
	f.StringVarP(&genOpts.format, "format", "f", "txt", "export format: txt or pdf")
	f.StringVarP(&genOpts.outDir, "out", "o", ".", "output directory")
}

// runGenerate 校验错误返回退出码 2，模型错误返回 1。
func runGenerate(ctx context.Context, agent *generator.Agent, opts generateOptions, w io.Writer) error {
	format, err := formatter.ParseFormat(opts.format)
	if err != nil {
		return &exitCodeError{code: 2, err: err}
	}
	req, err := buildRequest(opts)
	if err != nil {
		generator.RecordValidationFailure(err)
		return &exitCodeError{code: 2, err: err}
	}

	res, err := agent.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, generator.ErrEmptyTopic) || errors.Is(err, generator.ErrInvalidRequest) {
			return &exitCodeError{code: 2, err: err}
		}
		return err
	}

	art, err := formatter.Export(req.Topic, res.RawText, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(opts.outDir, art.Filename)
	if err := os.WriteFile(path, art.Body, 0o644); err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Fprintf(w, "Saved %d bytes to ", len(art.Body))
	fmt.Fprintln(w, path)
	return nil
}

// buildRequest 和服务端一样先检查 topic。
func buildRequest(opts generateOptions) (generator.Request, error) {
	topic := strings.TrimSpace(opts.topic)
	if topic == "" {
		return generator.Request{}, generator.ErrEmptyTopic
	}
	req := generator.Request{Topic: topic, Count: opts.count}
	var err error
	if req.Difficulty, err = generator.ParseDifficulty(opts.difficulty); err != nil {
		return generator.Request{}, err
	}
	if req.Duration, err = generator.ParseDuration(opts.duration); err != nil {
		return generator.Request{}, err
	}
	return req, nil
}
