// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// markup converts documents written in the markup dialect to HTML.
//
// Usage:
//
//	markup [flags] [FILE [...]]
//
// With no files, or when FILE is "-", markup reads standard input.
// Each input is converted separately and the results are concatenated.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
	"zombiezen.com/go/markup"
	"zombiezen.com/go/markup/custom"
	"zombiezen.com/go/markup/custom/gmcustom"
)

const (
	engineMarkup   = "markup"
	engineGoldmark = "goldmark"
)

type options struct {
	output        string
	engine        string
	noCustom      bool
	detailsOpen   bool
	inputEncoding string
	xhtml         bool
	format        bool
	verbose       bool
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		slog.Error("markup failed", "error", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := new(options)
	c := &cobra.Command{
		Use:           "markup [flags] [FILE [...]]",
		Short:         "Convert markup to HTML",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			})))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts, args)
		},
	}
	f := c.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "write output to `file` instead of stdout")
	f.StringVar(&opts.engine, "engine", engineMarkup, "conversion engine (markup or goldmark)")
	f.BoolVar(&opts.noCustom, "no-custom", false, "disable span, summary, and details syntax")
	f.BoolVar(&opts.detailsOpen, "details-open", false, "render details regions expanded")
	f.StringVar(&opts.inputEncoding, "input-encoding", "", "decode input from the named `encoding` (a WHATWG label)")
	f.BoolVar(&opts.xhtml, "xhtml", false, "write void elements as XHTML")
	f.BoolVar(&opts.format, "format", false, "write reformatted markup instead of HTML")
	c.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "show debug logging")
	return c
}

// converter converts one source document.
type converter func(w io.Writer, source []byte) error

func run(ctx context.Context, stdin io.Reader, stdout io.Writer, opts *options, args []string) (err error) {
	convert, err := newConverter(opts)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}

	out := stdout
	if opts.output != "" && opts.output != "-" {
		f, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := f.Close(); err == nil && closeErr != nil {
				err = closeErr
			}
		}()
		out = f
	}

	for _, name := range args {
		if err := ctx.Err(); err != nil {
			return err
		}
		source, err := readInput(stdin, name, opts.inputEncoding)
		if err != nil {
			return err
		}
		slog.DebugContext(ctx, "Converting", "input", name, "size", len(source), "engine", opts.engine)
		if err := convert(out, source); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func newConverter(opts *options) (converter, error) {
	switch opts.engine {
	case engineMarkup:
		var exts []markup.Extension
		if !opts.noCustom {
			exts = append(exts, custom.Extension{DetailsOpen: opts.detailsOpen})
		}
		c := markup.New(exts...)
		c.Renderer.XHTML = opts.xhtml
		if opts.format {
			formatOptions := custom.FormatOptions()
			return func(w io.Writer, source []byte) error {
				return formatOptions.Format(w, c.Parse(source))
			}, nil
		}
		return func(w io.Writer, source []byte) error {
			buf := new(bytes.Buffer)
			if err := c.Convert(buf, source); err != nil {
				return err
			}
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			_, err := buf.WriteTo(w)
			return err
		}, nil
	case engineGoldmark:
		if opts.format {
			return nil, errors.New("--format requires --engine=markup")
		}
		var gmOptions []goldmark.Option
		if !opts.noCustom {
			gmOptions = append(gmOptions, goldmark.WithExtensions(&gmcustom.Extender{
				DetailsOpen: opts.detailsOpen,
			}))
		}
		if opts.xhtml {
			gmOptions = append(gmOptions, goldmark.WithRendererOptions(gmhtml.WithXHTML()))
		}
		md := goldmark.New(gmOptions...)
		return func(w io.Writer, source []byte) error {
			return md.Convert(source, w)
		}, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", opts.engine)
	}
}

// readInput reads the named file, or stdin if name is "-",
// and decodes it to UTF-8 if an encoding is given.
func readInput(stdin io.Reader, name string, encoding string) ([]byte, error) {
	var source []byte
	var err error
	if name == "-" {
		source, err = io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	} else {
		source, err = os.ReadFile(name)
		if err != nil {
			return nil, err
		}
	}
	if encoding == "" {
		return source, nil
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("input encoding: %w", err)
	}
	source, _, err = transform.Bytes(enc.NewDecoder(), source)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return source, nil
}
