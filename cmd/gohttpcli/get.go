/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/sabouaram/gohttpcli/client"
	liberr "github.com/sabouaram/gohttpcli/errors"
	"github.com/sabouaram/gohttpcli/request"
	"github.com/sabouaram/gohttpcli/urlutil"
)

func newGetCmd() *cobra.Command {
	var showHeaders bool

	cmd := &cobra.Command{
		Use:   "get <url>",
		Short: "Issue a GET, following redirects, and print the body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, args[0], showHeaders)
		},
	}

	cmd.Flags().BoolVar(&showHeaders, "headers", false, "print response headers as a table")
	return cmd
}

func runGet(cmd *cobra.Command, url string, showHeaders bool) error {
	out := colorable.NewColorableStdout()

	p := mpb.New(mpb.WithOutput(out), mpb.WithWidth(40))
	bar := p.AddBar(1,
		mpb.PrependDecorators(decor.Name("fetching ")),
		mpb.AppendDecorators(decor.Elapsed(decor.ET_STYLE_GO)),
	)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	mgr, closeMgr := buildManager(cfg)
	defer closeMgr()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := urlutil.ParseURL(url)
	if err != nil {
		return err
	}
	if cfg.UserAgent != "" {
		req.RequestHeaders = req.RequestHeaders.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := client.HTTPLbsRedirectBudget(ctx, req, mgr, cfg.RedirectBudget)
	bar.IncrBy(1)
	p.Wait()

	if err != nil {
		_, _ = color.New(color.FgRed).Fprintf(out, "request failed: %v\n", err)
		return err
	}

	if showHeaders {
		printHeaders(out, resp.ResponseHeaders)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = color.New(color.FgYellow).Fprintf(out, "status %d\n", resp.StatusCode)
		return liberr.NewStatusCode(resp.StatusCode, resp.ResponseBody)
	}

	_, _ = fmt.Fprintln(os.Stdout, string(resp.ResponseBody))
	return nil
}

func printHeaders(out io.Writer, headers request.Headers) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Name", "Value"})
	for _, h := range headers {
		table.Append([]string{h.Name, h.Value})
	}
	table.Render()
}
