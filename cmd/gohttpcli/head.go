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
	"time"

	colorable "github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/sabouaram/gohttpcli/client"
	"github.com/sabouaram/gohttpcli/urlutil"
)

func newHeadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "head <url>",
		Short: "Issue a HEAD and print response headers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHead(cmd, args[0])
		},
	}
}

func runHead(cmd *cobra.Command, url string) error {
	out := colorable.NewColorableStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	mgr, closeMgr := buildManager(cfg)
	defer closeMgr()

	req, err := urlutil.ParseURL(url)
	if err != nil {
		return err
	}
	req.Method = "HEAD"
	if cfg.UserAgent != "" {
		req.RequestHeaders = req.RequestHeaders.Set("User-Agent", cfg.UserAgent)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.HTTPLbsRedirectBudget(ctx, req, mgr, cfg.RedirectBudget)
	if err != nil {
		return err
	}

	printHeaders(out, resp.ResponseHeaders)
	return nil
}
