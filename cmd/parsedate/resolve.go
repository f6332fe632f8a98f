package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/parsedate/internal/profile"
	"github.com/hrygo/parsedate/plugin/datetime"
	"github.com/hrygo/parsedate/plugin/datetime/cache"
)

// outputFormat reads the format flags. The flags are mutually exclusive;
// with none set the profile's format applies.
func outputFormat(cmd *cobra.Command, p *profile.Profile) (formatter, error) {
	flags := cmd.Flags()
	format, precision := p.Format, ""
	switch {
	case flags.Changed("iso-8601"):
		format = profile.FormatISO8601
		precision, _ = flags.GetString("iso-8601")
	case flags.Changed("rfc-3339"):
		format = profile.FormatRFC3339
		precision, _ = flags.GetString("rfc-3339")
	case flags.Changed("rfc-email"):
		format = profile.FormatRFCMail
	case flags.Changed("json"):
		format = profile.FormatJSON
	}
	layout, _ := flags.GetString("format")
	return newFormatter(format, precision, layout)
}

func (c *cli) runResolve(cmd *cobra.Command) error {
	p := c.profile()
	if utc, _ := cmd.Flags().GetBool("utc"); utc {
		p.Timezone = "UTC"
	}
	if err := p.Validate(); err != nil {
		return err
	}
	format, err := outputFormat(cmd, p)
	if err != nil {
		return err
	}

	opts := []datetime.ServiceOption{
		datetime.WithLogger(c.logger()),
		datetime.WithClock(c.now),
	}
	if p.CacheSize > 0 {
		opts = append(opts, datetime.WithCache(cache.NewLRUCache[datetime.PartialSpec](p.CacheSize, p.CacheTTL)))
	}
	r := &runner{
		cli:      c,
		resolver: datetime.NewService(opts...),
		timezone: p.Timezone,
		format:   format,
		debug:    c.v.GetBool("debug"),
	}

	if cmd.Flags().Changed("file") {
		name, _ := cmd.Flags().GetString("file")
		return r.resolveFile(cmd.Context(), name)
	}
	input := "now"
	if cmd.Flags().Changed("date") {
		input, _ = cmd.Flags().GetString("date")
	}
	result, err := r.resolver.Resolve(cmd.Context(), datetime.Request{Input: input, Timezone: r.timezone})
	if err != nil {
		return err
	}
	return r.print(input, result)
}

type runner struct {
	*cli
	resolver datetime.Resolver
	timezone string
	format   formatter
	debug    bool
}

func (r *runner) print(input string, result *datetime.Result) error {
	if r.debug {
		fmt.Fprintf(r.errOut, "parsedate: parsing date string %q\n", result.Spec.Input())
		for _, it := range result.Spec.Items {
			fmt.Fprintf(r.errOut, "parsedate: parsed %s\n", it)
		}
	}
	s, err := r.format(input, result)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.out, s)
	return err
}

type lineResult struct {
	result *datetime.Result
	err    error
}

// resolveFile resolves every line of the named file, "-" being standard
// input. Lines are resolved concurrently and printed in order. A line that
// fails is reported and does not stop the others.
func (r *runner) resolveFile(ctx context.Context, name string) error {
	lines, err := r.readLines(name)
	if err != nil {
		return err
	}

	results := make([]lineResult, len(lines))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, line := range lines {
		g.Go(func() error {
			res, err := r.resolver.Resolve(ctx, datetime.Request{Input: line, Timezone: r.timezone})
			results[i] = lineResult{result: res, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for i, lr := range results {
		if lr.err != nil {
			fmt.Fprintf(r.errOut, "parsedate: %v\n", lr.err)
			failed++
			continue
		}
		if err := r.print(lines[i], lr.result); err != nil {
			return err
		}
	}
	if failed > 0 {
		return errReported
	}
	return nil
}

func (r *runner) readLines(name string) ([]string, error) {
	var in io.Reader = r.in
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open date file")
		}
		defer f.Close()
		in = f
	}

	var lines []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", name)
	}
	return lines, nil
}
