package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/parsedate/internal/profile"
	"github.com/hrygo/parsedate/internal/version"
	"github.com/hrygo/parsedate/server"
)

// errReported means the failure was already printed.
var errReported = errors.New("errors reported")

// cli carries what a command run needs besides its flags.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	now    func() time.Time
	v      *viper.Viper
}

func newCLI() *cli {
	return &cli{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		now:    time.Now,
		v:      viper.New(),
	}
}

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "parsedate",
		Short:         `Resolve GNU date strings such as "next friday 10am" or "2 weeks ago".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runResolve(cmd)
		},
	}
	rootCmd.SetIn(c.in)
	rootCmd.SetOut(c.out)
	rootCmd.SetErr(c.errOut)

	flags := rootCmd.Flags()
	flags.StringP("date", "d", "", "display time described by `STRING`, not 'now'")
	flags.StringP("file", "f", "", "like --date; once for each line of `DATEFILE` ('-' for stdin)")
	flags.BoolP("utc", "u", false, "interpret and print in Coordinated Universal Time")
	flags.StringP("iso-8601", "I", "", "output in ISO 8601 format; `FMT` is date, hours, minutes, seconds or ns")
	flags.Lookup("iso-8601").NoOptDefVal = "date"
	flags.String("rfc-3339", "", "output in RFC 3339 format; `FMT` is date, seconds or ns")
	flags.BoolP("rfc-email", "R", false, "output in RFC 5322 format, e.g. Mon, 14 Aug 2006 02:34:56 -0600")
	flags.String("format", "", "output with a Go time `LAYOUT`")
	flags.Bool("json", false, "output one JSON object per date string")
	rootCmd.MarkFlagsMutuallyExclusive("iso-8601", "rfc-3339", "rfc-email", "format", "json")
	rootCmd.MarkFlagsMutuallyExclusive("date", "file")

	rootCmd.PersistentFlags().Bool("debug", false, "print the parsed items and debug logs to stderr")
	rootCmd.PersistentFlags().String("tz", "", "ambient IANA time zone (default $TZ, then local)")
	for _, key := range []string{"debug", "tz"} {
		if err := c.v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			panic(err)
		}
	}
	c.v.SetEnvPrefix("parsedate")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	rootCmd.AddCommand(newServeCmd(c), newVersionCmd(c))
	return rootCmd
}

// profile loads the environment, then lets bound flags override it.
func (c *cli) profile() *profile.Profile {
	p := &profile.Profile{}
	p.FromEnv()
	if c.v.IsSet("tz") {
		p.Timezone = c.v.GetString("tz")
	}
	if c.v.IsSet("mode") {
		p.Mode = c.v.GetString("mode")
	}
	if c.v.IsSet("addr") {
		p.Addr = c.v.GetString("addr")
	}
	if c.v.IsSet("port") {
		p.Port = c.v.GetInt("port")
	}
	p.Version = version.GetCurrentVersion(p.Mode)
	return p
}

func (c *cli) logger() *slog.Logger {
	level := slog.LevelInfo
	if c.v.GetBool("debug") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{Level: level}))
}

func newServeCmd(c *cli) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the date resolution HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := c.profile()
			if err := p.Validate(); err != nil {
				return err
			}
			logger := c.logger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := server.NewServer(ctx, p, logger)
			if err != nil {
				return errors.Wrap(err, "failed to create server")
			}
			if err := s.Start(ctx); err != nil {
				return errors.Wrap(err, "failed to start server")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "parsedate %s listening on %s\n", p.Version, s.Addr())

			<-ctx.Done()
			s.Shutdown(context.Background())
			return nil
		},
	}
	serveCmd.Flags().String("mode", "prod", `mode of server, can be "prod" or "dev"`)
	serveCmd.Flags().String("addr", "", "address of server")
	serveCmd.Flags().Int("port", 8081, "port of server")
	for _, key := range []string{"mode", "addr", "port"} {
		if err := c.v.BindPFlag(key, serveCmd.Flags().Lookup(key)); err != nil {
			panic(err)
		}
	}
	return serveCmd
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of parsedate",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "parsedate %s\n", c.profile().Version)
		},
	}
}

func main() {
	c := newCLI()
	if err := newRootCmd(c).Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(c.errOut, "parsedate: %v\n", err)
		}
		os.Exit(1)
	}
}
