// ujo inspects and produces UJO documents.
//
// Usage:
//
//	ujo [-v level] dump [-spew] [file]      Print the elements of a document
//	ujo [-v level] info [file]              Print header, shape and digest
//	ujo [-v level] encode [-in f] [-out f]  Convert a TOML document to UJO
//	ujo version                             Print library and API versions
//
// Without a file, or with "-", input is read from stdin. The log level is
// taken from -v, then from UJO_LOG_LEVEL, and defaults to warn.
//
// The exit status is 0 on success, 2 on usage errors and 10 plus the
// offset of the error kind (see errs.Code) otherwise.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"

	"github.com/arloliu/ujo"
	"github.com/arloliu/ujo/document"
	"github.com/arloliu/ujo/endian"
	"github.com/arloliu/ujo/errs"
)

const (
	exitOK    = 0
	exitUsage = 2
	exitBase  = 10
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// cli carries the streams and logger shared by the subcommands.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	logger zerolog.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("ujo", flag.ContinueOnError)
	global.SetOutput(stderr)
	level := global.String("v", os.Getenv("UJO_LOG_LEVEL"), "log level (debug, info, warn, error)")
	global.Usage = func() { printUsage(stderr) }

	if err := global.Parse(args); err != nil {
		return exitUsage
	}

	logger, err := newLogger(stderr, *level)
	if err != nil {
		fmt.Fprintf(stderr, "ujo: %v\n", err)
		return exitUsage
	}

	if global.NArg() == 0 {
		printUsage(stderr)
		return exitUsage
	}

	c := &cli{stdin: stdin, stdout: stdout, logger: logger}
	cmd, rest := global.Arg(0), global.Args()[1:]

	switch cmd {
	case "dump":
		err = c.dump(rest, stderr)
	case "info":
		err = c.info(rest, stderr)
	case "encode":
		err = c.encode(rest, stderr)
	case "version":
		lib, api := ujo.Version()
		fmt.Fprintf(stdout, "ujo %s (library %d, api %d)\n", ujo.VersionString(), lib, api)
	default:
		fmt.Fprintf(stderr, "ujo: unknown command %q\n", cmd)
		printUsage(stderr)

		return exitUsage
	}

	return c.exitCode(cmd, err)
}

func (c *cli) exitCode(cmd string, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return exitUsage
	}

	code := errs.Code(err)
	c.logger.Error().Err(err).Str("command", cmd).Int("code", code).Msg("ujo command failed")

	return exitBase + code - errs.CodeUnknown
}

func newLogger(out io.Writer, level string) (zerolog.Logger, error) {
	lvl := zerolog.WarnLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
		}
		lvl = parsed
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}

	return zerolog.New(output).Level(lvl).With().Timestamp().Str("app", "ujo").Logger(), nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: ujo [-v level] <command> [flags] [file]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  dump [-spew] [file]      print the elements of a document")
	fmt.Fprintln(w, "  info [file]              print header, shape and digest")
	fmt.Fprintln(w, "  encode [-in f] [-out f]  convert a TOML document to UJO")
	fmt.Fprintln(w, "  version                  print library and API versions")
}

// inputArg returns the single optional file argument.
func inputArg(fs *flag.FlagSet) (string, error) {
	switch fs.NArg() {
	case 0:
		return "-", nil
	case 1:
		return fs.Arg(0), nil
	default:
		return "", fmt.Errorf("%w: %s takes at most one file", errUsage, fs.Name())
	}
}

func (c *cli) readAll(name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: read stdin: %w", errs.ErrIO, err)
		}

		return data, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	return data, nil
}

// openReader streams stdin or a file through a document reader.
func (c *cli) openReader(name string) (*document.Reader, error) {
	opt := document.WithLogger(c.logger)
	if name == "-" {
		return document.NewReader(document.NewStreamSource(c.stdin, 0), opt)
	}

	return ujo.OpenReader(name, opt)
}

func (c *cli) dump(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	useSpew := fs.Bool("spew", false, "decode into Go values and dump them with go-spew")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	name, err := inputArg(fs)
	if err != nil {
		return err
	}

	if *useSpew {
		data, err := c.readAll(name)
		if err != nil {
			return err
		}

		v, err := ujo.Unmarshal(data, document.WithLogger(c.logger))
		if err != nil {
			return err
		}

		cfg := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true, DisableCapacities: true}
		cfg.Fdump(c.stdout, v)

		return nil
	}

	r, err := c.openReader(name)
	if err != nil {
		return err
	}
	defer r.Close()

	for e, err := range r.All() {
		if err != nil {
			return err
		}

		fmt.Fprintf(c.stdout, "%s%s\n", strings.Repeat("  ", indent(e, r.Depth())), e)
	}

	return nil
}

// indent places an element at the depth of the container holding it.
// Openers have already pushed and closers have already popped a level.
func indent(e *document.Element, depth int) int {
	switch {
	case e.IsContainer(), e.EndsColumns():
		return depth - 1
	default:
		return depth
	}
}

func (c *cli) info(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	name, err := inputArg(fs)
	if err != nil {
		return err
	}

	data, err := c.readAll(name)
	if err != nil {
		return err
	}

	r, err := ujo.NewReader(data, document.WithLogger(c.logger))
	if err != nil {
		return err
	}

	elements, maxDepth := 0, 0
	for _, err := range r.All() {
		if err != nil {
			return err
		}
		elements++
		maxDepth = max(maxDepth, r.Depth())
	}

	h := r.Header()
	fmt.Fprintf(c.stdout, "version:      %d\n", h.Version)
	fmt.Fprintf(c.stdout, "compression:  %s\n", h.Compression)
	fmt.Fprintf(c.stdout, "size:         %d bytes\n", len(data))
	fmt.Fprintf(c.stdout, "elements:     %d\n", elements)
	fmt.Fprintf(c.stdout, "max depth:    %d\n", maxDepth)
	fmt.Fprintf(c.stdout, "host order:   %s\n", endian.Name(endian.HostOrder()))
	fmt.Fprintf(c.stdout, "xxhash64:     %016x\n", ujo.Fingerprint(data))

	return nil
}

func (c *cli) encode(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "-", "TOML input file")
	out := fs.String("out", "-", "UJO output file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	if fs.NArg() != 0 {
		return fmt.Errorf("%w: encode takes no positional arguments", errUsage)
	}

	src, err := c.readAll(*in)
	if err != nil {
		return err
	}

	var doc map[string]any
	meta, err := toml.Decode(string(src), &doc)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidData, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		c.logger.Warn().Int("keys", len(undecoded)).Msg("toml keys left undecoded")
	}

	if doc == nil {
		doc = map[string]any{}
	}

	w, err := ujo.NewWriter(document.WithLogger(c.logger))
	if err != nil {
		return err
	}
	defer w.Close()

	if err := ujo.Encode(w, doc); err != nil {
		return err
	}

	c.logger.Debug().Int("keys", len(doc)).Int64("bytes", w.Len()).Msg("encoded toml document")

	if *out == "-" {
		_, err := w.WriteTo(c.stdout)
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	if _, err := w.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrIO, err)
	}

	return nil
}
