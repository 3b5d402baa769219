package main

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	herrors "github.com/vango-dev/hfs/internal/errors"
	"github.com/vango-dev/hfs/pkg/message"
)

// requestJSON is the parse command's view of a Request.
type requestJSON struct {
	Method  string           `json:"method"`
	Path    string           `json:"path"`
	Version string           `json:"version"`
	Headers []message.Header `json:"headers"`
	Cookies []message.Cookie `json:"cookies"`
	Body    *string          `json:"body"`
}

func parseCmd() *cobra.Command {
	var lenient bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a raw HTTP/1.1 request",
		Long: `Parse one raw HTTP/1.1 request from file, or from stdin when no file
is given, and print it as JSON. Parse failures are reported with their
error code and, for files, the offending line.

Examples:
  hfs parse request.txt
  printf 'GET / HTTP/1.1\r\n\r\n' | hfs parse`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			file := ""
			if len(args) == 1 {
				file = args[0]
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			req, err := message.Parser{LenientCookies: lenient}.Parse(in)
			if err != nil {
				return parseError(file, err)
			}

			out := requestJSON{
				Method:  req.Method().String(),
				Path:    req.Path(),
				Version: req.Version(),
				Headers: req.Headers(),
				Cookies: req.Cookies(),
			}
			if req.HasBody() {
				body := req.BodyString()
				out.Body = &body
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().BoolVar(&lenient, "lenient-cookies", false, "Skip malformed cookie segments")

	return cmd
}

// parseError points a coded parse failure at its line in file.
func parseError(file string, err error) error {
	if errors.Is(err, io.EOF) {
		return herrors.New(herrors.CodeUsage).
			WithDetail("input is empty").
			WithSuggestion("Pass a file containing a raw request, or pipe one to stdin")
	}
	var he *herrors.Error
	if file != "" && errors.As(err, &he) && he.Location != nil && he.Location.File == "" {
		return he.WithLocation(file, he.Location.Line, he.Location.Column)
	}
	return err
}
