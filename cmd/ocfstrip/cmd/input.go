package cmd

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/calebcase/oops"
	"github.com/zeebo/errs"

	"github.com/calebcase/ocf/container"
)

// Error is the class of command errors.
var Error = errs.Class("ocfstrip")

// open returns the input named by arg: a file path, "-" for stdin, or an
// http(s) URL.
func open(ctx context.Context, stdin io.Reader, arg string) (io.ReadCloser, error) {
	switch {
	case arg == "" || arg == "-":
		return io.NopCloser(stdin), nil
	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, arg, nil)
		if err != nil {
			return nil, Error.Wrap(err)
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, Error.Wrap(err)
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()

			return nil, Error.New("GET %s: %s", arg, resp.Status)
		}

		return resp.Body, nil
	}

	f, err := os.Open(arg)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	return f, nil
}

// create returns the output named by arg: a file path, or "-" for stdout.
func create(stdout io.Writer, arg string) (io.WriteCloser, error) {
	if arg == "" || arg == "-" {
		return nopWriteCloser{stdout}, nil
	}

	f, err := os.Create(arg)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// source reads r in chunks of size bytes until ctx is done.
func source(ctx context.Context, r io.Reader, size int) container.Source {
	src := container.ReaderSource(r, size)

	return container.SourceFunc(func() ([]byte, error) {
		err := ctx.Err()
		if err != nil {
			return nil, oops.Trace(err)
		}

		return src.Next()
	})
}
