package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// kongVar returns the kong variable named key, or "" if ctx holds no kong
// context or the variable is undefined.
func kongVar(ctx context.Context, key string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil || ktx.Model == nil {
		return ""
	}

	return ktx.Model.Vars()[key]
}

type (
	streamsKey struct{}
	streams    struct {
		in  io.Reader
		out io.Writer
	}
)

// WithStreams returns a new context.Context whose commands read the "-"
// source from in and write the "-" output to out, instead of the process's
// standard input and output.
func WithStreams(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	return context.WithValue(ctx, streamsKey{}, streams{in: in, out: out})
}

func streamsFrom(ctx context.Context) streams {
	s, _ := ctx.Value(streamsKey{}).(streams)

	if s.in == nil {
		s.in = os.Stdin
	}

	if s.out == nil {
		s.out = os.Stdout
	}

	return s
}

// stdio is the special source and output name for the standard streams.
const stdio = "-"

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true
}

// sourceFiles reads a deduplicated list of sources as one text.
type sourceFiles struct {
	names []string
	files []*os.File
	stdin io.Reader
}

// openSources opens every path in order, skipping files already opened under
// another name. Every occurrence of "-", and any path naming the same file as
// standard input, selects in, which is read after all regular files.
//
// If any file cannot be opened, the files opened so far are closed and an
// error derived from [ErrOpenSource] is returned.
func openSources(paths []string, in io.Reader) (*sourceFiles, error) {
	var srcs sourceFiles

	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, hasStdinKey := makeFileKey(stdinInfo)

	useStdin := false

	for _, path := range paths {
		if path == stdio {
			useStdin = true

			continue
		}

		file, key, ok, err := openUniqueFile(path, seen)
		if err != nil {
			_ = srcs.Close()

			return nil, ErrOpenSource.Wrap(err).With(slog.String("path", path))
		}

		if !ok {
			continue
		}

		if hasStdinKey && key == stdinKey {
			_ = file.Close()
			useStdin = true

			continue
		}

		srcs.names = append(srcs.names, path)
		srcs.files = append(srcs.files, file)
	}

	if useStdin {
		srcs.names = append(srcs.names, stdio)
		srcs.stdin = in
	}

	return &srcs, nil
}

// openUniqueFile opens the file at path unless the same file, as identified
// by device and inode after resolving symlinks, is already in seen.
// It reports ok=false for a duplicate.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (file *os.File, key fileKey, ok bool, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, key, false, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, key, false, err
	}

	file, err = os.Open(resolved)
	if err != nil {
		return nil, key, false, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()

		return nil, key, false, err
	}

	if info.IsDir() {
		_ = file.Close()

		return nil, key, false, &os.PathError{
			Op:   "open",
			Path: path,
			Err:  errors.New("is a directory"),
		}
	}

	key, hasKey := makeFileKey(info)
	if hasKey {
		if _, dup := seen[key]; dup {
			_ = file.Close()

			return nil, key, false, nil
		}

		seen[key] = struct{}{}
	}

	return file, key, true, nil
}

// Names returns the names of the sources in the order they are read.
func (s *sourceFiles) Names() []string { return s.names }

// String returns the comma-separated source names.
func (s *sourceFiles) String() string { return strings.Join(s.names, ",") }

// Reader returns a reader over all sources in order, with a newline
// between consecutive sources so that the last line of one never joins the
// first line of the next. A bracket, string or block comment left open at
// the end of a source still continues into the following source.
func (s *sourceFiles) Reader() io.Reader {
	readers := make([]io.Reader, 0, 2*len(s.files)+1)

	for _, f := range s.files {
		if len(readers) > 0 {
			readers = append(readers, strings.NewReader("\n"))
		}

		readers = append(readers, f)
	}

	if s.stdin != nil {
		if len(readers) > 0 {
			readers = append(readers, strings.NewReader("\n"))
		}

		readers = append(readers, s.stdin)
	}

	return io.MultiReader(readers...)
}

// Close closes every opened file. Standard input is left open.
func (s *sourceFiles) Close() error {
	errs := make([]error, 0, len(s.files))

	for _, f := range s.files {
		errs = append(errs, f.Close())
	}

	s.files = nil

	return errors.Join(errs...)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// openOutput returns a writer for path, where "-" selects out.
// Regular files are created or truncated.
func openOutput(path string, out io.Writer) (io.WriteCloser, error) {
	if path == "" || path == stdio {
		return nopWriteCloser{out}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, ErrWriteOutput.Wrap(err).With(slog.String("path", path))
	}

	return file, nil
}
