package definition

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"github.com/mitchellh/go-homedir"

	"github.com/macropower/netsense/pkg/config"
	"github.com/macropower/netsense/pkg/log"
)

// ErrMalformed indicates a rule file that could not be parsed or failed
// schema validation.
var ErrMalformed = errors.New("malformed network definition")

const globMeta = `*?[{\`

// LoaderOpt configures a [Loader].
type LoaderOpt func(*Loader)

// WithValidator sets the validator used for each rule file.
func WithValidator(v config.Validator) LoaderOpt {
	return func(l *Loader) {
		l.validator = v
	}
}

// WithColor enables ANSI colors in annotated error source.
func WithColor(colored bool) LoaderOpt {
	return func(l *Loader) {
		l.colored = colored
	}
}

// Loader locates and loads rule files matching a glob pattern.
type Loader struct {
	validator config.Validator
	glob      glob.Glob
	pattern   string
	root      string
	maxDepth  int // Zero means unlimited.
	colored   bool
}

// NewLoader creates a [Loader] for the given pattern. The pattern uses "/"
// as separator; "*" does not cross directories while "**" does. A leading
// "~" is expanded to the user's home directory.
func NewLoader(pattern string, opts ...LoaderOpt) (*Loader, error) {
	expanded, err := homedir.Expand(pattern)
	if err != nil {
		return nil, fmt.Errorf("expand pattern %q: %w", pattern, err)
	}

	cleaned := filepath.ToSlash(filepath.Clean(expanded))

	g, err := glob.Compile(cleaned, '/')
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}

	root, rest := splitPattern(cleaned)

	l := &Loader{
		validator: DefaultValidator,
		glob:      g,
		pattern:   cleaned,
		root:      root,
	}
	if !strings.Contains(rest, "**") {
		l.maxDepth = strings.Count(rest, "/") + 1
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Pattern returns the expanded, cleaned pattern.
func (l *Loader) Pattern() string {
	return l.pattern
}

// Root returns the deepest directory that contains every possible match.
func (l *Loader) Root() string {
	return filepath.FromSlash(l.root)
}

// Match reports whether the path matches the pattern.
func (l *Loader) Match(p string) bool {
	return l.glob.Match(filepath.ToSlash(filepath.Clean(p)))
}

// Find returns the paths of all files matching the pattern, in lexical
// order. A missing root directory yields no paths.
func (l *Loader) Find() ([]string, error) {
	var paths []string

	root := l.Root()

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}

			return err
		}

		if d.IsDir() {
			if p != root && l.maxDepth > 0 && depth(root, p) >= l.maxDepth {
				return fs.SkipDir
			}

			return nil
		}

		if l.Match(p) {
			paths = append(paths, p)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find network definitions in %s: %w", root, err)
	}

	slices.Sort(paths)

	return paths, nil
}

// Load loads every rule file matching the pattern, in lexical path order.
// Empty files are skipped. Malformed files are logged and skipped.
func (l *Loader) Load(ctx context.Context) ([]*NetworkDefinition, error) {
	logger := log.WithContext(ctx)

	paths, err := l.Find()
	if err != nil {
		return nil, err
	}

	defs := make([]*NetworkDefinition, 0, len(paths))

	for _, p := range paths {
		def, err := l.LoadFile(p)

		switch {
		case errors.Is(err, config.ErrEmpty):
			logger.Debug("skip empty network definition", slog.String("path", p))

			continue
		case errors.Is(err, ErrMalformed):
			logger.Warn("skip network definition",
				slog.String("path", p),
				slog.Any("error", err),
			)

			continue
		case err != nil:
			return nil, err
		}

		defs = append(defs, def)
	}

	logger.Debug("loaded network definitions",
		slog.String("pattern", l.pattern),
		slog.Int("files", len(paths)),
		slog.Int("definitions", len(defs)),
	)

	return defs, nil
}

// LoadFile loads a single rule file. It returns [config.ErrEmpty] for an
// empty document and an error wrapping [ErrMalformed] for invalid content.
func (l *Loader) LoadFile(p string) (*NetworkDefinition, error) {
	cl, err := config.NewLoaderFromFile(p, New, l.validator, config.WithColor(l.colored))
	if err != nil {
		return nil, fmt.Errorf("read network definition %s: %w", p, err)
	}

	err = cl.Validate()
	if errors.Is(err, config.ErrEmpty) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	def, err := cl.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	def.Source = p

	return def, nil
}

// splitPattern splits a cleaned pattern into its static directory prefix and
// the remainder containing glob syntax.
func splitPattern(pattern string) (string, string) {
	if !strings.ContainsAny(pattern, globMeta) {
		return path.Dir(pattern), path.Base(pattern)
	}

	segments := strings.Split(pattern, "/")

	i := 0
	for i < len(segments)-1 && !strings.ContainsAny(segments[i], globMeta) {
		i++
	}

	root := strings.Join(segments[:i], "/")

	switch {
	case root == "" && strings.HasPrefix(pattern, "/"):
		root = "/"
	case root == "":
		root = "."
	}

	return root, strings.Join(segments[i:], "/")
}

func depth(root, p string) int {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return 0
	}

	return strings.Count(filepath.ToSlash(rel), "/") + 1
}
