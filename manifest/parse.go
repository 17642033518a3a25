package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// DefaultMaxIncludeDepth is the default bound on -r include nesting. The
// parser does not detect include cycles; the depth bound turns unterminated
// self-inclusion into a parse error instead of unbounded recursion.
const DefaultMaxIncludeDepth = 32

// Manifest directive tokens.
const (
	includeDirective  = "-r"
	editableDirective = "-e"
	eggMarker         = "#egg="
)

const requirementName = `[A-Za-z][A-Za-z0-9_.-]*`

var (
	reqPattern  = regexp.MustCompile(`^(` + requirementName + `)(?:(==|>=)([0-9][0-9.]*))?$`)
	namePattern = regexp.MustCompile(`^` + requirementName + `$`)
)

// Opener opens manifest files referenced by -r include directives. It is
// also used for the top-level files given to [Parser.ParseFiles].
type Opener func(path string) (io.ReadCloser, error)

// Parser reads manifest text into a canonical [Collection].
type Parser struct {
	opener          Opener
	maxIncludeDepth int
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithOpener sets the file-opening capability used to resolve include
// directives. The default opens paths with [os.Open], resolving relative
// paths against the working directory.
func WithOpener(open Opener) ParserOption {
	return func(p *Parser) {
		p.opener = open
	}
}

// WithMaxIncludeDepth sets the bound on include nesting.
func WithMaxIncludeDepth(depth int) ParserOption {
	return func(p *Parser) {
		p.maxIncludeDepth = depth
	}
}

// NewParser creates a manifest parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		opener: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
		maxIncludeDepth: DefaultMaxIncludeDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads one manifest into a fresh collection. The name is used in
// error messages only.
func (p *Parser) Parse(name string, r io.Reader) (*Collection, error) {
	c := NewCollection()
	if err := p.parseInto(c, name, r, 0); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseFile reads the named manifest file into a fresh collection.
func (p *Parser) ParseFile(path string) (*Collection, error) {
	return p.ParseFiles(path)
}

// ParseFiles reads the named manifest files, in order, into one shared
// collection, so requirements repeated across files are merged like
// requirements repeated within a file.
func (p *Parser) ParseFiles(paths ...string) (*Collection, error) {
	c := NewCollection()
	for _, path := range paths {
		f, err := p.opener(path)
		if err != nil {
			return nil, err
		}
		err = p.parseInto(c, path, f, 0)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (p *Parser) parseInto(c *Collection, name string, r io.Reader, depth int) error {
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := p.parseLine(c, name, lineno, line, depth); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParse, name, err)
	}
	return nil
}

// parseLine handles one non-blank line: an include directive, or a single
// requirement optionally prefixed by the editable directive. Tokens after
// the requirement token are ignored.
func (p *Parser) parseLine(c *Collection, name string, lineno int, line string, depth int) error {
	fields := strings.Fields(line)

	if fields[0] == includeDirective {
		if len(fields) < 2 {
			return fmt.Errorf("%w: %s:%d: %s directive needs a path",
				ErrParse, name, lineno, includeDirective)
		}
		return p.include(c, fields[1], depth+1)
	}

	req := &Requirement{}
	if fields[0] == editableDirective {
		req.AddParam(editableDirective)
		fields = fields[1:]
		if len(fields) == 0 {
			return fmt.Errorf("%w: %s:%d: %s directive needs a requirement",
				ErrParse, name, lineno, editableDirective)
		}
	}

	token := fields[0]
	switch {
	case isVCS(token):
		eggName, ok := eggFragment(token)
		if !ok {
			return fmt.Errorf("%w: %s:%d: version-control source %q has no %s<name> fragment",
				ErrParse, name, lineno, token, eggMarker)
		}
		req.Name = eggName
		req.URL = token
	case strings.HasPrefix(token, "http://"), strings.HasPrefix(token, "https://"):
		req.Name = token
		req.URL = token
	default:
		m := reqPattern.FindStringSubmatch(token)
		if m == nil {
			return fmt.Errorf("%w: %s:%d: malformed requirement %q",
				ErrParse, name, lineno, token)
		}
		req.Name = m[1]
		req.URL = m[1]
		req.Op = m[2]
		req.Version = m[3]
	}

	if err := c.Add(req); err != nil {
		return fmt.Errorf("%s:%d: %w", name, lineno, err)
	}
	return nil
}

func (p *Parser) include(c *Collection, path string, depth int) error {
	if depth > p.maxIncludeDepth {
		return fmt.Errorf("%w: %s: include depth exceeds %d (include cycle?)",
			ErrParse, path, p.maxIncludeDepth)
	}
	f, err := p.opener(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	defer f.Close()
	return p.parseInto(c, path, f, depth)
}

// eggFragment extracts the package name from a trailing #egg= fragment.
func eggFragment(token string) (string, bool) {
	i := strings.LastIndex(token, eggMarker)
	if i < 0 {
		return "", false
	}
	eggName := token[i+len(eggMarker):]
	if !namePattern.MatchString(eggName) {
		return "", false
	}
	return eggName, true
}
