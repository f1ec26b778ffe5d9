// Package filter narrows a pool snapshot to the rows an operator asked for.
//
// A query is either a CEL boolean expression over record fields, for example
//
//	isActive && score > 10
//	myStake > 0.5 || stakingAddress.startsWith("0xab")
//
// or, when it does not compile to a boolean expression, a case-insensitive
// substring matched against the filterable columns.
package filter

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"

	"poolboard/internal/columns"
	"poolboard/internal/pool"
)

// Mode is how a query is matched.
type Mode int

const (
	ModeAll Mode = iota
	ModeExpression
	ModeSubstring
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeExpression:
		return "expression"
	case ModeSubstring:
		return "substring"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Filter matches records against a query.
type Filter struct {
	query string
	mode  Mode
	prg   cel.Program
	text  string
	cols  []columns.Definition
}

var env = sync.OnceValues(newEnv)

// newEnv declares every record field as a typed variable and the whole
// record as "_".
func newEnv() (*cel.Env, error) {
	opts := []cel.EnvOption{
		cel.Variable("_", cel.MapType(cel.StringType, cel.DynType)),
		cel.CrossTypeNumericComparisons(true),
		celext.Strings(),
		celext.Math(),
	}
	for name, v := range (pool.Record{}).Fields() {
		var t *cel.Type
		switch v.(type) {
		case string:
			t = cel.StringType
		case float64:
			t = cel.DoubleType
		case bool:
			t = cel.BoolType
		case int64:
			t = cel.IntType
		default:
			t = cel.DynType
		}
		opts = append(opts, cel.Variable(name, t))
	}
	e, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return e, nil
}

// Compile parses query. Substring matching uses the filterable definitions
// among cols. An empty query matches everything.
func Compile(query string, cols []columns.Definition) (*Filter, error) {
	f := &Filter{query: query}
	q := strings.TrimSpace(query)
	if q == "" {
		f.mode = ModeAll
		return f, nil
	}

	e, err := env()
	if err != nil {
		return nil, err
	}
	if ast, issues := e.Compile(q); issues == nil || issues.Err() == nil {
		if ast.OutputType().IsExactType(cel.BoolType) {
			prg, err := e.Program(ast)
			if err != nil {
				return nil, fmt.Errorf("program error: %w", err)
			}
			f.mode = ModeExpression
			f.prg = prg
			return f, nil
		}
	}

	f.mode = ModeSubstring
	f.text = strings.ToLower(q)
	for _, d := range cols {
		if d.Filterable {
			f.cols = append(f.cols, d)
		}
	}
	return f, nil
}

// MustCompile is Compile for queries known to be valid.
func MustCompile(query string, cols []columns.Definition) *Filter {
	f, err := Compile(query, cols)
	if err != nil {
		panic(err)
	}
	return f
}

// Query returns the text the filter was compiled from.
func (f *Filter) Query() string {
	return f.query
}

// Mode returns how the filter matches.
func (f *Filter) Mode() Mode {
	return f.mode
}

// Active reports whether the filter excludes anything at all.
func (f *Filter) Active() bool {
	return f != nil && f.mode != ModeAll
}

// Match reports whether rec passes the filter. An expression that fails to
// evaluate for rec does not match.
func (f *Filter) Match(rec pool.Record) bool {
	if f == nil {
		return true
	}
	switch f.mode {
	case ModeExpression:
		vars := rec.Fields()
		act := make(map[string]any, len(vars)+1)
		for k, v := range vars {
			act[k] = v
		}
		act["_"] = vars
		out, _, err := f.prg.Eval(act)
		if err != nil {
			return false
		}
		b, ok := out.(types.Bool)
		return ok && bool(b)
	case ModeSubstring:
		for _, d := range f.cols {
			if strings.Contains(strings.ToLower(d.Cell(rec).Text), f.text) {
				return true
			}
		}
		return false
	}
	return true
}

// Apply returns snap with only the matching records. The sequence number is
// kept so the result still identifies the upstream snapshot.
func (f *Filter) Apply(snap pool.Snapshot) pool.Snapshot {
	if !f.Active() {
		return snap
	}
	out := snap
	out.Records = make([]pool.Record, 0, len(snap.Records))
	for _, r := range snap.Records {
		if f.Match(r) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}
