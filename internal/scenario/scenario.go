package scenario

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/sectionlist/internal/engine/diff"
	"github.com/dshills/sectionlist/internal/engine/flatten"
	"github.com/dshills/sectionlist/internal/engine/list"
)

// Errors returned by scenario loading and application.
var (
	ErrUnknownOp      = errors.New("unknown operation kind")
	ErrUnknownLayout  = errors.New("unknown layout")
	ErrUnbalancedOp   = errors.New("unbalanced begin/commit")
	ErrMissingSection = errors.New("scenario has no sections")
)

// Operation kinds accepted in scenario files.
const (
	OpInsert        = "insert"
	OpRemove        = "remove"
	OpReplace       = "replace"
	OpMove          = "move"
	OpInsertSection = "insert-section"
	OpRemoveSection = "remove-section"
	OpBegin         = "begin"
	OpCommit        = "commit"
)

// Section describes one section's initial contents.
type Section struct {
	Label string   `toml:"label"`
	Rows  []string `toml:"rows"`
}

// Op is one scripted operation.
type Op struct {
	Kind      string `toml:"kind"`
	Section   int    `toml:"section"`
	Row       int    `toml:"row"`
	ToSection int    `toml:"to_section"`
	ToRow     int    `toml:"to_row"`
	Value     string `toml:"value"`
	Label     string `toml:"label"`
}

// Scenario is a parsed scenario file.
type Scenario struct {
	Title    string    `toml:"title"`
	Layout   string    `toml:"layout"`
	Sections []Section `toml:"section"`
	Ops      []Op      `toml:"op"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses scenario TOML.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario: parse: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks operation kinds, batch balance, and the layout name.
func (s *Scenario) Validate() error {
	if len(s.Sections) == 0 {
		return ErrMissingSection
	}
	if _, err := s.LayoutVariant(); err != nil {
		return err
	}

	depth := 0
	for i, op := range s.Ops {
		switch op.Kind {
		case OpInsert, OpRemove, OpReplace, OpMove, OpInsertSection, OpRemoveSection:
		case OpBegin:
			depth++
		case OpCommit:
			depth--
			if depth < 0 {
				return fmt.Errorf("scenario: op %d: %w", i, ErrUnbalancedOp)
			}
		default:
			return fmt.Errorf("scenario: op %d: %w: %q", i, ErrUnknownOp, op.Kind)
		}
	}
	if depth != 0 {
		return ErrUnbalancedOp
	}
	return nil
}

// LayoutVariant maps the scenario's layout name to a flatten.Layout. An
// empty name means LayoutPlain.
func (s *Scenario) LayoutVariant() (flatten.Layout, error) {
	switch s.Layout {
	case "", "plain":
		return flatten.LayoutPlain, nil
	case "header":
		return flatten.LayoutHeader, nil
	case "header+footer":
		return flatten.LayoutHeaderFooter, nil
	default:
		return 0, fmt.Errorf("scenario: %w: %q", ErrUnknownLayout, s.Layout)
	}
}

// Seed converts the scenario's sections into list seeds.
func (s *Scenario) Seed() []list.Seed[string] {
	seed := make([]list.Seed[string], 0, len(s.Sections))
	for _, sec := range s.Sections {
		seed = append(seed, list.Seed[string]{Label: sec.Label, Rows: sec.Rows})
	}
	return seed
}

// Build creates a list seeded with the scenario's sections. The scripted
// operations are not applied; use Apply.
func (s *Scenario) Build(opts ...list.Option) *list.List[string] {
	return list.NewSeeded(s.Seed(), opts...)
}

// Apply runs scripted operations against a list. Operations between a
// "begin" and its matching "commit" run inside one batch. Coordinate
// violations propagate as panics, matching the collection's failure model;
// Apply itself only reports script structure problems.
func Apply(l *list.List[string], ops []Op) error {
	i := 0
	for i < len(ops) {
		op := ops[i]
		if op.Kind != OpBegin {
			if err := applyOne(l, op); err != nil {
				return err
			}
			i++
			continue
		}

		end, err := matchCommit(ops, i)
		if err != nil {
			return err
		}
		var inner error
		l.Batch(func() {
			inner = Apply(l, ops[i+1:end])
		})
		if inner != nil {
			return inner
		}
		i = end + 1
	}
	return nil
}

// matchCommit returns the index of the commit matching the begin at start.
func matchCommit(ops []Op, start int) (int, error) {
	depth := 0
	for i := start; i < len(ops); i++ {
		switch ops[i].Kind {
		case OpBegin:
			depth++
		case OpCommit:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, ErrUnbalancedOp
}

func applyOne(l *list.List[string], op Op) error {
	switch op.Kind {
	case OpInsert:
		l.Insert(op.Value, diff.Coordinate{Section: op.Section, Row: op.Row})
	case OpRemove:
		l.Remove(diff.Coordinate{Section: op.Section, Row: op.Row})
	case OpReplace:
		l.Replace(diff.Coordinate{Section: op.Section, Row: op.Row}, op.Value)
	case OpMove:
		l.Move(
			diff.Coordinate{Section: op.Section, Row: op.Row},
			diff.Coordinate{Section: op.ToSection, Row: op.ToRow},
		)
	case OpInsertSection:
		l.InsertSection(op.Section, op.Label)
	case OpRemoveSection:
		l.RemoveSection(op.Section)
	default:
		return fmt.Errorf("scenario: %w: %q", ErrUnknownOp, op.Kind)
	}
	return nil
}
