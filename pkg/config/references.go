package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yumyai/loopswap/pkg/loop"
	"github.com/yumyai/loopswap/pkg/triad"
	"gopkg.in/yaml.v3"
)

var ErrUnknownReference = errors.New("unknown reference")

//go:embed references.yaml
var builtinReferences []byte

type referencesFile struct {
	References map[string]referenceEntry `yaml:"references"`
}

type referenceEntry struct {
	Triad *triad.Spec `yaml:"triad"`
	Loops []loopEntry `yaml:"loops"`
}

type loopEntry struct {
	Name  string `yaml:"name"`
	Start int    `yaml:"start"`
	End   int    `yaml:"end"`
}

// Reference is a named loop table with its optional catalytic triad.
type Reference struct {
	Name     string
	Loops    loop.Table
	Triad    triad.Spec
	HasTriad bool
}

// References maps upper-cased reference names to their definitions.
type References map[string]Reference

// LoadReferences reads a references YAML file, or the built-in TEV and HtrA1 tables when
// path is empty.
func LoadReferences(path string) (References, error) {
	if path == "" {
		return ParseReferences(builtinReferences)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading references: %w", err)
	}
	return ParseReferences(data)
}

func ParseReferences(data []byte) (References, error) {
	var f referencesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing references: %w", err)
	}
	refs := make(References, len(f.References))
	for name, entry := range f.References {
		defs := make([]loop.Definition, 0, len(entry.Loops))
		for _, l := range entry.Loops {
			d, err := definition(l)
			if err != nil {
				return nil, fmt.Errorf("reference %s: %w", name, err)
			}
			defs = append(defs, d)
		}
		table, err := loop.NewTable(defs)
		if err != nil {
			return nil, fmt.Errorf("reference %s: %w", name, err)
		}
		ref := Reference{Name: strings.ToUpper(name), Loops: table}
		if entry.Triad != nil {
			ref.Triad, ref.HasTriad = *entry.Triad, true
		}
		refs[ref.Name] = ref
	}
	return refs, nil
}

func definition(l loopEntry) (loop.Definition, error) {
	switch l.Name {
	case "N":
		return loop.NTerm(l.Start, l.End), nil
	case "C":
		return loop.CTerm(l.Start, l.End), nil
	}
	n, err := strconv.Atoi(l.Name)
	if err != nil {
		return loop.Definition{}, fmt.Errorf("%w: loop name %q is not N, C or a number", loop.ErrInvalidLoopTable, l.Name)
	}
	return loop.Numbered(n, l.Start, l.End), nil
}

// Get looks a reference up by name, case-insensitively.
func (r References) Get(name string) (Reference, error) {
	ref, ok := r[strings.ToUpper(name)]
	if !ok {
		return Reference{}, fmt.Errorf("%w: %s (have %s)", ErrUnknownReference, name, strings.Join(r.Names(), ", "))
	}
	return ref, nil
}

func (r References) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
