package gr1

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// A Binding assigns a value to a named variable.
type Binding struct {
	Name  string `json:"name" yaml:"name"`
	Value bool   `json:"value" yaml:"value"`
}

// A State is one explicit strategy state: a concrete valuation of the
// current-state variables, split by controlling player, the index of the
// guarantee the strategy is pursuing from here, and the successor states in
// discovery order.
type State struct {
	ID      int       `json:"id" yaml:"id"`
	Rank    int       `json:"rank" yaml:"rank"`
	Inputs  []Binding `json:"inputs" yaml:"inputs"`
	Outputs []Binding `json:"outputs" yaml:"outputs"`
	Succs   []int     `json:"successors" yaml:"successors"`
}

// A Machine is an explicit Mealy-style strategy.
type Machine struct {
	States []State `json:"states" yaml:"states"`
}

// WriteText emits the stable textual strategy form: one line per state with
// its valuation and rank, followed by one line per outgoing edge. keep, when
// non-nil, selects which states are listed; edges of unlisted states are
// omitted too.
func (m *Machine) WriteText(w io.Writer, keep func(*State) bool) error {
	bw := bufio.NewWriter(w)
	for i := range m.States {
		st := &m.States[i]
		if keep != nil && !keep(st) {
			continue
		}
		fmt.Fprintf(bw, "State %d with rank %d -> <", st.ID, st.Rank)
		sep := ""
		for _, b := range st.Inputs {
			fmt.Fprintf(bw, "%s%s:%s", sep, b.Name, bit(b.Value))
			sep = ", "
		}
		for _, b := range st.Outputs {
			fmt.Fprintf(bw, "%s%s:%s", sep, b.Name, bit(b.Value))
			sep = ", "
		}
		fmt.Fprintf(bw, ">\n")
		for _, s := range st.Succs {
			fmt.Fprintf(bw, "%d -> %d\n", st.ID, s)
		}
	}
	return bw.Flush()
}

func bit(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// WriteJSON emits the machine as indented JSON.
func (m *Machine) WriteJSON(w io.Writer) error {
	d, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	d = append(d, '\n')
	_, err = w.Write(d)
	return err
}

// WriteYAML emits the machine as YAML.
func (m *Machine) WriteYAML(w io.Writer) error {
	d, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}
