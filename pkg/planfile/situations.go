package planfile

import (
	"fmt"
	"io"

	"github.com/huddleup/gameplan/pkg/gameplan"
	"gopkg.in/yaml.v3"
)

// SituationsFile is the local YAML copy of a coach's situations.
type SituationsFile struct {
	Situations []gameplan.Situation `yaml:"situations"`
}

func WriteSituations(w io.Writer, situations []gameplan.Situation) error {
	if situations == nil {
		situations = []gameplan.Situation{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(SituationsFile{Situations: situations}); err != nil {
		return err
	}
	return enc.Close()
}

// ReadSituations parses a situations file. An empty document yields an empty
// list.
func ReadSituations(r io.Reader) ([]gameplan.Situation, error) {
	var f SituationsFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading situations file: %v: %w", err, gameplan.ErrInvalid)
	}
	if f.Situations == nil {
		f.Situations = []gameplan.Situation{}
	}
	return f.Situations, nil
}
