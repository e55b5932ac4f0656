package evidence

import (
	"fmt"
	"strings"
)

// Class groups annotation tools by the kind of evidence they produce.
type Class int

const (
	// Spectral covers spectral library matching, regular and analogue mode.
	Spectral Class = iota
	// Dereplication covers the dereplication tools.
	Dereplication
	// InSilico covers in-silico structure prediction.
	InSilico
)

// Classes lists every class in summary order.
var Classes = []Class{Spectral, Dereplication, InSilico}

func (c Class) String() string {
	switch c {
	case Spectral:
		return "spectral"
	case Dereplication:
		return "dereplication"
	case InSilico:
		return "insilico"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// ParseClass resolves a class name as written in configuration.
func ParseClass(name string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "spectral", "library":
		return Spectral, nil
	case "dereplication", "derep":
		return Dereplication, nil
	case "insilico", "in-silico", "in_silico":
		return InSilico, nil
	default:
		return 0, fmt.Errorf("unknown tool class %q", name)
	}
}

// Tool is one annotation method with its identifier column in the feature table.
type Tool struct {
	Name   string
	Label  string
	Column string
	Class  Class
}

// DefaultTools returns the five annotation tools in catalogue order.
func DefaultTools() []Tool {
	return []Tool{
		{Name: "gnps", Label: "GNPS library match", Column: "gnps_inchikey", Class: Spectral},
		{Name: "analog", Label: "GNPS analogue match", Column: "analog_inchikey", Class: Spectral},
		{Name: "derep", Label: "Dereplicator", Column: "derep_inchikey", Class: Dereplication},
		{Name: "derepplus", Label: "Dereplicator+", Column: "derepplus_inchikey", Class: Dereplication},
		{Name: "insilico", Label: "In-silico prediction", Column: "insilico_inchikey", Class: InSilico},
	}
}
