package database

import (
	"github.com/kernel-tuning/tunedb/pkg/header"
)

// Database is the outcome of one resolution: the parameters selected for
// a kernel on a device, and where they came from. The parameter set is a
// private copy; nothing in it aliases the source tables.
type Database struct {
	// Target is the lookup key after vendor normalization.
	Target Target

	// Identity is the device as reported by the platform.
	Identity Identity

	// Source names the knowledge base that answered.
	Source string

	params *Parameters
}

// Defines returns the parameters as "#define NAME VALUE" lines in order,
// ready to be prepended to kernel source.
func (d *Database) Defines() string {
	return d.params.Defines()
}

// ParameterNames returns the parameter names in order.
func (d *Database) ParameterNames() []string {
	return d.params.Names()
}

// Get returns one parameter value.
func (d *Database) Get(name string) (int, bool) {
	return d.params.Get(name)
}

// Parameters returns a copy of the resolved parameter set.
func (d *Database) Parameters() *Parameters {
	return d.params.Clone()
}

func (d *Database) clone() *Database {
	c := *d
	c.params = d.params.Clone()
	return &c
}

// Result is the serializable form of a Database.
type Result struct {
	header.Header `json:",inline" yaml:",inline"`

	Request    Target      `json:"request" yaml:"request"`
	Device     Identity    `json:"device" yaml:"device"`
	Source     string      `json:"source" yaml:"source"`
	Parameters *Parameters `json:"parameters" yaml:"parameters"`
}

// Result returns the serializable form, stamped with the generator version.
func (d *Database) Result(version string) *Result {
	r := &Result{
		Request:    d.Target,
		Device:     d.Identity,
		Source:     d.Source,
		Parameters: d.Parameters(),
	}
	r.Init(header.KindTuningParameters, version)
	return r
}
