package manifest

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// schemaSource constrains a decoded tpc.toml. Field names follow the json
// tags on Manifest, which match the TOML keys.
const schemaSource = `
#Manifest: {
	vm: {
		"stack-capacity": int & >0 & <=1048576
		"max-steps":      int & >=0
		trace:            bool
	}
	repl: {
		prompt:  string
		history: bool
	}
	history: {
		path: string
	}
	log: {
		verbosity: int & >=-1 & <=10
		file:      string
	}
}
`

// schema is the compiled #Manifest definition.
var schema cue.Value

func init() {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaSource)
	if err := v.Err(); err != nil {
		panic(fmt.Sprintf("manifest: invalid schema: %v", err))
	}
	schema = v.LookupPath(cue.ParsePath("#Manifest"))
}

// Validate checks m against the configuration schema.
func (m *Manifest) Validate() error {
	v := schema.Context().Encode(m)
	if err := v.Err(); err != nil {
		return err
	}
	return schema.Unify(v).Validate(cue.Concrete(true))
}
