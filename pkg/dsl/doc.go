/*
Package dsl provides a fluent Go builder for Turing machine definitions.

It is the programmatic alternative to YAML/JSON definition files: rules are
declared per state, symbols and states are plain strings, and Build checks the
result with the same table construction the engine uses, so duplicate rules
are reported before anything runs.

Example usage:

	b := dsl.New("flip").Blank("_").Start("scan").Final("done")

	b.State("scan").
		On("0").Write("1").Right().Go("scan").
		On("1").Write("0").Right().Go("scan").
		On("_").Stay().Go("done")

	def, err := b.Build()
	if err != nil {
		return err
	}
	// ... pass def to turing.New(def)

Anonymous helper states can be named with Fresh, which hands out identifiers
unique within the builder:

	tmp := b.Fresh("carry") // "carry0", then "carry1", ...
*/
package dsl
