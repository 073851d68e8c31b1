package exprc

import "fmt"

// Config is a typed map of compiler switches (§6). It is the same
// tagged-union-of-scalars shape the surrounding compiler's grammar
// loader and declaration parser already use, so a single Config value
// can be threaded through every collaborator without a bespoke struct
// per subsystem.
type Config map[string]*cfgVal

// Standards recognised by the "compiler.standard" setting.
const (
	StdC89  = "c89"
	StdC99  = "c99"
	StdCC65 = "cc65"
)

// NewConfig creates a new configuration object primed with the
// defaults spec §6 lists: selected standard, auto-cdecl vs
// auto-fastcall, code-size-over-speed factor, warning switches,
// preprocessing mode, and debug mode.
func NewConfig() *Config {
	m := make(Config)
	m.SetString("compiler.standard", StdC99)
	m.SetBool("compiler.auto_cdecl", true)
	m.SetInt("compiler.code_size_factor", 100)
	m.SetBool("compiler.warn_const_comparison", true)
	m.SetBool("compiler.warn_no_effect", true)
	m.SetBool("compiler.warn_overflow", true)
	m.SetBool("compiler.preprocessing", false)
	m.SetBool("compiler.debug", false)
	return &m
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined: "undefined",
		cfgValType_Bool:      "bool",
		cfgValType_Int:       "int",
		cfgValType_String:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

// assignType guards against reassigning a setting with a different
// type than it was declared with; this is a programming error, not a
// user error, since the set of config keys is closed and compiled in.
func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValType_Undefined {
		panic(fmt.Sprintf("can't assign `%s` to type `%s`", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("can't retrieve `%s` from `%s` setting", vt, v.typ))
	}
}

func (c *Config) SetBool(path string, v bool) {
	if (*c)[path] == nil {
		(*c)[path] = &cfgVal{}
	}
	(*c)[path].assignType(cfgValType_Bool)
	(*c)[path].asBool = v
}

func (c *Config) SetInt(path string, v int) {
	if (*c)[path] == nil {
		(*c)[path] = &cfgVal{}
	}
	(*c)[path].assignType(cfgValType_Int)
	(*c)[path].asInt = v
}

func (c *Config) SetString(path string, v string) {
	if (*c)[path] == nil {
		(*c)[path] = &cfgVal{}
	}
	(*c)[path].assignType(cfgValType_String)
	(*c)[path].asString = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Bool)
		return val.asBool
	}
	panic(fmt.Sprintf("bool setting `%s` does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Int)
		return val.asInt
	}
	panic(fmt.Sprintf("int setting `%s` does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_String)
		return val.asString
	}
	panic(fmt.Sprintf("string setting `%s` does not exist", path))
}
