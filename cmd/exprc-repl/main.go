// Command exprc-repl is a line-oriented harness around the exprc
// expression compiler: it reads one C expression per line, parses it
// against a small built-in symbol environment, and prints the
// emitted assembly listing plus any folded constant value.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/BurntSushi/toml"

	exprc "github.com/8bitc/exprc"
)

// fileConfig mirrors the subset of exprc's Config switches an
// .exprc.toml file may override, the same decode-into-a-plain-struct
// shape config.toml uses for the arm-emu debugger's settings file.
// Bool/int switches are pointers so an absent key leaves NewConfig's
// default alone instead of decoding to a zero value that would
// silently disable it.
type fileConfig struct {
	Compiler struct {
		Standard         *string `toml:"standard"`
		AutoCDecl        *bool   `toml:"auto_cdecl"`
		CodeSizeFactor   *int    `toml:"code_size_factor"`
		WarnConstCompare *bool   `toml:"warn_const_comparison"`
		WarnNoEffect     *bool   `toml:"warn_no_effect"`
		WarnOverflow     *bool   `toml:"warn_overflow"`
		Debug            *bool   `toml:"debug"`
	} `toml:"compiler"`
}

func main() {
	var (
		configPath = flag.String("config", "", "Path to an .exprc.toml settings file")
		color      = flag.Bool("color", false, "Highlight the emitted assembly listing")
	)
	flag.Parse()

	cfg := exprc.NewConfig()
	if *configPath != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(*configPath, &fc); err != nil {
			log.Fatalf("can't read config file: %s", err.Error())
		}
		applyFileConfig(cfg, &fc)
	}

	env := builtinEnv()
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprintln(os.Stderr, "exprc-repl: enter one C expression per line, Ctrl-D to quit")
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		runLine(line, cfg, env, *color)
	}
}

// runLine parses one expression line against a fresh Context sharing
// env's declarations, then reports the result: a folded constant
// value, or the assembly listing emitted for a dynamic expression.
func runLine(line string, cfg *exprc.Config, env *exprc.SymbolTable, color bool) {
	toks, err := lex(line)
	if err != nil {
		fmt.Printf("lex error: %s\n", err.Error())
		return
	}

	ctx := exprc.NewContext(newTokens(toks))
	ctx.Symbols = env
	ctx.Config = cfg

	var e exprc.ExprDesc
	runErr := ctx.Run(func() {
		e, err = exprc.Expression0(ctx)
	})

	for _, d := range ctx.Diags {
		fmt.Printf("%s: %s\n", d.Severity, d.Message)
	}
	if runErr != nil {
		fmt.Printf("internal error: %s\n", runErr.Error())
		return
	}
	if err != nil {
		return
	}

	if e.IsConst() {
		fmt.Printf("constant: %d\n", e.IVal)
	}
	if color {
		fmt.Print(ctx.Emit.Prog.HighlightPrettyString())
	} else {
		fmt.Print(ctx.Emit.Prog.PrettyString())
	}
}

// builtinEnv seeds a handful of locals/globals so expressions typed
// at the prompt have something to resolve: an int, an unsigned char,
// an int pointer and a function, covering the arithmetic/pointer/call
// paths without requiring a real declaration parser.
func builtinEnv() *exprc.SymbolTable {
	t := exprc.NewSymbolTable()
	var types exprc.Types
	t.AddLocal("a", types.Int(), 4, exprc.SCAuto)
	t.AddLocal("b", types.Int(), 6, exprc.SCAuto)
	t.AddLocal("c", types.UChar(), 1, exprc.SCAuto)
	t.AddLocal("p", types.Pointer(types.Int()), 8, exprc.SCAuto)
	t.AddGlobal("f", types.Func(types.Int(), []*exprc.Type{types.Int()}, false), true)
	return t
}

func applyFileConfig(cfg *exprc.Config, fc *fileConfig) {
	c := fc.Compiler
	if c.Standard != nil {
		cfg.SetString("compiler.standard", *c.Standard)
	}
	if c.AutoCDecl != nil {
		cfg.SetBool("compiler.auto_cdecl", *c.AutoCDecl)
	}
	if c.CodeSizeFactor != nil {
		cfg.SetInt("compiler.code_size_factor", *c.CodeSizeFactor)
	}
	if c.WarnConstCompare != nil {
		cfg.SetBool("compiler.warn_const_comparison", *c.WarnConstCompare)
	}
	if c.WarnNoEffect != nil {
		cfg.SetBool("compiler.warn_no_effect", *c.WarnNoEffect)
	}
	if c.WarnOverflow != nil {
		cfg.SetBool("compiler.warn_overflow", *c.WarnOverflow)
	}
	if c.Debug != nil {
		cfg.SetBool("compiler.debug", *c.Debug)
	}
}
