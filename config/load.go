package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Vars are the values a configuration file can refer to as goos, goarch
// and env.NAME.
type Vars struct {
	GOOS   string
	GOARCH string
	Env    map[string]string
}

// SystemVars returns the variables of the running process.
func SystemVars() Vars {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return Vars{GOOS: runtime.GOOS, GOARCH: runtime.GOARCH, Env: env}
}

// hclFile represents the top-level structure of a configuration file for
// decoding.
type hclFile struct {
	Module       string           `hcl:"module,optional"`
	Library      *hclLibrary      `hcl:"library,block"`
	Preprocessor *hclPreprocessor `hcl:"preprocessor,block"`
	Exclude      *hclExclude      `hcl:"exclude,block"`
	GL           *hclGL           `hcl:"gl,block"`
}

type hclLibrary struct {
	Name           string   `hcl:"name,label"`
	ConfigTool     string   `hcl:"config_tool,optional"`
	SDKEnv         string   `hcl:"sdk_env,optional"`
	IncludePattern string   `hcl:"include_pattern,optional"`
	Umbrellas      []string `hcl:"umbrella_headers,optional"`
	Headers        []string `hcl:"headers"`
	Companions     []string `hcl:"companion_libraries,optional"`
}

type hclPreprocessor struct {
	Executable  string   `hcl:"executable,optional"`
	RootEnv     string   `hcl:"root_env,optional"`
	DefaultRoot string   `hcl:"default_root,optional"`
	Defines     []string `hcl:"defines,optional"`
	Undefines   []string `hcl:"undefines,optional"`
}

type hclExclude struct {
	Functions []string `hcl:"functions,optional"`
	Typedefs  []string `hcl:"typedefs,optional"`
	Defines   []string `hcl:"defines,optional"`
}

type hclGL struct {
	Registry string       `hcl:"registry,optional"`
	Module   string       `hcl:"module,optional"`
	Package  string       `hcl:"package,optional"`
	Targets  []*hclTarget `hcl:"target,block"`
}

type hclTarget struct {
	API     string `hcl:"api,label"`
	Version string `hcl:"version"`
	Profile string `hcl:"profile,optional"`
}

// Load reads and validates an HCL configuration file.
func Load(path string, vars Vars) (Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}
	return decode(file, path, vars)
}

// Parse decodes configuration source held in memory. filename is only used
// in diagnostics.
func Parse(src []byte, filename string, vars Vars) (Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", filename, diags)
	}
	return decode(file, filename, vars)
}

func decode(file *hcl.File, filename string, vars Vars) (Config, error) {
	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, evalContext(vars), &parsed); diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to decode config file %s: %w", filename, diags)
	}
	if parsed.Library == nil {
		return Config{}, fmt.Errorf("config file %s: a library block is required", filename)
	}

	cfg := parsed.toConfig()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", filename, err)
	}
	return cfg, nil
}

// toConfig lays the decoded file over Default. Absent blocks and empty
// scalar attributes keep their defaults; a present block's lists replace
// the default lists.
func (f *hclFile) toConfig() Config {
	cfg := Default()

	if f.Module != "" {
		cfg.Module = f.Module
	}

	lib := f.Library
	cfg.Library.Name = lib.Name
	cfg.Library.ConfigTool = orDefault(lib.ConfigTool, cfg.Library.ConfigTool)
	cfg.Library.SDKEnv = orDefault(lib.SDKEnv, cfg.Library.SDKEnv)
	cfg.Library.IncludePattern = orDefault(lib.IncludePattern, cfg.Library.IncludePattern)
	if len(lib.Umbrellas) > 0 {
		cfg.Library.Umbrellas = lib.Umbrellas
	}
	cfg.Library.Headers = lib.Headers
	cfg.Library.Companions = lib.Companions

	if pp := f.Preprocessor; pp != nil {
		cfg.Preprocessor = Preprocessor{
			Executable:  orDefault(pp.Executable, cfg.Preprocessor.Executable),
			RootEnv:     orDefault(pp.RootEnv, cfg.Preprocessor.RootEnv),
			DefaultRoot: orDefault(pp.DefaultRoot, cfg.Preprocessor.DefaultRoot),
			Defines:     pp.Defines,
			Undefines:   pp.Undefines,
		}
	}

	if ex := f.Exclude; ex != nil {
		cfg.Exclude = Exclude{
			Functions: ex.Functions,
			Typedefs:  ex.Typedefs,
			Defines:   ex.Defines,
		}
	}

	if gl := f.GL; gl != nil {
		cfg.GL.Registry = orDefault(gl.Registry, cfg.GL.Registry)
		cfg.GL.Module = orDefault(gl.Module, cfg.GL.Module)
		cfg.GL.Package = orDefault(gl.Package, cfg.GL.Package)
		if len(gl.Targets) > 0 {
			cfg.GL.Targets = make([]Target, 0, len(gl.Targets))
			for _, t := range gl.Targets {
				cfg.GL.Targets = append(cfg.GL.Targets, Target{
					API:     t.API,
					Version: t.Version,
					Profile: orDefault(t.Profile, "compatibility"),
				})
			}
		}
	}

	return cfg
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func evalContext(vars Vars) *hcl.EvalContext {
	env := cty.MapValEmpty(cty.String)
	if len(vars.Env) > 0 {
		m := make(map[string]cty.Value, len(vars.Env))
		for k, v := range vars.Env {
			m[k] = cty.StringVal(v)
		}
		env = cty.MapVal(m)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"goos":   cty.StringVal(vars.GOOS),
			"goarch": cty.StringVal(vars.GOARCH),
			"env":    env,
		},
		Functions: map[string]function.Function{
			"concat": stdlib.ConcatFunc,
			"format": stdlib.FormatFunc,
			"lookup": stdlib.LookupFunc,
			"lower":  stdlib.LowerFunc,
			"upper":  stdlib.UpperFunc,
		},
	}
}
