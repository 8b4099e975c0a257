// Package config defines the generation configuration: which library to
// bind, how to find and preprocess its headers, what to leave out, and which
// OpenGL surfaces to describe.
//
// A Config is built once per run, either from Default or from an HCL file,
// and is then passed by value to every phase. Nothing in this module keeps
// configuration in package-level variables.
package config

import (
	"errors"
	"fmt"
	"regexp"
)

// Config is the complete description of one generation run.
type Config struct {
	// Module is the basename of the emitted artifacts.
	Module string

	Library      Library
	Preprocessor Preprocessor
	Exclude      Exclude
	GL           GL
}

// Library describes the native library and its header set.
type Library struct {
	Name string

	// ConfigTool is the install-config helper queried on platforms that
	// ship one, e.g. sdl2-config.
	ConfigTool string

	// SDKEnv names the environment variable holding the SDK root on
	// platforms without the helper tool.
	SDKEnv string

	// IncludePattern isolates the include root from the helper's --cflags
	// output. The second capture group is the include root.
	IncludePattern string

	// Umbrellas are preprocessed and parsed in order.
	Umbrellas []string

	// Headers are scanned for #define lines in order. Dependencies must
	// come before their dependents.
	Headers []string

	// Companions are additional libraries linked next to the main one.
	Companions []string
}

// Preprocessor configures the C preprocessor invocation.
type Preprocessor struct {
	Executable string

	// RootEnv names the environment variable pointing at a toolchain root
	// on platforms without a native preprocessor; DefaultRoot is used when
	// it is unset.
	RootEnv     string
	DefaultRoot string

	Defines   []string
	Undefines []string
}

// Exclude lists identifiers that are never emitted.
type Exclude struct {
	Functions []string
	Typedefs  []string
	Defines   []string
}

// GL configures the OpenGL registry pipeline.
type GL struct {
	// Registry is the path of gl.xml. The pipeline runs only when it is
	// set here or on the command line.
	Registry string
	Module   string
	Package  string
	Targets  []Target
}

// Target selects one API surface, e.g. gl 3.3 core.
type Target struct {
	API     string
	Version string
	Profile string
}

func (t Target) String() string {
	return fmt.Sprintf("%s %s %s", t.API, t.Version, t.Profile)
}

var versionRe = regexp.MustCompile(`^\d+\.\d+$`)

// Validate reports the first problem that would make a run meaningless.
func (c Config) Validate() error {
	if c.Module == "" {
		return errors.New("module is a required configuration field and cannot be empty")
	}
	if c.Library.Name == "" {
		return errors.New("library name is required")
	}
	if len(c.Library.Umbrellas) == 0 {
		return errors.New("library needs at least one umbrella header")
	}
	if len(c.Library.Headers) == 0 {
		return errors.New("library needs a non-empty header set")
	}

	re, err := regexp.Compile(c.Library.IncludePattern)
	if err != nil {
		return fmt.Errorf("invalid include pattern: %w", err)
	}
	if re.NumSubexp() < 2 {
		return fmt.Errorf("include pattern %q needs two capture groups", c.Library.IncludePattern)
	}

	if c.GL.Module == c.Module {
		return fmt.Errorf("gl module %q must differ from the library module", c.GL.Module)
	}

	seen := make(map[Target]struct{}, len(c.GL.Targets))
	for _, t := range c.GL.Targets {
		if _, ok := seen[t]; ok {
			return fmt.Errorf("gl target %q is listed twice", t)
		}
		seen[t] = struct{}{}

		if t.API == "" {
			return fmt.Errorf("gl target %q has no api", t)
		}
		if !versionRe.MatchString(t.Version) {
			return fmt.Errorf("gl target %q: version must look like 3.3", t)
		}
		switch t.Profile {
		case "core", "compatibility":
		default:
			return fmt.Errorf("gl target %q: profile must be core or compatibility", t)
		}
	}

	return nil
}
