package collector

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardanlabs/sdl2-ffi/parser"
)

const root = "/usr/include/SDL2"

func parse(t *testing.T, src string) *parser.File {
	t.Helper()
	f, err := parser.Parse(src)
	require.NoError(t, err)
	return f
}

func TestVisit(t *testing.T) {
	src := `# 1 "/usr/include/stdio.h"
typedef struct _IO_FILE FILE;
extern int printf(const char *fmt, ...);
# 1 "/usr/include/SDL2/SDL_stdinc.h"
typedef unsigned char Uint8;
typedef int SDL_dummy_uint8[(sizeof(Uint8) == 1) * 2 - 1];
typedef enum { SDL_FALSE = 0, SDL_TRUE = 1 } SDL_bool;
enum SDL_Flags { SDL_A = 1 << 0, SDL_B };
struct SDL_Renderer;
struct SDL_Rect { int x; int y; } *unused;
extern int SDL_vsnprintf(char *text, size_t maxlen, const char *fmt, va_list ap);
extern char *SDL_strdup(const char *str);
static inline Uint8 SDL_Swap8(Uint8 x) { return x; }
extern void (*SDL_callback)(int);
# 1 "/usr/include/SDL2_extra/other.h"
typedef int OtherType;
`

	c := New(Options{IncludeRoot: root})
	c.Visit(parse(t, src))
	got := c.Result()

	want := Result{
		Types: []string{
			"typedef unsigned char Uint8;",
			"typedef int SDL_dummy_uint8[...];",
			"typedef enum { SDL_FALSE = ..., SDL_TRUE = ... } SDL_bool;",
			"enum SDL_Flags { SDL_A = ..., SDL_B = ... };",
			"struct SDL_Renderer;",
			"struct SDL_Rect { int x; int y; };",
		},
		Functions: []string{
			"int SDL_vsnprintf(char *text, size_t maxlen, const char *fmt, ...);",
			"char *SDL_strdup(const char *str);",
			"Uint8 SDL_Swap8(Uint8 x);",
		},
		Macros: []Macro{},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Result() mismatch (-want +got):\n%s", diff)
	}
}

func TestVisitDropsDeclarationsWithoutCoordinate(t *testing.T) {
	c := New(Options{IncludeRoot: root})
	c.Visit(parse(t, "typedef int NoFile;"))

	assert.Empty(t, c.Result().Types)
}

func TestVisitIsIdempotent(t *testing.T) {
	src := `# 1 "/usr/include/SDL2/SDL_video.h"
typedef struct SDL_Window SDL_Window;
extern SDL_Window *SDL_CreateWindow(const char *title, int x, int y, int w, int h, Uint32 flags);
# 1 "/usr/include/SDL2/SDL_render.h"
typedef struct SDL_Window SDL_Window;
`
	f := parse(t, src)

	once := New(Options{IncludeRoot: root})
	once.Visit(f)

	twice := New(Options{IncludeRoot: root})
	twice.Visit(f)
	twice.Visit(f)

	assert.Equal(t, once.Result(), twice.Result())
	assert.Equal(t, []string{"typedef struct SDL_Window SDL_Window;"}, twice.Result().Types)
}

func TestVisitExclusions(t *testing.T) {
	src := `# 1 "/usr/include/SDL2/SDL_main.h"
extern int SDL_main(int argc, char *argv[]);
extern void SDL_SetMainReady(void);
typedef struct fd_set { int bits; } fd_set;
typedef int SDL_Keep;
`
	c := New(Options{
		IncludeRoot: root,
		Functions:   []string{"SDL_main"},
		Typedefs:    []string{"fd_set"},
	})
	c.Visit(parse(t, src))
	got := c.Result()

	assert.Equal(t, []string{"void SDL_SetMainReady(void);"}, got.Functions)
	assert.Equal(t, []string{"typedef int SDL_Keep;"}, got.Types)
}

func TestVisitScopeIsPathPrefix(t *testing.T) {
	src := `# 1 "/usr/include/SDL2_mixer/SDL_mixer.h"
typedef int Mix_Fading;
# 1 "/opt/usr/include/SDL2/SDL.h"
typedef int Elsewhere;
# 1 "/usr/include/SDL2/../SDL2/SDL_error.h"
typedef int Inside;
`
	c := New(Options{IncludeRoot: root})
	c.Visit(parse(t, src))

	assert.Equal(t, []string{"typedef int Inside;"}, c.Result().Types)
}

func TestSanitizeDoesNotMutate(t *testing.T) {
	f := parse(t, `# 1 "/usr/include/SDL2/SDL_events.h"
typedef struct { enum { KIND_A = 4 } kind; } SDL_Tagged;
`)

	c := New(Options{IncludeRoot: root})
	c.Visit(f)

	assert.Equal(t, []string{"typedef struct { enum { KIND_A = ... } kind; } SDL_Tagged;"}, c.Result().Types)
	assert.Equal(t, "typedef struct { enum { KIND_A = 4 } kind; } SDL_Tagged", parser.Render(f.Decls[0]))
}

func TestEndToEnd(t *testing.T) {
	src := `# 1 "/usr/include/SDL2/foo.h"
typedef struct Foo { int x; } Foo;
# 1 "/usr/include/SDL2/use.h"
void use_foo(Foo f, ...);
`
	c := New(Options{IncludeRoot: root})
	c.Visit(parse(t, src))
	c.ScanMacros("foo.h", "typedef struct Foo { int x; } Foo;\n#define FOO_COUNT 4\n")
	c.ScanMacros("use.h", "void use_foo(Foo f, ...);\n")

	want := Result{
		Macros:    []Macro{{Name: "FOO_COUNT", Value: "4", Header: "foo.h"}},
		Types:     []string{"typedef struct Foo { int x; } Foo;"},
		Functions: []string{"void use_foo(Foo f, ...);"},
	}

	if diff := cmp.Diff(want, c.Result()); diff != "" {
		t.Errorf("Result() mismatch (-want +got):\n%s", diff)
	}
}
