package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyValue(t *testing.T) {
	tests := []struct {
		value string
		want  ValueKind
	}{
		{"0", IntLiteral},
		{"42", IntLiteral},
		{"0x1F", IntLiteral},
		{"0XfF", IntLiteral},
		{"0b101", IntLiteral},
		{"017", IntLiteral},
		{"019", NotLiteral},
		{"0x", NotLiteral},
		{"1u", NotLiteral},
		{"0x00000001u", NotLiteral},
		{"1_000", NotLiteral},
		{"1.5", NotLiteral},
		{"SDL_INIT_TIMER", NotLiteral},
		{"1<<2", NotLiteral},
		{"", NotLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyValue(tt.value))
		})
	}
}

func TestScanMacros(t *testing.T) {
	text := `#ifndef SDL_h_
#define SDL_h_
#define SDL_INIT_TIMER 0x00000001u
#define SDL_INIT_AUDIO      0x00000010
#define SDL_WINDOWPOS_UNDEFINED (SDL_WINDOWPOS_UNDEFINED_MASK|0)
#define SDL_BUTTON(X) (1 << ((X)-1))
#define SDL_MAX_SINT8 ((Sint8)0x7F)
#define M_PI 3.14159265358979323846264338327950288
#define SDL_INIT_AUDIO 0x20
  #define INDENTED 1
#endif
`
	c := New(Options{IncludeRoot: root, Defines: []string{"M_PI"}})
	c.ScanMacros("SDL.h", text)

	var got []string
	for _, m := range c.Result().Macros {
		got = append(got, m.String())
	}

	assert.Equal(t, []string{
		"#define SDL_INIT_TIMER ...",
		"#define SDL_INIT_AUDIO 0x00000010",
		"#define SDL_WINDOWPOS_UNDEFINED ...",
	}, got)
}

func TestMacroPrecedence(t *testing.T) {
	c := New(Options{IncludeRoot: root})

	// Macros scanned before the declarations are collected still lose.
	c.ScanMacros("SDL_stdinc.h", `#define SDL_bool int
#define SDL_TRUE 1
#define SDL_Init 3
#define Foo_tag 7
#define SDL_KEEP 5
`)

	c.Visit(parse(t, `# 1 "/usr/include/SDL2/SDL_stdinc.h"
typedef enum { SDL_FALSE, SDL_TRUE } SDL_bool;
struct Foo_tag { int a; };
extern int SDL_Init(Uint32 flags);
`))

	got := c.Result().Macros
	assert.Equal(t, []Macro{{Name: "SDL_KEEP", Value: "5", Header: "SDL_stdinc.h"}}, got)
}
