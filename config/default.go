package config

// Default returns the configuration for binding SDL2.
func Default() Config {
	return Config{
		Module: "_sdl2",
		Library: Library{
			Name:           "SDL2",
			ConfigTool:     "sdl2-config",
			SDKEnv:         "SDL2_DEVEL_PATH",
			IncludePattern: `(-I)?(.*SDL2)`,
			Umbrellas:      []string{"SDL.h"},
			Headers:        defaultHeaders(),
		},
		Preprocessor: Preprocessor{
			Executable:  "cpp",
			RootEnv:     "MINGW_PATH",
			DefaultRoot: `C:\MinGW`,
			Defines:     defaultDefines(),
			Undefines:   []string{"__GNUC__", "i386", "__i386__", "__MINGW32__"},
		},
		Exclude: Exclude{
			Functions: []string{"SDL_main"},
			Typedefs:  []string{"fd_set"},
			Defines: []string{
				"SDL_ANDROID_EXTERNAL_STORAGE_READ",
				"SDL_ANDROID_EXTERNAL_STORAGE_WRITE",
				"M_PI",
				"main",
				"SDL_main",
				"SDL_AUDIOCVT_PACKED",
			},
		},
		GL: GL{
			Module:  "_gl",
			Package: "gl",
			Targets: []Target{
				{API: "gl", Version: "2.1", Profile: "compatibility"},
				{API: "gl", Version: "3.3", Profile: "core"},
				{API: "gles2", Version: "2.0", Profile: "compatibility"},
			},
		},
	}
}

func defaultHeaders() []string {
	return []string{
		"SDL_main.h",
		"SDL_stdinc.h",
		"SDL_atomic.h",
		"SDL_audio.h",
		"SDL_clipboard.h",
		"SDL_cpuinfo.h",
		"SDL_endian.h",
		"SDL_error.h",
		"SDL_scancode.h",
		"SDL_keycode.h",
		"SDL_keyboard.h",
		"SDL_joystick.h",
		"SDL_touch.h",
		"SDL_gesture.h",
		"SDL_events.h",
		"SDL_filesystem.h",
		"SDL_gamecontroller.h",
		"SDL_haptic.h",
		"SDL_hints.h",
		"SDL_loadso.h",
		"SDL_log.h",
		"SDL_messagebox.h",
		"SDL_mutex.h",
		"SDL_power.h",
		"SDL_render.h",
		"SDL_rwops.h",
		"SDL_system.h",
		"SDL_thread.h",
		"SDL_timer.h",
		"SDL_version.h",
		"SDL_video.h",
		"SDL.h",
	}
}

// defaultDefines erases compiler extensions the declaration parser has no
// grammar for.
func defaultDefines() []string {
	return []string{
		"__attribute__(x)=",
		"__inline=",
		"__restrict=",
		"__extension__=",
		"__GNUC_VA_LIST=",
		"__gnuc_va_list=void*",
		"__inline__=",
		"__forceinline=",
		"__volatile__=",
		"__MINGW_NOTHROW=",
		"__nothrow__=",
		"CRTIMP=",
		"SDL_FORCE_INLINE=",
		"DOXYGEN_SHOULD_IGNORE_THIS=",
		"_PROCESS_H_=",
	}
}
