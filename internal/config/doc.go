// Package config loads gadgetfetch settings.
//
// # Overview
//
// Settings start from built-in defaults that describe the iOS universal
// gadget on the project's GitHub releases. An optional Lua file may override
// them by assigning a global table:
//
//	gadget = {
//	    name     = "frida-gadget",
//	    platform = platform.is_macos and "macos-universal" or "ios-universal",
//	    ext      = "dylib",
//	    url      = "https://mirror.example/{version}/{name}-{version}-{platform}.{ext}.xz",
//	    timeout  = 120,
//	}
//
// # Sandbox
//
// The file runs in a gopher-lua VM with the os, io, debug and module loading
// facilities removed. A read-only platform table describing the host is
// injected before the file runs.
//
// # URL placeholders
//
// The url template accepts {version}, {name}, {platform}, {ext}, {os} and
// {arch}. {version} is mandatory.
package config
