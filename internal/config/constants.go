package config

import "time"

// Lua schema field names and globals
const (
	luaGlobalGadget    = "gadget"
	luaFieldName       = "name"
	luaFieldPlatform   = "platform"
	luaFieldExt        = "ext"
	luaFieldURL        = "url"
	luaFieldUserAgent  = "user_agent"
	luaFieldTimeout    = "timeout"
	luaFieldPackageDir = "package_dir"
)

// Defaults for the iOS universal gadget.
const (
	DefaultName     = "frida-gadget"
	DefaultPlatform = "ios-universal"
	DefaultExt      = "dylib"
	DefaultURL      = "https://github.com/frida/frida/releases/download/{version}/{name}-{version}-{platform}.{ext}.xz"

	// DefaultTimeout of zero leaves the request unbounded.
	DefaultTimeout time.Duration = 0

	// DefaultFile is the config file looked up in the package directory.
	DefaultFile = "gadget.lua"
)

// URL template placeholders.
const (
	PlaceholderVersion  = "{version}"
	PlaceholderName     = "{name}"
	PlaceholderPlatform = "{platform}"
	PlaceholderExt      = "{ext}"
	PlaceholderOS       = "{os}"
	PlaceholderArch     = "{arch}"
)
