package config

import (
	lua "github.com/yuin/gopher-lua"
)

// blockedGlobals are removed from every config VM. They give access to the
// process, the filesystem, or code outside the config file.
var blockedGlobals = []string{
	"os",
	"io",
	"debug",
	"require",
	"module",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"collectgarbage",
}

// newSandboxedVM creates a Lua VM for evaluating a config file.
// string, table and math stay available.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}
