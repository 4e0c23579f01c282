package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func eval(t *testing.T, L *lua.LState, code string) lua.LValue {
	t.Helper()
	require.NoError(t, L.DoString(code))
	v := L.Get(-1)
	L.Pop(1)
	return v
}

func TestInjectPlatformTable_Linux(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	info := &Info{OS: "linux", Arch: "amd64", ArchRaw: "amd64", Platform: "ubuntu", Family: FamilyDebian, Version: "22.04"}
	require.NoError(t, InjectPlatformTable(L, info))

	tests := []struct {
		code string
		want lua.LValue
	}{
		{`return platform.os`, lua.LString("linux")},
		{`return platform.arch`, lua.LString("amd64")},
		{`return platform.is_linux`, lua.LTrue},
		{`return platform.is_macos`, lua.LFalse},
		{`return platform.is_arm64`, lua.LFalse},
		{`return platform.distro.id`, lua.LString("ubuntu")},
		{`return platform.distro.family`, lua.LString("debian")},
		{`return platform.when(platform.is_linux, "so")`, lua.LString("so")},
		{`return platform.when(platform.is_macos, "dylib")`, lua.LNil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, eval(t, L, tt.code), tt.code)
	}
}

func TestInjectPlatformTable_DarwinHasNoDistro(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	require.NoError(t, InjectPlatformTable(L, &Info{OS: "darwin", Arch: "arm64", ArchRaw: "arm64"}))

	assert.Equal(t, lua.LNil, eval(t, L, `return platform.distro`))
	assert.Equal(t, lua.LTrue, eval(t, L, `return platform.is_macos`))
}

func TestInjectPlatformTable_ReadOnly(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	require.NoError(t, InjectPlatformTable(L, &Info{OS: "linux", Arch: "amd64"}))

	err := L.DoString(`platform.os = "plan9"`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")

	err = L.DoString(`setmetatable(platform, {})`)
	assert.Error(t, err)
}
