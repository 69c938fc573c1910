package loader

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Editor struct {
		TabWidth int  `toml:"tab_width" yaml:"tab_width"`
		SoftWrap bool `toml:"soft_wrap" yaml:"soft_wrap"`
	} `toml:"editor" yaml:"editor"`
	Name string `toml:"name" yaml:"name"`
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"vnav.toml", FormatTOML},
		{"/etc/vnav/config.TOML", FormatTOML},
		{"vnav.yaml", FormatYAML},
		{"vnav.yml", FormatYAML},
		{"vnav.json", FormatUnknown},
		{"vnav", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatOf(tt.path))
		})
	}
}

func TestDecodeFile_TOML(t *testing.T) {
	fsys := fstest.MapFS{
		"vnav.toml": {Data: []byte("[editor]\ntab_width = 8\nsoft_wrap = true\n")},
	}

	var s sample
	s.Name = "kept"
	found, err := DecodeFile(fsys, "vnav.toml", &s)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 8, s.Editor.TabWidth)
	assert.True(t, s.Editor.SoftWrap)
	assert.Equal(t, "kept", s.Name, "absent keys keep their value")
}

func TestDecodeFile_YAML(t *testing.T) {
	fsys := fstest.MapFS{
		"vnav.yml": {Data: []byte("editor:\n  tab_width: 2\nname: yaml\n")},
	}

	var s sample
	found, err := DecodeFile(fsys, "vnav.yml", &s)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, s.Editor.TabWidth)
	assert.Equal(t, "yaml", s.Name)
}

func TestDecodeFile_EmptyYAML(t *testing.T) {
	fsys := fstest.MapFS{"vnav.yaml": {Data: nil}}

	var s sample
	found, err := DecodeFile(fsys, "vnav.yaml", &s)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestDecodeFile_Missing(t *testing.T) {
	var s sample
	found, err := DecodeFile(fstest.MapFS{}, "vnav.toml", &s)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDecodeFile_UnsupportedFormat(t *testing.T) {
	var s sample
	_, err := DecodeFile(fstest.MapFS{}, "vnav.json", &s)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeFile_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
		line int
	}{
		{"toml syntax", "bad.toml", "[editor]\ntab_width = = 3\n", 2},
		{"toml unknown key", "bad.toml", "[editor]\ntab_widht = 3\n", 2},
		{"yaml syntax", "bad.yaml", "editor:\n  tab_width: [1\n", 0},
		{"yaml unknown key", "bad.yaml", "editor:\n  tab_widht: 3\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{tt.path: {Data: []byte(tt.data)}}

			var s sample
			_, err := DecodeFile(fsys, tt.path, &s)
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.path, perr.Path)
			if tt.line > 0 {
				assert.Equal(t, tt.line, perr.Line)
			}
			assert.Contains(t, perr.Error(), tt.path)
		})
	}
}

func TestParseError_Format(t *testing.T) {
	assert.Equal(t, "parse error in a.toml at line 2, column 3: bad",
		(&ParseError{Path: "a.toml", Line: 2, Column: 3, Message: "bad"}).Error())
	assert.Equal(t, "parse error in a.toml at line 2: bad",
		(&ParseError{Path: "a.toml", Line: 2, Message: "bad"}).Error())
	assert.Equal(t, "parse error in a.toml: bad",
		(&ParseError{Path: "a.toml", Message: "bad"}).Error())

	inner := errors.New("inner")
	assert.ErrorIs(t, &ParseError{Err: inner}, inner)
}
