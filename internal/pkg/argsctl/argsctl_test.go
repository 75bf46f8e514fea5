package argsctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheGrizzlyDev/argsort/internal/pkg/args"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

const probeDecl = `
positionals: [path, int]
flags:
  - name: target
    abbreviation: t
    kind: socket
  - name: verbose
    abbreviation: v
    kind: bool
`

func writeDecl(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func execute(t *testing.T, argv ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(argv)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "argsctl", cmd.Use)

	for _, name := range []string{"check", "parse"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "check", writeDecl(t, "d.yaml", probeDecl))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCheck_Text(t *testing.T) {
	out, err := execute(t, "check", writeDecl(t, "probe.yaml", probeDecl))
	require.NoError(t, err)
	assert.Contains(t, out, "✔")
	assert.Contains(t, out, "2 positional(s), 2 flag(s)")
	assert.Contains(t, out, "--target/-t <socket>")
	assert.Contains(t, out, "1 <int>")
}

func TestCheck_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "check", writeDecl(t, "probe.yml", probeDecl))
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   CheckResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Flags, 2)
	assert.Equal(t, "target", resp.Data.Flags[0].Name)
	assert.Len(t, resp.Data.Positionals, 2)
}

func TestCheck_DuplicateDeclarations(t *testing.T) {
	path := writeDecl(t, "dup.json", `{"flags":[
		{"name":"port","abbreviation":"p","kind":"int"},
		{"name":"port","kind":"int"},
		{"name":"path","abbreviation":"p","kind":"path"}
	]}`)
	out, err := execute(t, "check", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "[duplicate_flag_name]")
	assert.Contains(t, out, "[duplicate_abbreviation]")
}

func TestCheck_SchemaViolation(t *testing.T) {
	path := writeDecl(t, "bad.json", `{"positionals":["tuple"]}`)
	out, err := execute(t, "--format", "json", "check", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "invalid_declaration", resp.Error.Code)
}

func TestCheck_MissingFile(t *testing.T) {
	_, err := execute(t, "check", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestParse_Text(t *testing.T) {
	decl := writeDecl(t, "probe.yaml", probeDecl)
	out, err := execute(t, "parse", "--decl", decl, "--", "probe", "out.txt", "-t", "127.0.0.1:8080", "-v", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "probe")
	assert.Contains(t, out, "0 <path> out.txt")
	assert.Contains(t, out, "1 <int> 3")
	assert.Contains(t, out, "--target <socket> 127.0.0.1:8080")
	assert.Contains(t, out, "--verbose <bool> true")
}

func TestParse_WithoutTerminator(t *testing.T) {
	decl := writeDecl(t, "probe.yaml", probeDecl)
	out, err := execute(t, "parse", "-d", decl, "probe", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "--verbose <bool> true")
}

func TestParse_JSON(t *testing.T) {
	decl := writeDecl(t, "probe.yaml", probeDecl)
	out, err := execute(t, "--format", "json", "parse", "--decl", decl, "--", "probe", "--target=[::1]:53", "a", "9")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   ParseResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "probe", resp.Data.Binary)
	require.Len(t, resp.Data.Positionals, 2)
	assert.Equal(t, "9", resp.Data.Positionals[1].Value)
	assert.Equal(t, Value{Kind: args.KindSocket, Value: "[::1]:53", Host: "::1"}, resp.Data.Named["target"])
	assert.Equal(t, []string{"probe", "--target=[::1]:53", "a", "9"}, resp.Data.CommandLine)
}

func TestParse_Rejected(t *testing.T) {
	decl := writeDecl(t, "probe.yaml", probeDecl)
	tests := []struct {
		argv []string
		code string
	}{
		{[]string{"probe", "--bogus"}, "unknown_flag"},
		{[]string{"probe", "--target"}, "missing_flag_value"},
		{[]string{"probe", "x", "y"}, "invalid_value"},
		{[]string{"probe", "x", "1", "2"}, "too_many_positionals"},
	}
	for _, tt := range tests {
		out, err := execute(t, append([]string{"parse", "--decl", decl, "--"}, tt.argv...)...)
		require.Error(t, err, "%q", tt.argv)
		assert.Equal(t, ExitFailure, GetExitCode(err), "%q", tt.argv)
		assert.Contains(t, out, "["+tt.code+"]", "%q", tt.argv)
	}
}

func TestParse_RequiresDeclaration(t *testing.T) {
	_, err := execute(t, "parse", "--", "probe")
	require.Error(t, err)
}

type staticResolver map[string]netip.Addr

func (r staticResolver) LookupNetIP(_ context.Context, _, host string) ([]netip.Addr, error) {
	if a, ok := r[host]; ok {
		return []netip.Addr{a}, nil
	}
	return nil, errors.New("no such host")
}

func TestParse_ResolvesHosts(t *testing.T) {
	decl := writeDecl(t, "probe.yaml", probeDecl)
	opts := &ParseOptions{resolver: staticResolver{"db.internal": netip.MustParseAddr("10.1.2.3")}}

	buf := &bytes.Buffer{}
	cmd := newParseCommand(&RootOptions{Format: "text"}, opts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--decl", decl, "--", "probe", "-t", "db.internal:5432"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "--target <socket> 10.1.2.3:5432")

	buf.Reset()
	cmd = newParseCommand(&RootOptions{Format: "text"}, opts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--decl", decl, "--", "probe", "-t", "elsewhere:1"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "[resolution_failed]")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "x", errors.New("y"))))
	assert.Equal(t, "x: y", WrapExitError(ExitCommandError, "x", errors.New("y")).Error())
}
