package decl

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/containerd/errdefs"

	"github.com/TheGrizzlyDev/argsort/internal/pkg/args"
)

const probeYAML = `
positionals: [path, int]
flags:
  - name: target
    abbreviation: t
    kind: socket
  - name: verbose
    abbreviation: v
    kind: bool
  - name: ratio
    kind: float
`

var probeWant = &Declaration{
	Positionals: []args.Kind{args.KindPath, args.KindInt},
	Flags: []Flag{
		{Name: "target", Abbreviation: "t", Kind: args.KindSocket},
		{Name: "verbose", Abbreviation: "v", Kind: args.KindBool},
		{Name: "ratio", Kind: args.KindFloat},
	},
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  Format
		want    *Declaration
		wantErr bool
	}{
		{
			name:   "yaml",
			data:   probeYAML,
			format: FormatYAML,
			want:   probeWant,
		},
		{
			name:   "json",
			data:   `{"positionals":["path","int"],"flags":[{"name":"target","abbreviation":"t","kind":"socket"},{"name":"verbose","abbreviation":"v","kind":"bool"},{"name":"ratio","kind":"float"}]}`,
			format: FormatJSON,
			want:   probeWant,
		},
		{
			name:   "empty object",
			data:   `{}`,
			format: FormatJSON,
			want:   &Declaration{},
		},
		{
			name:    "unknown kind",
			data:    `{"positionals":["tuple"]}`,
			format:  FormatJSON,
			wantErr: true,
		},
		{
			name:    "missing kind",
			data:    "flags:\n  - name: x\n",
			format:  FormatYAML,
			wantErr: true,
		},
		{
			name:    "long abbreviation",
			data:    `{"flags":[{"name":"x","abbreviation":"xy","kind":"bool"}]}`,
			format:  FormatJSON,
			wantErr: true,
		},
		{
			name:    "bad name",
			data:    `{"flags":[{"name":"has space","kind":"bool"}]}`,
			format:  FormatJSON,
			wantErr: true,
		},
		{
			name:    "unknown field",
			data:    `{"flags":[],"help":"nope"}`,
			format:  FormatJSON,
			wantErr: true,
		},
		{
			name:    "empty yaml",
			data:    "",
			format:  FormatYAML,
			wantErr: true,
		},
		{
			name:    "broken json",
			data:    `{"flags":`,
			format:  FormatJSON,
			wantErr: true,
		},
		{
			name:    "unknown format",
			data:    `{}`,
			format:  Format("toml"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.data), tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if !errdefs.IsInvalidArgument(err) {
					t.Fatalf("expected invalid argument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("declaration = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDeclaration_Parser(t *testing.T) {
	d, err := Parse([]byte(probeYAML), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	p, err := d.Parser()
	if err != nil {
		t.Fatalf("Parser: %v", err)
	}
	want := []args.FlagDefinition{
		{Name: "target", Abbreviation: 't', Kind: args.KindSocket},
		{Name: "verbose", Abbreviation: 'v', Kind: args.KindBool},
		{Name: "ratio", Kind: args.KindFloat},
	}
	if !reflect.DeepEqual(p.Flags(), want) {
		t.Fatalf("flags = %v, want %v", p.Flags(), want)
	}
}

func TestDeclaration_ParserDuplicates(t *testing.T) {
	d, err := Parse([]byte(`{"flags":[{"name":"a","abbreviation":"x","kind":"int"},{"name":"b","abbreviation":"x","kind":"int"}]}`), FormatJSON)
	if err != nil {
		t.Fatalf("schema should accept this: %v", err)
	}
	_, err = d.Parser()
	if args.KindOf(err) != args.ErrDuplicateAbbreviation {
		t.Fatalf("expected duplicate abbreviation, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "probe.yml")
	if err := os.WriteFile(yml, []byte(probeYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(yml)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, probeWant) {
		t.Fatalf("declaration = %#v, want %#v", got, probeWant)
	}

	if _, err := Load(filepath.Join(dir, "probe.toml")); !errdefs.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument for unknown extension, got %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist, got %v", err)
	}
}
