package convert

import (
	"path/filepath"
	"testing"

	"mcnbt/common"
	"mcnbt/state"
)

func TestBuildOutputPath(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		noDirs bool
		format common.OutputFmt
		want   string
	}{
		{"keeps structure", filepath.Join("region", "r.0.0.mca"), false, common.OutputFmtJSON, filepath.Join("/out", "region", "r.0.0.json")},
		{"flattens", filepath.Join("region", "r.0.0.mca"), true, common.OutputFmtJSON, filepath.Join("/out", "r.0.0.json")},
		{"replaces extension", "level.dat", false, common.OutputFmtSnbt, filepath.Join("/out", "level.snbt")},
		{"no extension", "level", false, common.OutputFmtNbt, filepath.Join("/out", "level.nbt")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := &state.LocalEnv{NoDirs: tc.noDirs}
			if got := buildOutputPath(tc.src, "/out", tc.format, env); got != tc.want {
				t.Errorf("buildOutputPath() = %s, want %s", got, tc.want)
			}
		})
	}
}
