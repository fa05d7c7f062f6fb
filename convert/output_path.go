package convert

import (
	"path/filepath"
	"strings"

	"mcnbt/common"
	"mcnbt/config"
	"mcnbt/state"
)

// buildOutputPath derives the destination file name from the relative
// source path, the destination directory and the requested format. The
// source directory structure is preserved unless NoDirs is set.
func buildOutputPath(src, dst string, format common.OutputFmt, env *state.LocalEnv) string {
	dir, base := filepath.Split(src)
	if env.NoDirs {
		dir = ""
	}
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return filepath.Join(dst, dir, config.CleanFileName(base)+format.Ext())
}
