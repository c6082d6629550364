//go:build !linux

package fileutil

func renameNoReplace(from, to string) error {
	return renameChecked(from, to)
}
