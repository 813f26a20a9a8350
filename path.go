package mailpreview

import "strings"

// PathSeparator joins a group path and a preview's local path.
const PathSeparator = "."

// BuildPath computes the full path of a preview. An empty groupPath means
// the preview is ungrouped and localPath is returned unchanged.
//
//	BuildPath("", "welcome")              // "welcome"
//	BuildPath("auth", "reset_password")   // "auth.reset_password"
func BuildPath(groupPath, localPath string) string {
	if groupPath == "" {
		return localPath
	}
	return groupPath + PathSeparator + localPath
}

// NormalizePath strips a single leading "/" from a declared path.
func NormalizePath(path string) string {
	return strings.TrimPrefix(path, "/")
}
