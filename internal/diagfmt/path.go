package diagfmt

import "seqdiag/internal/source"

func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		if fs.BaseDir() != "" {
			return f.FormatPath("relative", fs.BaseDir())
		}
		return f.Path
	}
}
