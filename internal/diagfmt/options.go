package diagfmt

// PathMode selects how file paths are shown; the names match
// source.File.FormatPath modes.
type PathMode uint8

const (
	PathModeAuto     PathMode = iota // short paths as given, long absolute ones by basename
	PathModeAbsolute
	PathModeRelative // relative to FileSet.BaseDir
	PathModeBasename
)

var pathModeNames = [...]string{"auto", "absolute", "relative", "basename"}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return pathModeNames[PathModeAuto]
}

type PrettyOpts struct {
	Color     bool
	Context   int8 // строк контекста перед основной строкой
	PathMode  PathMode
	ShowNotes bool
	ShowFixes bool
}

type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool // before/after строки для каждой правки
}
