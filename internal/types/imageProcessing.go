package types

// FileEntry is a source PNG found under the input root.
type FileEntry struct {
	Path    string
	RelPath string
}

// OutputTarget is where one size of a FileEntry is written.
type OutputTarget struct {
	Size int
	Dir  string
	Path string
}
